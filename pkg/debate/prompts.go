package debate

import (
	"fmt"
	"strings"

	"github.com/parley-ai/parley/pkg/problem"
)

const roleAssessmentSystemPrompt = "You are part of a multi-agent reasoning system.\n\n" +
	"Your task is to assess your suitability for each role below:\n" +
	"- Solver: independently solves the problem.\n" +
	"- Judge: evaluates and critiques solutions from others.\n\n" +
	"For the given problem, estimate your suitability for EACH role.\n" +
	"Return confidence scores between 0.0 and 1.0.\n" +
	"Do NOT choose a final role."

func buildRoleAssessmentUserPrompt(p problem.Problem) string {
	return fmt.Sprintf("Problem:\n%s\n\nAssess your suitability for each role.", p.Statement)
}

func buildSolverSystemPrompt(category string) string {
	return fmt.Sprintf(
		"You are an expert problem solver in the %s domain.\n\n"+
			"Solve the problem using precise logical reasoning. Show every step, "+
			"state your assumptions, and finish with a single final answer.",
		category,
	)
}

func buildSolverUserPrompt(p problem.Problem) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Category: %s\n", p.Category)
	if p.Subcategory != "" {
		fmt.Fprintf(&sb, "Subcategory: %s\n", p.Subcategory)
	}
	fmt.Fprintf(&sb, "\nProblem:\n%s\n\nProvide your final answer and the reasoning steps that lead to it.", p.Statement)
	return sb.String()
}

const peerReviewSystemPrompt = "You are reviewing another agent's solution to a problem you also understand.\n\n" +
	"Identify concrete strengths, weaknesses and errors in the solution, " +
	"suggest actionable changes, and give an overall assessment " +
	"(correct, mostly_correct, promising_but_flawed, or incorrect) with a " +
	"confidence score between 0.0 and 1.0.\n" +
	"Judge only the solution in front of you. Do not produce your own solution."

func buildPeerReviewUserPrompt(p problem.Problem, solution *ProblemSolution) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Problem:\n%s\n\n", p.Statement)
	fmt.Fprintf(&sb, "Solution under review (by another agent):\n")
	fmt.Fprintf(&sb, "Final answer: %s\n", solution.Answer)
	sb.WriteString("Reasoning steps:\n")
	for i, step := range solution.Reasoning {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, step)
	}
	sb.WriteString("\nReview this solution.")
	return sb.String()
}

const refinementSystemPrompt = "You previously solved a problem and have now received peer reviews of your solution.\n\n" +
	"Produce a refined solution: keep what the reviews confirm, fix what " +
	"they correctly criticise, and ignore feedback you can justify rejecting.\n" +
	"Return the complete refined answer with full reasoning, not a diff."

func buildRefinementUserPrompt(p problem.Problem, solution *ProblemSolution, reviews []ProblemSolutionReview) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Problem:\n%s\n\n", p.Statement)
	fmt.Fprintf(&sb, "Your original answer: %s\n", solution.Answer)
	sb.WriteString("Your original reasoning:\n")
	for i, step := range solution.Reasoning {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, step)
	}

	for i, review := range reviews {
		fmt.Fprintf(&sb, "\nPeer review %d (assessment: %s, confidence %.2f):\n",
			i+1, review.OverallAssessment, review.ConfidenceScore)
		writeList(&sb, "Strengths", review.Evaluation.Strengths)
		writeList(&sb, "Weaknesses", review.Evaluation.Weaknesses)
		for _, e := range review.Evaluation.Errors {
			fmt.Fprintf(&sb, "- Error at %s (%s, %s): %s\n", e.Location, e.ErrorType, e.Severity, e.Description)
		}
		writeList(&sb, "Suggested changes", review.Evaluation.SuggestedChanges)
	}

	sb.WriteString("\nProduce your refined solution.")
	return sb.String()
}

func writeList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s:\n", label)
	for _, item := range items {
		fmt.Fprintf(sb, "- %s\n", item)
	}
}
