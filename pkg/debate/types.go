// Package debate orchestrates a multi-agent debate over one problem:
// role assignment, solving, peer review and refinement.
package debate

import "github.com/parley-ai/parley/pkg/agent"

// Role is an agent's function in a run.
type Role string

const (
	RoleSolver Role = "Solver"
	RoleJudge  Role = "Judge"
)

// OverallAssessment is a reviewer's verdict on a solution.
type OverallAssessment string

const (
	AssessmentCorrect            OverallAssessment = "correct"
	AssessmentMostlyCorrect      OverallAssessment = "mostly_correct"
	AssessmentPromisingButFlawed OverallAssessment = "promising_but_flawed"
	AssessmentIncorrect          OverallAssessment = "incorrect"
)

// TimeoutAnswer is the sentinel answer recorded when a solve call runs
// out of wall-clock time. The context still reaches Solved and stays
// eligible for peer review.
const TimeoutAnswer = "TIMEOUT"

// RoleScore is one (role, score) pair from a self-assessment.
type RoleScore struct {
	Role  string  `json:"role"`
	Score float64 `json:"score"`
}

// roleAssessmentOutput is the model-produced part of a role
// self-assessment. Identity fields are stamped by the orchestrator.
type roleAssessmentOutput struct {
	RoleScores []RoleScore `json:"role_scores"`
	Reasoning  string      `json:"reasoning"`
}

// RoleAssessment is a completed self-assessment, retained only for the
// role election and as a persisted audit record.
type RoleAssessment struct {
	LLMID        string      `json:"llm_id"`
	AssessmentID string      `json:"assessment_id"`
	ProblemID    string      `json:"problem_id"`
	RunID        string      `json:"run_id"`
	RoleScores   []RoleScore `json:"role_scores"`
	Reasoning    string      `json:"reasoning"`
}

// scoreFor looks up a role's score, defaulting to 0.0 when the model
// did not score that role.
func (a *RoleAssessment) scoreFor(role Role) float64 {
	for _, rs := range a.RoleScores {
		if rs.Role == string(role) {
			return rs.Score
		}
	}
	return 0.0
}

// judgePreference ranks agents for the Judge election.
func (a *RoleAssessment) judgePreference() float64 {
	return a.scoreFor(RoleJudge) - a.scoreFor(RoleSolver)
}

// solverOutput is the model-produced part of a solution.
type solverOutput struct {
	Answer    string   `json:"answer"`
	Reasoning []string `json:"reasoning"`
}

// ProblemSolution is a solver's answer with orchestrator-assigned
// identity.
type ProblemSolution struct {
	SolutionID     string   `json:"solution_id"`
	ProblemID      string   `json:"problem_id"`
	RunID          string   `json:"run_id"`
	SolverLLMID    string   `json:"solver_llm_model_id"`
	TimeElapsedSec float64  `json:"time_elapsed_sec"`
	Answer         string   `json:"answer"`
	Reasoning      []string `json:"reasoning"`
}

// SolutionError is one concrete error a reviewer found.
type SolutionError struct {
	Location    string `json:"location"`
	ErrorType   string `json:"error_type"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

// ReviewEvaluation is the structured body of a peer review.
type ReviewEvaluation struct {
	Strengths        []string        `json:"strengths"`
	Weaknesses       []string        `json:"weaknesses"`
	Errors           []SolutionError `json:"errors"`
	SuggestedChanges []string        `json:"suggested_changes"`
}

// reviewOutput is the model-produced part of a peer review.
type reviewOutput struct {
	Strengths         []string        `json:"strengths"`
	Weaknesses        []string        `json:"weaknesses"`
	Errors            []SolutionError `json:"errors"`
	SuggestedChanges  []string        `json:"suggested_changes"`
	OverallAssessment string          `json:"overall_assessment"`
	ConfidenceScore   float64         `json:"confidence_score"`
}

// ProblemSolutionReview is a delivered peer review.
type ProblemSolutionReview struct {
	ReviewID          string            `json:"review_id"`
	RunID             string            `json:"run_id"`
	ProblemID         string            `json:"problem_id"`
	ReviewerID        string            `json:"reviewer_id"`
	RevieweeID        string            `json:"reviewee_id"`
	Evaluation        ReviewEvaluation  `json:"evaluation"`
	OverallAssessment OverallAssessment `json:"overall_assessment"`
	ConfidenceScore   float64           `json:"confidence_score"`
	TimeElapsedSec    float64           `json:"time_elapsed_sec"`
}

// RefinedProblemSolution is a solution reworked in light of the
// reviews its solver received.
type RefinedProblemSolution struct {
	RefinedSolutionID string   `json:"refined_solution_id"`
	ParentSolutionID  string   `json:"parent_solution_id"`
	ProblemID         string   `json:"problem_id"`
	RunID             string   `json:"run_id"`
	SolverLLMID       string   `json:"solver_llm_model_id"`
	ReviewIDs         []string `json:"review_ids"`
	TimeElapsedSec    float64  `json:"time_elapsed_sec"`
	RefinedAnswer     string   `json:"refined_answer"`
	Reasoning         []string `json:"reasoning"`
}

// Schemas for the model-facing output shapes, derived once.
var (
	roleAssessmentSchema = agent.MustSchemaFor[roleAssessmentOutput]()
	solverSchema         = agent.MustSchemaFor[solverOutput]()
	reviewSchema         = agent.MustSchemaFor[reviewOutput]()
)
