package debate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/parley-ai/parley/pkg/agent"
	"github.com/parley-ai/parley/pkg/problem"
)

// State is a solver context's position in the pipeline.
type State string

const (
	StateCreated State = "created"
	StateSolved  State = "solved"
	StateRefined State = "refined"
)

// ErrReviewMismatch reports a review delivered to the wrong reviewee.
// The review is discarded; the context does not change.
var ErrReviewMismatch = errors.New("review delivered to wrong reviewee")

// SolverAgentContext tracks one solver agent's state through a single
// problem: its solution, the peer reviews it received, and its refined
// solution. The stage currently acting on a context owns it
// exclusively; only ReceiveReview may be called from concurrent tasks
// and is serialized internally.
type SolverAgentContext struct {
	agent   agent.Agent
	problem problem.Problem
	runID   string

	logInterval time.Duration

	mu          sync.Mutex
	state       State
	solution    *ProblemSolution
	peerReviews []ProblemSolutionReview
	refined     *RefinedProblemSolution
}

func NewSolverAgentContext(a agent.Agent, p problem.Problem, runID string, logInterval time.Duration) *SolverAgentContext {
	return &SolverAgentContext{
		agent:       a,
		problem:     p,
		runID:       runID,
		logInterval: logInterval,
		state:       StateCreated,
	}
}

func (c *SolverAgentContext) SolverID() string { return c.agent.ID() }

func (c *SolverAgentContext) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Solution returns the solved (or sentinel) solution, nil before Solve.
func (c *SolverAgentContext) Solution() *ProblemSolution {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.solution
}

// PeerReviews returns a copy of the reviews received so far.
func (c *SolverAgentContext) PeerReviews() []ProblemSolutionReview {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ProblemSolutionReview(nil), c.peerReviews...)
}

// RefinedSolution returns the refinement result, nil before Refine.
func (c *SolverAgentContext) RefinedSolution() *RefinedProblemSolution {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refined
}

// runCall executes one structured agent call with a progress heartbeat
// that is stopped on every exit path, and reports the elapsed seconds.
func (c *SolverAgentContext) runCall(ctx context.Context, method string, call agent.Call, out any) (float64, error) {
	stop := startHeartbeat(c.logInterval, c.agent.ID(), c.problem.ID, method)
	defer stop()

	start := time.Now()
	err := c.agent.RunStructuredCall(ctx, call, out)
	return time.Since(start).Seconds(), err
}

// AssessRole asks the agent to score its own suitability for each role.
func (c *SolverAgentContext) AssessRole(ctx context.Context, timeout time.Duration) (*RoleAssessment, error) {
	var output roleAssessmentOutput
	_, err := c.runCall(ctx, "role_assessment", agent.Call{
		SystemPrompt: roleAssessmentSystemPrompt,
		UserPrompt:   buildRoleAssessmentUserPrompt(c.problem),
		Schema:       roleAssessmentSchema,
		Timeout:      timeout,
	}, &output)
	if err != nil {
		return nil, err
	}

	return &RoleAssessment{
		LLMID:        c.agent.ID(),
		AssessmentID: uuid.New().String(),
		ProblemID:    c.problem.ID,
		RunID:        c.runID,
		RoleScores:   output.RoleScores,
		Reasoning:    output.Reasoning,
	}, nil
}

// Solve produces this agent's solution and moves the context to
// Solved. A wall-clock timeout degrades to a sentinel solution so the
// context stays in the pipeline; any other failure leaves the context
// in Created.
func (c *SolverAgentContext) Solve(ctx context.Context, timeout time.Duration) (*ProblemSolution, error) {
	c.mu.Lock()
	if c.state != StateCreated {
		state := c.state
		c.mu.Unlock()
		return nil, fmt.Errorf("solve called in state %s", state)
	}
	c.mu.Unlock()

	var output solverOutput
	elapsed, err := c.runCall(ctx, "solver", agent.Call{
		SystemPrompt: buildSolverSystemPrompt(c.problem.Category),
		UserPrompt:   buildSolverUserPrompt(c.problem),
		Schema:       solverSchema,
		Timeout:      timeout,
	}, &output)

	switch {
	case errors.Is(err, agent.ErrTimeout):
		slog.Warn("Solve call timed out, recording sentinel solution",
			"agent", c.agent.ID(), "problem", c.problem.ID, "timeout", timeout)
		output = solverOutput{
			Answer:    TimeoutAnswer,
			Reasoning: []string{"Solver timed out before producing an answer."},
		}
	case err != nil:
		return nil, err
	}

	solution := &ProblemSolution{
		SolutionID:     uuid.New().String(),
		ProblemID:      c.problem.ID,
		RunID:          c.runID,
		SolverLLMID:    c.agent.ID(),
		TimeElapsedSec: elapsed,
		Answer:         output.Answer,
		Reasoning:      output.Reasoning,
	}

	c.mu.Lock()
	c.solution = solution
	c.state = StateSolved
	c.mu.Unlock()
	return solution, nil
}

// GenerateReview reviews another context's solution. It does not
// mutate this context.
func (c *SolverAgentContext) GenerateReview(ctx context.Context, target *ProblemSolution, timeout time.Duration) (*ProblemSolutionReview, error) {
	if target.SolverLLMID == c.agent.ID() {
		return nil, fmt.Errorf("agent %s cannot review its own solution", c.agent.ID())
	}

	var output reviewOutput
	elapsed, err := c.runCall(ctx, "peer_review", agent.Call{
		SystemPrompt: peerReviewSystemPrompt,
		UserPrompt:   buildPeerReviewUserPrompt(c.problem, target),
		Schema:       reviewSchema,
		Timeout:      timeout,
	}, &output)
	if err != nil {
		return nil, err
	}

	return &ProblemSolutionReview{
		ReviewID:   uuid.New().String(),
		RunID:      c.runID,
		ProblemID:  c.problem.ID,
		ReviewerID: c.agent.ID(),
		RevieweeID: target.SolverLLMID,
		Evaluation: ReviewEvaluation{
			Strengths:        output.Strengths,
			Weaknesses:       output.Weaknesses,
			Errors:           output.Errors,
			SuggestedChanges: output.SuggestedChanges,
		},
		OverallAssessment: OverallAssessment(output.OverallAssessment),
		ConfidenceScore:   output.ConfidenceScore,
		TimeElapsedSec:    elapsed,
	}, nil
}

// ReceiveReview appends a review to this context. Reviews addressed to
// another solver are rejected with ErrReviewMismatch. Safe to call
// from concurrently running reviewer tasks.
func (c *SolverAgentContext) ReceiveReview(review *ProblemSolutionReview) error {
	if review.RevieweeID != c.agent.ID() {
		return fmt.Errorf("%w: intended for %s, received by %s",
			ErrReviewMismatch, review.RevieweeID, c.agent.ID())
	}

	c.mu.Lock()
	c.peerReviews = append(c.peerReviews, *review)
	c.mu.Unlock()

	slog.Info("Review received",
		"solver", c.agent.ID(),
		"from", review.ReviewerID,
		"assessment", review.OverallAssessment,
		"confidence", review.ConfidenceScore)
	return nil
}

// Refine reworks the solution using every accumulated review and moves
// the context to Refined. Callers must skip contexts without reviews.
func (c *SolverAgentContext) Refine(ctx context.Context, timeout time.Duration) (*RefinedProblemSolution, error) {
	c.mu.Lock()
	if c.state != StateSolved {
		state := c.state
		c.mu.Unlock()
		return nil, fmt.Errorf("refine called in state %s", state)
	}
	if len(c.peerReviews) == 0 {
		c.mu.Unlock()
		return nil, fmt.Errorf("refine called with no peer reviews for %s", c.agent.ID())
	}
	solution := c.solution
	reviews := append([]ProblemSolutionReview(nil), c.peerReviews...)
	c.mu.Unlock()

	var output solverOutput
	elapsed, err := c.runCall(ctx, "refinement", agent.Call{
		SystemPrompt: refinementSystemPrompt,
		UserPrompt:   buildRefinementUserPrompt(c.problem, solution, reviews),
		Schema:       solverSchema,
		Timeout:      timeout,
	}, &output)
	if err != nil {
		return nil, err
	}

	reviewIDs := make([]string, len(reviews))
	for i, r := range reviews {
		reviewIDs[i] = r.ReviewID
	}

	refined := &RefinedProblemSolution{
		RefinedSolutionID: uuid.New().String(),
		ParentSolutionID:  solution.SolutionID,
		ProblemID:         c.problem.ID,
		RunID:             c.runID,
		SolverLLMID:       c.agent.ID(),
		ReviewIDs:         reviewIDs,
		TimeElapsedSec:    elapsed,
		RefinedAnswer:     output.Answer,
		Reasoning:         output.Reasoning,
	}

	c.mu.Lock()
	c.refined = refined
	c.state = StateRefined
	c.mu.Unlock()
	return refined, nil
}
