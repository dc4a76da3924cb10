package debate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/parley-ai/parley/pkg/store"
)

// MinAssessedAgents is the floor below which a debate cannot form:
// one Judge plus a reviewable pair of Solvers.
const MinAssessedAgents = 3

// ErrInsufficientAgents aborts the session when too few agents
// complete role assessment.
var ErrInsufficientAgents = errors.New("fewer than 3 agents completed role assessment")

// RoleAssignmentStage elects exactly one Judge and assigns every other
// successfully assessed agent as Solver.
type RoleAssignmentStage struct {
	store   *storeWriter
	sem     *semaphore.Weighted
	timeout time.Duration
}

// Run assesses every context, freezes the elected roles onto rc, and
// returns the Solver contexts together with the elected Judge's id.
// Individual assessment failures are logged and tolerated down to the
// 3-agent floor; below it the error is fatal for the session.
func (s *RoleAssignmentStage) Run(ctx context.Context, rc *RunContext, contexts []*SolverAgentContext) ([]*SolverAgentContext, string, error) {
	slog.Info("Role assessment started", "run_id", rc.RunID, "agents", len(contexts))

	assessments := make([]*RoleAssessment, len(contexts))
	fanOut(ctx, s.sem, len(contexts), func(ctx context.Context, i int) {
		c := contexts[i]

		assessment, err := c.AssessRole(ctx, s.timeout)
		if err != nil {
			slog.Error("Role assessment failed, excluding agent",
				"agent", c.SolverID(), "problem", c.problem.ID, "error", err)
			return
		}

		doc := newRoleAssessmentDocument(assessment)
		if err := s.store.Write(ctx, store.RoleAssessments, doc, assessment.AssessmentID); err != nil {
			slog.Error("Failed to persist role assessment, excluding agent",
				"agent", c.SolverID(), "problem", c.problem.ID, "error", err)
			return
		}
		s.store.SaveArtifact("role_assessments", fmt.Sprintf("%s_%s", doc.LLMID, doc.ProblemID), doc)

		assessments[i] = assessment
	})

	valid := make([]*RoleAssessment, 0, len(assessments))
	for _, a := range assessments {
		if a != nil {
			valid = append(valid, a)
		}
	}
	if len(valid) < MinAssessedAgents {
		return nil, "", fmt.Errorf("%w: got %d", ErrInsufficientAgents, len(valid))
	}

	judgeID := electJudge(valid)

	roles := make(map[string]Role, len(valid))
	for _, a := range valid {
		if a.LLMID == judgeID {
			roles[a.LLMID] = RoleJudge
		} else {
			roles[a.LLMID] = RoleSolver
		}
	}
	if err := rc.FreezeRoles(roles); err != nil {
		return nil, "", err
	}

	var solvers []*SolverAgentContext
	for _, c := range contexts {
		if rc.RoleOf(c.SolverID()) == RoleSolver {
			solvers = append(solvers, c)
		}
	}

	slog.Info("Roles assigned", "run_id", rc.RunID, "judge", judgeID, "solvers", len(solvers))
	return solvers, judgeID, nil
}

// electJudge ranks agents by (judge score − solver score), highest
// first, and returns the winner. Ties fall back to agent id ordering
// so the election is deterministic.
func electJudge(assessments []*RoleAssessment) string {
	ranked := append([]*RoleAssessment(nil), assessments...)
	sort.Slice(ranked, func(i, j int) bool {
		pi, pj := ranked[i].judgePreference(), ranked[j].judgePreference()
		if pi != pj {
			return pi > pj
		}
		return ranked[i].LLMID < ranked[j].LLMID
	})
	return ranked[0].LLMID
}
