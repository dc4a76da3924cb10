package debate

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/semaphore"

	"github.com/parley-ai/parley/pkg/agent"
	"github.com/parley-ai/parley/pkg/store"
)

func assessResponse(solverScore, judgeScore float64) agent.MockResponse {
	return agent.MockResponse{Value: roleAssessmentOutput{
		RoleScores: []RoleScore{
			{Role: "Solver", Score: solverScore},
			{Role: "Judge", Score: judgeScore},
		},
		Reasoning: "self assessment",
	}}
}

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func newRoleStage(st store.Store) *RoleAssignmentStage {
	return &RoleAssignmentStage{
		store: &storeWriter{store: st},
		sem:   semaphore.NewWeighted(4),
	}
}

func TestRoleAssignmentElectsOneJudge(t *testing.T) {
	t.Parallel()

	// delta elects itself Judge with the largest judge-solver margin.
	contexts := []*SolverAgentContext{
		NewSolverAgentContext(agent.NewMock("alpha", assessResponse(0.9, 0.5)), testProblem(), "run-1", 0),
		NewSolverAgentContext(agent.NewMock("beta", assessResponse(0.8, 0.6)), testProblem(), "run-1", 0),
		NewSolverAgentContext(agent.NewMock("gamma", assessResponse(0.7, 0.7)), testProblem(), "run-1", 0),
		NewSolverAgentContext(agent.NewMock("delta", assessResponse(0.1, 1.0)), testProblem(), "run-1", 0),
	}

	rc := NewRunContext()
	solvers, judgeID, err := newRoleStage(newTestStore(t)).Run(context.Background(), rc, contexts)
	require.NoError(t, err)

	assert.Equal(t, "delta", judgeID)
	assert.Equal(t, RoleJudge, rc.RoleOf("delta"))
	require.Len(t, solvers, 3)
	for _, c := range solvers {
		assert.Equal(t, RoleSolver, rc.RoleOf(c.SolverID()))
	}
}

func TestRoleAssignmentTieBreaksOnAgentID(t *testing.T) {
	t.Parallel()

	contexts := []*SolverAgentContext{
		NewSolverAgentContext(agent.NewMock("charlie", assessResponse(0.5, 0.9)), testProblem(), "run-1", 0),
		NewSolverAgentContext(agent.NewMock("bravo", assessResponse(0.5, 0.9)), testProblem(), "run-1", 0),
		NewSolverAgentContext(agent.NewMock("alpha", assessResponse(0.5, 0.9)), testProblem(), "run-1", 0),
	}

	rc := NewRunContext()
	_, judgeID, err := newRoleStage(newTestStore(t)).Run(context.Background(), rc, contexts)
	require.NoError(t, err)
	assert.Equal(t, "alpha", judgeID)
}

func TestRoleAssignmentToleratesFailuresAboveFloor(t *testing.T) {
	t.Parallel()

	contexts := []*SolverAgentContext{
		NewSolverAgentContext(agent.NewMock("alpha", assessResponse(0.9, 0.2)), testProblem(), "run-1", 0),
		NewSolverAgentContext(agent.NewMock("beta", assessResponse(0.8, 0.3)), testProblem(), "run-1", 0),
		NewSolverAgentContext(agent.NewMock("gamma", assessResponse(0.2, 0.9)), testProblem(), "run-1", 0),
		NewSolverAgentContext(agent.NewMock("broken",
			agent.MockResponse{Err: fmt.Errorf("model unavailable")}), testProblem(), "run-1", 0),
	}

	rc := NewRunContext()
	solvers, judgeID, err := newRoleStage(newTestStore(t)).Run(context.Background(), rc, contexts)
	require.NoError(t, err)

	assert.Equal(t, "gamma", judgeID)
	require.Len(t, solvers, 2)
	// The failed agent gets no role at all.
	assert.Equal(t, Role(""), rc.RoleOf("broken"))
}

func TestRoleAssignmentFatalBelowFloor(t *testing.T) {
	t.Parallel()

	contexts := []*SolverAgentContext{
		NewSolverAgentContext(agent.NewMock("alpha", assessResponse(0.9, 0.2)), testProblem(), "run-1", 0),
		NewSolverAgentContext(agent.NewMock("beta", assessResponse(0.8, 0.3)), testProblem(), "run-1", 0),
		NewSolverAgentContext(agent.NewMock("broken",
			agent.MockResponse{Err: fmt.Errorf("model unavailable")}), testProblem(), "run-1", 0),
	}

	rc := NewRunContext()
	_, _, err := newRoleStage(newTestStore(t)).Run(context.Background(), rc, contexts)
	require.ErrorIs(t, err, ErrInsufficientAgents)
}

func TestRoleAssignmentPersistsAssessments(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	contexts := []*SolverAgentContext{
		NewSolverAgentContext(agent.NewMock("alpha", assessResponse(0.9, 0.2)), testProblem(), "run-1", 0),
		NewSolverAgentContext(agent.NewMock("beta", assessResponse(0.8, 0.3)), testProblem(), "run-1", 0),
		NewSolverAgentContext(agent.NewMock("gamma", assessResponse(0.2, 0.9)), testProblem(), "run-1", 0),
	}

	_, _, err := newRoleStage(st).Run(context.Background(), NewRunContext(), contexts)
	require.NoError(t, err)

	count, err := st.Count(context.Background(), store.RoleAssessments)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestElectJudgeDefaultsMissingScoresToZero(t *testing.T) {
	t.Parallel()

	assessments := []*RoleAssessment{
		{LLMID: "alpha", RoleScores: []RoleScore{{Role: "Solver", Score: 0.5}}},
		{LLMID: "beta", RoleScores: []RoleScore{{Role: "Judge", Score: 0.1}}},
	}
	// alpha nets -0.5, beta nets +0.1.
	assert.Equal(t, "beta", electJudge(assessments))
}
