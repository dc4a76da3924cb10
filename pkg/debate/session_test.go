package debate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parley-ai/parley/pkg/agent"
	"github.com/parley-ai/parley/pkg/store"
)

// solverScript scripts a full solver lifecycle against two peers:
// assessment, solve, two outgoing reviews, refinement.
func solverScript(answer string) []agent.MockResponse {
	return []agent.MockResponse{
		assessResponse(0.9, 0.2),
		solveResponse(answer),
		reviewResponse("mostly_correct"),
		reviewResponse("mostly_correct"),
		solveResponse(answer + " refined"),
	}
}

func judgeScript() []agent.MockResponse {
	return []agent.MockResponse{assessResponse(0.1, 1.0)}
}

func TestSessionFullDebate(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	agents := []agent.Agent{
		agent.NewMock("alpha", solverScript("4")...),
		agent.NewMock("beta", solverScript("5")...),
		agent.NewMock("gamma", solverScript("4")...),
		agent.NewMock("delta", judgeScript()...),
	}

	session := NewSession(testProblem(), agents, st, "", Options{MaxConcurrency: 2})
	require.NoError(t, session.Run(context.Background()))

	rc := session.RunContext()
	assert.Equal(t, RoleJudge, rc.RoleOf("delta"))
	for _, id := range []string{"alpha", "beta", "gamma"} {
		assert.Equal(t, RoleSolver, rc.RoleOf(id))
	}

	ctx := context.Background()
	for collection, want := range map[string]int{
		store.RoleAssessments:  4,
		store.Solutions:        3,
		store.SolutionReviews:  6, // 3 solvers reviewing each other, both directions
		store.RefinedSolutions: 3,
	} {
		count, err := st.Count(ctx, collection)
		require.NoError(t, err)
		assert.Equal(t, want, count, collection)
	}

	var run map[string]any
	require.NoError(t, st.Get(ctx, store.Runs, session.RunID(), &run))
	assert.Equal(t, "completed", run["status"])
	assert.Equal(t, "delta", run["judge_id"])
	assert.Equal(t, session.RunID(), run["run_id"])
	require.IsType(t, map[string]any{}, run["final_roles"])
	assert.Len(t, run["final_roles"], 4)
}

func TestSessionSolverTimeoutStaysInDebate(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	timedOut := []agent.MockResponse{
		assessResponse(0.9, 0.2),
		{Err: agent.ErrTimeout}, // solve
		reviewResponse("incorrect"),
		reviewResponse("incorrect"),
		solveResponse("recovered"),
	}
	agents := []agent.Agent{
		agent.NewMock("alpha", timedOut...),
		agent.NewMock("beta", solverScript("5")...),
		agent.NewMock("gamma", solverScript("4")...),
		agent.NewMock("delta", judgeScript()...),
	}

	session := NewSession(testProblem(), agents, st, "", Options{MaxConcurrency: 2})
	require.NoError(t, session.Run(context.Background()))

	var alpha *SolverAgentContext
	for _, c := range session.contexts {
		if c.SolverID() == "alpha" {
			alpha = c
		}
	}
	require.NotNil(t, alpha)

	// The timed-out solver records the sentinel answer, still gets
	// reviewed by both peers and still refines.
	assert.Equal(t, TimeoutAnswer, alpha.Solution().Answer)
	assert.Len(t, alpha.PeerReviews(), 2)
	assert.Equal(t, StateRefined, alpha.State())

	count, err := st.Count(context.Background(), store.SolutionReviews)
	require.NoError(t, err)
	assert.Equal(t, 6, count)
}

func TestSessionSkipsRefinementWithoutReviews(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	// Every review call fails, so nobody accumulates reviews and the
	// refinement stage must leave all contexts in Solved.
	brokenReviews := func(answer string) []agent.MockResponse {
		return []agent.MockResponse{
			assessResponse(0.9, 0.2),
			solveResponse(answer),
			{Err: fmt.Errorf("model unavailable")},
			{Err: fmt.Errorf("model unavailable")},
		}
	}
	agents := []agent.Agent{
		agent.NewMock("alpha", brokenReviews("4")...),
		agent.NewMock("beta", brokenReviews("5")...),
		agent.NewMock("gamma", brokenReviews("6")...),
		agent.NewMock("delta", judgeScript()...),
	}

	session := NewSession(testProblem(), agents, st, "", Options{MaxConcurrency: 2})
	require.NoError(t, session.Run(context.Background()))

	for _, c := range session.contexts {
		if session.RunContext().RoleOf(c.SolverID()) != RoleSolver {
			continue
		}
		assert.Equal(t, StateSolved, c.State())
		assert.Nil(t, c.RefinedSolution())
	}

	ctx := context.Background()
	reviews, err := st.Count(ctx, store.SolutionReviews)
	require.NoError(t, err)
	assert.Zero(t, reviews)

	refined, err := st.Count(ctx, store.RefinedSolutions)
	require.NoError(t, err)
	assert.Zero(t, refined)
}

func TestSessionsAreIndependent(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	newAgents := func() []agent.Agent {
		return []agent.Agent{
			agent.NewMock("alpha", solverScript("4")...),
			agent.NewMock("beta", solverScript("5")...),
			agent.NewMock("gamma", solverScript("4")...),
			agent.NewMock("delta", judgeScript()...),
		}
	}

	first := NewSession(testProblem(), newAgents(), st, "", Options{})
	second := NewSession(testProblem(), newAgents(), st, "", Options{})

	require.NoError(t, first.Run(context.Background()))
	require.NoError(t, second.Run(context.Background()))

	assert.NotEqual(t, first.RunID(), second.RunID())

	count, err := st.Count(context.Background(), store.Runs)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSessionFatalWhenTooFewAgentsAssess(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	agents := []agent.Agent{
		agent.NewMock("alpha", assessResponse(0.9, 0.2)),
		agent.NewMock("beta", agent.MockResponse{Err: fmt.Errorf("model unavailable")}),
		agent.NewMock("gamma", agent.MockResponse{Err: fmt.Errorf("model unavailable")}),
	}

	session := NewSession(testProblem(), agents, st, "", Options{})
	err := session.Run(context.Background())
	require.ErrorIs(t, err, ErrInsufficientAgents)
}

func TestSessionWritesArtifactMirror(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	outputDir := t.TempDir()

	agents := []agent.Agent{
		agent.NewMock("alpha", solverScript("4")...),
		agent.NewMock("beta", solverScript("5")...),
		agent.NewMock("gamma", solverScript("4")...),
		agent.NewMock("delta", judgeScript()...),
	}

	session := NewSession(testProblem(), agents, st, outputDir, Options{})
	require.NoError(t, session.Run(context.Background()))

	runDir := filepath.Join(outputDir, session.RunID())
	for subdir, want := range map[string]int{
		"role_assessments":  4,
		"solutions":         3,
		"reviews":           6,
		"refined_solutions": 3,
	} {
		entries, err := os.ReadDir(filepath.Join(runDir, subdir))
		require.NoError(t, err, subdir)
		assert.Len(t, entries, want, subdir)
	}
}

func TestBuildPairsCoversAllOrderedPairs(t *testing.T) {
	t.Parallel()

	var solvers []*SolverAgentContext
	for _, id := range []string{"alpha", "beta", "gamma", "delta"} {
		solvers = append(solvers, NewSolverAgentContext(agent.NewMock(id), testProblem(), "run-1", 0))
	}

	pairs := buildPairs(solvers)
	require.Len(t, pairs, 4*3)

	seen := map[string]bool{}
	for _, p := range pairs {
		require.NotEqual(t, p.reviewer.SolverID(), p.reviewee.SolverID())
		key := p.reviewer.SolverID() + "->" + p.reviewee.SolverID()
		require.False(t, seen[key], "duplicate pair %s", key)
		seen[key] = true
	}
}
