package debate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/parley-ai/parley/pkg/store"
)

// SolveStage drives every Solver context to produce a solution.
type SolveStage struct {
	store   *storeWriter
	sem     *semaphore.Weighted
	timeout time.Duration
}

// Run dispatches Solve for all contexts with all-settled semantics and
// returns the contexts that reached Solved. A timed-out call yields a
// sentinel solution and keeps its context in the pipeline; every other
// failure excludes the context from the rest of the session.
func (s *SolveStage) Run(ctx context.Context, solvers []*SolverAgentContext) []*SolverAgentContext {
	slog.Info("Solve stage started", "solvers", len(solvers))

	solved := make([]*SolverAgentContext, len(solvers))
	fanOut(ctx, s.sem, len(solvers), func(ctx context.Context, i int) {
		c := solvers[i]

		solution, err := c.Solve(ctx, s.timeout)
		if err != nil {
			slog.Error("Solve failed, excluding solver from this problem",
				"agent", c.SolverID(), "problem", c.problem.ID, "error", err)
			return
		}

		doc := newSolutionDocument(solution)
		if err := s.store.Write(ctx, store.Solutions, doc, solution.SolutionID); err != nil {
			slog.Error("Failed to persist solution, excluding solver",
				"agent", c.SolverID(), "problem", c.problem.ID, "error", err)
			return
		}
		s.store.SaveArtifact("solutions", fmt.Sprintf("%s_%s", c.SolverID(), c.problem.ID), doc)

		solved[i] = c
	})

	var active []*SolverAgentContext
	for _, c := range solved {
		if c != nil {
			active = append(active, c)
		}
	}

	slog.Info("Solve stage complete", "solved", len(active), "excluded", len(solvers)-len(active))
	return active
}
