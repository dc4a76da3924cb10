package debate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/parley-ai/parley/pkg/store"
)

// RefineStage drives every reviewed Solver context to rework its
// solution. Contexts that received no reviews are skipped, never
// called.
type RefineStage struct {
	store   *storeWriter
	sem     *semaphore.Weighted
	timeout time.Duration
}

func (s *RefineStage) Run(ctx context.Context, solvers []*SolverAgentContext) {
	slog.Info("Refinement started", "solvers", len(solvers))

	fanOut(ctx, s.sem, len(solvers), func(ctx context.Context, i int) {
		c := solvers[i]

		if len(c.PeerReviews()) == 0 {
			slog.Info("Refinement skipped, no peer reviews received",
				"agent", c.SolverID(), "problem", c.problem.ID)
			return
		}

		refined, err := c.Refine(ctx, s.timeout)
		if err != nil {
			slog.Error("Refinement failed",
				"agent", c.SolverID(), "problem", c.problem.ID, "error", err)
			return
		}

		doc := newRefinedSolutionDocument(refined)
		if err := s.store.Write(ctx, store.RefinedSolutions, doc, refined.RefinedSolutionID); err != nil {
			slog.Error("Failed to persist refined solution",
				"agent", c.SolverID(), "problem", c.problem.ID, "error", err)
			return
		}
		s.store.SaveArtifact("refined_solutions",
			fmt.Sprintf("%s_%s", c.SolverID(), c.problem.ID), doc)
	})

	slog.Info("Refinement complete")
}
