package debate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/parley-ai/parley/pkg/store"
)

// PeerReviewStage has every Solver review every other Solver's
// solution: the complete directed pair graph minus self-loops.
type PeerReviewStage struct {
	store   *storeWriter
	sem     *semaphore.Weighted
	timeout time.Duration
}

type reviewPair struct {
	reviewer *SolverAgentContext
	reviewee *SolverAgentContext
}

// buildPairs computes the ordered (reviewer, reviewee) edge list fresh
// for this stage; contexts never reference each other directly.
func buildPairs(solvers []*SolverAgentContext) []reviewPair {
	var pairs []reviewPair
	for _, reviewer := range solvers {
		for _, reviewee := range solvers {
			if reviewer.SolverID() == reviewee.SolverID() {
				continue
			}
			pairs = append(pairs, reviewPair{reviewer: reviewer, reviewee: reviewee})
		}
	}
	return pairs
}

// Run dispatches all S·(S−1) review tasks. Each success is persisted
// and delivered to the reviewee; each failure is isolated to its pair.
// Fewer than two solvers is a logged no-op, not an error.
func (s *PeerReviewStage) Run(ctx context.Context, solvers []*SolverAgentContext) {
	if len(solvers) < 2 {
		slog.Info("Peer review skipped, not enough solvers", "solvers", len(solvers))
		return
	}

	pairs := buildPairs(solvers)
	slog.Info("Peer review started", "solvers", len(solvers), "tasks", len(pairs))

	fanOut(ctx, s.sem, len(pairs), func(ctx context.Context, i int) {
		pair := pairs[i]
		reviewerID := pair.reviewer.SolverID()
		revieweeID := pair.reviewee.SolverID()

		review, err := pair.reviewer.GenerateReview(ctx, pair.reviewee.Solution(), s.timeout)
		if err != nil {
			slog.Error("Peer review failed",
				"reviewer", reviewerID, "reviewee", revieweeID,
				"problem", pair.reviewer.problem.ID, "error", err)
			return
		}

		doc := newSolutionReviewDocument(review)
		if err := s.store.Write(ctx, store.SolutionReviews, doc, review.ReviewID); err != nil {
			slog.Error("Failed to persist review, dropping it",
				"reviewer", reviewerID, "reviewee", revieweeID, "error", err)
			return
		}
		s.store.SaveArtifact("reviews",
			fmt.Sprintf("%s_%s_%s", reviewerID, revieweeID, review.ProblemID), doc)

		if err := pair.reviewee.ReceiveReview(review); err != nil {
			slog.Error("Review rejected by reviewee, discarding",
				"reviewer", reviewerID, "reviewee", revieweeID, "error", err)
		}
	})

	slog.Info("Peer review complete", "tasks", len(pairs))
}
