package debate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"github.com/parley-ai/parley/pkg/agent"
	"github.com/parley-ai/parley/pkg/problem"
	"github.com/parley-ai/parley/pkg/store"
)

var tracer = otel.Tracer("github.com/parley-ai/parley/pkg/debate")

// Options tunes a session. Zero values get the defaults below.
type Options struct {
	// MaxConcurrency caps in-flight agent calls across all four
	// stages; the whole session shares one limiter.
	MaxConcurrency int64

	AssessmentTimeout time.Duration
	SolveTimeout      time.Duration
	ReviewTimeout     time.Duration
	RefineTimeout     time.Duration

	// LogInterval spaces the progress heartbeat for in-flight calls.
	// Zero disables the heartbeat.
	LogInterval time.Duration
}

const defaultMaxConcurrency = 4

func (o *Options) applyDefaults() {
	if o.MaxConcurrency <= 0 {
		o.MaxConcurrency = defaultMaxConcurrency
	}
	if o.AssessmentTimeout <= 0 {
		o.AssessmentTimeout = 300 * time.Second
	}
	if o.SolveTimeout <= 0 {
		o.SolveTimeout = 2000 * time.Second
	}
	if o.ReviewTimeout <= 0 {
		o.ReviewTimeout = 600 * time.Second
	}
	if o.RefineTimeout <= 0 {
		o.RefineTimeout = 900 * time.Second
	}
}

// Session executes a full debate over a single problem: role
// assignment, solving, peer review, refinement. Each stage is a
// barrier; the next starts only after every task of the current one
// has settled. Sessions are single-use.
type Session struct {
	runCtx   *RunContext
	problem  problem.Problem
	contexts []*SolverAgentContext

	writer *storeWriter
	sem    *semaphore.Weighted
	opts   Options

	roleStage   *RoleAssignmentStage
	solveStage  *SolveStage
	reviewStage *PeerReviewStage
	refineStage *RefineStage
}

// NewSession creates a session with its own fresh RunContext; sessions
// for different problems never share run state. outputDir, when
// non-empty, enables the run-keyed audit file mirror.
func NewSession(p problem.Problem, agents []agent.Agent, st store.Store, outputDir string, opts Options) *Session {
	opts.applyDefaults()

	runCtx := NewRunContext()
	contexts := make([]*SolverAgentContext, len(agents))
	for i, a := range agents {
		contexts[i] = NewSolverAgentContext(a, p, runCtx.RunID, opts.LogInterval)
	}

	var artifacts *store.ArtifactWriter
	if outputDir != "" {
		artifacts = store.NewArtifactWriter(outputDir, runCtx.RunID)
	}
	writer := &storeWriter{store: st, artifacts: artifacts}
	sem := semaphore.NewWeighted(opts.MaxConcurrency)

	return &Session{
		runCtx:      runCtx,
		problem:     p,
		contexts:    contexts,
		writer:      writer,
		sem:         sem,
		opts:        opts,
		roleStage:   &RoleAssignmentStage{store: writer, sem: sem, timeout: opts.AssessmentTimeout},
		solveStage:  &SolveStage{store: writer, sem: sem, timeout: opts.SolveTimeout},
		reviewStage: &PeerReviewStage{store: writer, sem: sem, timeout: opts.ReviewTimeout},
		refineStage: &RefineStage{store: writer, sem: sem, timeout: opts.RefineTimeout},
	}
}

// RunID returns this session's run identifier.
func (s *Session) RunID() string { return s.runCtx.RunID }

// RunContext returns the session's run state.
func (s *Session) RunContext() *RunContext { return s.runCtx }

// Run executes the four stages in order. Only fatal conditions are
// returned; per-task failures are logged and isolated inside the
// stages.
func (s *Session) Run(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "debate.session",
		trace.WithAttributes(
			attribute.String("run_id", s.runCtx.RunID),
			attribute.String("problem_id", s.problem.ID),
		))
	defer span.End()

	slog.Info("Session started", "run_id", s.runCtx.RunID, "problem", s.problem.ID)

	s.recordRunStart(ctx)

	solvers, judgeID, err := s.runRoleStage(ctx)
	if err != nil {
		return fmt.Errorf("session %s: %w", s.runCtx.RunID, err)
	}
	s.recordRoles(ctx, judgeID)

	active := s.runSolveStage(ctx, solvers)
	s.runReviewStage(ctx, active)
	s.runRefineStage(ctx, active)

	s.recordRunDone(ctx)
	slog.Info("Session complete", "run_id", s.runCtx.RunID, "problem", s.problem.ID)
	return nil
}

func (s *Session) runRoleStage(ctx context.Context) ([]*SolverAgentContext, string, error) {
	ctx, span := tracer.Start(ctx, "debate.role_assignment")
	defer span.End()
	return s.roleStage.Run(ctx, s.runCtx, s.contexts)
}

func (s *Session) runSolveStage(ctx context.Context, solvers []*SolverAgentContext) []*SolverAgentContext {
	ctx, span := tracer.Start(ctx, "debate.solve")
	defer span.End()
	return s.solveStage.Run(ctx, solvers)
}

func (s *Session) runReviewStage(ctx context.Context, solvers []*SolverAgentContext) {
	ctx, span := tracer.Start(ctx, "debate.peer_review")
	defer span.End()
	s.reviewStage.Run(ctx, solvers)
}

func (s *Session) runRefineStage(ctx context.Context, solvers []*SolverAgentContext) {
	ctx, span := tracer.Start(ctx, "debate.refine")
	defer span.End()
	s.refineStage.Run(ctx, solvers)
}

// Run bookkeeping in the Runs collection. Best effort: a failure here
// degrades the audit trail, not the debate.

func (s *Session) recordRunStart(ctx context.Context) {
	doc := RunDocument{
		RunID:     s.runCtx.RunID,
		ProblemID: s.problem.ID,
		StartedAt: time.Now().UTC().Format(time.RFC3339),
		Status:    "started",
	}
	if err := s.writer.Write(ctx, store.Runs, doc, s.runCtx.RunID); err != nil {
		slog.Error("Failed to record run start", "run_id", s.runCtx.RunID, "error", err)
	}
}

func (s *Session) recordRoles(ctx context.Context, judgeID string) {
	err := s.writer.Update(ctx, store.Runs, s.runCtx.RunID, map[string]any{
		"status":      "roles_assigned",
		"judge_id":    judgeID,
		"final_roles": s.runCtx.FinalRoles(),
	})
	if err != nil {
		slog.Error("Failed to record role assignment", "run_id", s.runCtx.RunID, "error", err)
	}
}

func (s *Session) recordRunDone(ctx context.Context) {
	err := s.writer.Update(ctx, store.Runs, s.runCtx.RunID, map[string]any{"status": "completed"})
	if err != nil {
		slog.Error("Failed to record run completion", "run_id", s.runCtx.RunID, "error", err)
	}
}
