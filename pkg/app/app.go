// Package app runs debate sessions over a batch of problems with a
// bounded number of sessions in flight.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/parley-ai/parley/pkg/agent"
	"github.com/parley-ai/parley/pkg/debate"
	"github.com/parley-ai/parley/pkg/problem"
	"github.com/parley-ai/parley/pkg/store"
)

// ErrNoProblems means the configured problem window selected nothing.
var ErrNoProblems = errors.New("no problems to run")

// App owns the cross-problem loop: one Session per problem, each with
// its own RunContext, at most MaxSessions running at once. A fatal
// session error is logged and isolated; the remaining problems still
// run.
type App struct {
	agents    []agent.Agent
	store     store.Store
	outputDir string

	maxSessions int64
	opts        debate.Options
}

func New(agents []agent.Agent, st store.Store, outputDir string, maxSessions int64, opts debate.Options) *App {
	if maxSessions <= 0 {
		maxSessions = 1
	}
	return &App{
		agents:      agents,
		store:       st,
		outputDir:   outputDir,
		maxSessions: maxSessions,
		opts:        opts,
	}
}

// Run executes one debate session per problem and reports how many
// failed. It returns an error only when there was nothing to run or at
// least one session ended fatally.
func (a *App) Run(ctx context.Context, problems []problem.Problem) error {
	if len(problems) == 0 {
		return ErrNoProblems
	}

	slog.Info("Starting problem batch",
		"problems", len(problems),
		"agents", len(a.agents),
		"max_sessions", a.maxSessions)

	sem := semaphore.NewWeighted(a.maxSessions)
	failures := make([]error, len(problems))

	var wg sync.WaitGroup
	wg.Add(len(problems))
	for i := range problems {
		go func(i int) {
			defer wg.Done()

			if err := sem.Acquire(ctx, 1); err != nil {
				failures[i] = fmt.Errorf("problem %s never started: %w", problems[i].ID, err)
				return
			}
			defer sem.Release(1)

			session := debate.NewSession(problems[i], a.agents, a.store, a.outputDir, a.opts)
			if err := session.Run(ctx); err != nil {
				slog.Error("Session failed",
					"problem", problems[i].ID,
					"run_id", session.RunID(),
					"error", err)
				failures[i] = err
			}
		}(i)
	}
	wg.Wait()

	failed := 0
	for _, err := range failures {
		if err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d problems failed", failed, len(problems))
	}

	slog.Info("Problem batch complete", "problems", len(problems))
	return nil
}
