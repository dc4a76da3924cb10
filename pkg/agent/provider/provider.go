// Package provider builds concrete model clients for agent configs.
package provider

import (
	"context"
	"fmt"

	"github.com/parley-ai/parley/pkg/agent"
	"github.com/parley-ai/parley/pkg/agent/provider/anthropic"
	"github.com/parley-ai/parley/pkg/agent/provider/gemini"
	"github.com/parley-ai/parley/pkg/agent/provider/openai"
	"github.com/parley-ai/parley/pkg/environment"
)

// New creates the client for cfg.Provider. A missing credential is
// returned as-is so callers can treat it as fatal for the whole run.
func New(ctx context.Context, cfg agent.Config, env environment.Provider) (agent.Agent, error) {
	switch cfg.Provider {
	case "gemini":
		return gemini.NewClient(ctx, cfg, env)
	case "openai":
		return openai.NewClient(ctx, cfg, env)
	case "anthropic":
		return anthropic.NewClient(ctx, cfg, env)
	default:
		return nil, fmt.Errorf("unknown model provider %q for agent %s", cfg.Provider, cfg.LLMID)
	}
}

// NewAll builds one client per config, failing on the first error.
func NewAll(ctx context.Context, cfgs []agent.Config, env environment.Provider) ([]agent.Agent, error) {
	agents := make([]agent.Agent, 0, len(cfgs))
	for _, cfg := range cfgs {
		a, err := New(ctx, cfg, env)
		if err != nil {
			return nil, err
		}
		agents = append(agents, a)
	}
	return agents, nil
}
