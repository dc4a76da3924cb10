// Package anthropic implements the agent capability on the Anthropic API.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/parley-ai/parley/pkg/agent"
	"github.com/parley-ai/parley/pkg/agent/provider/internal/call"
	"github.com/parley-ai/parley/pkg/environment"
)

const defaultMaxTokens = 8192

// Client wraps an Anthropic client for one configured model. The API
// has no schema-constrained output mode, so the schema travels in the
// system prompt and the response is validated locally.
type Client struct {
	cfg    agent.Config
	client anthropic.Client
}

var _ agent.Agent = (*Client)(nil)

func NewClient(ctx context.Context, cfg agent.Config, env environment.Provider) (*Client, error) {
	if cfg.Model == "" {
		return nil, errors.New("anthropic: model is required")
	}

	apiKey, err := environment.RequireCredential(ctx, env, "ANTHROPIC_API_KEY")
	if err != nil {
		return nil, err
	}

	return &Client{
		cfg:    cfg,
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
	}, nil
}

func (c *Client) ID() string { return c.cfg.LLMID }

func (c *Client) RunStructuredCall(ctx context.Context, spec agent.Call, out any) error {
	return call.Run(ctx, c.cfg.LLMID, spec, out, func(ctx context.Context) (string, error) {
		msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     anthropic.Model(c.cfg.Model),
			MaxTokens: defaultMaxTokens,
			System: []anthropic.TextBlockParam{
				{Text: call.SystemPromptWithSchema(spec.SystemPrompt, spec.Schema)},
			},
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(spec.UserPrompt)),
			},
			Temperature: anthropic.Float(c.cfg.Temperature),
			TopP:        anthropic.Float(c.cfg.TopP),
		})
		if err != nil {
			return "", fmt.Errorf("anthropic: create message: %w", err)
		}

		var sb strings.Builder
		for _, block := range msg.Content {
			if block.Type == "text" {
				sb.WriteString(block.Text)
			}
		}

		text := sb.String()
		slog.Debug("Anthropic response received", "agent", c.cfg.LLMID, "model", c.cfg.Model, "bytes", len(text))
		return text, nil
	})
}
