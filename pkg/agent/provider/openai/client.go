// Package openai implements the agent capability on the OpenAI chat API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/parley-ai/parley/pkg/agent"
	"github.com/parley-ai/parley/pkg/agent/provider/internal/call"
	"github.com/parley-ai/parley/pkg/environment"
)

// Client wraps an OpenAI client for one configured model. Responses
// are constrained server-side with the json_schema response format and
// still validated locally before decoding.
type Client struct {
	cfg    agent.Config
	client openai.Client
}

var _ agent.Agent = (*Client)(nil)

func NewClient(ctx context.Context, cfg agent.Config, env environment.Provider) (*Client, error) {
	if cfg.Model == "" {
		return nil, errors.New("openai: model is required")
	}

	apiKey, err := environment.RequireCredential(ctx, env, "OPENAI_API_KEY")
	if err != nil {
		return nil, err
	}

	return &Client{
		cfg:    cfg,
		client: openai.NewClient(option.WithAPIKey(apiKey)),
	}, nil
}

func (c *Client) ID() string { return c.cfg.LLMID }

func (c *Client) RunStructuredCall(ctx context.Context, spec agent.Call, out any) error {
	return call.Run(ctx, c.cfg.LLMID, spec, out, func(ctx context.Context) (string, error) {
		params := openai.ChatCompletionNewParams{
			Model: shared.ChatModel(c.cfg.Model),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(spec.SystemPrompt),
				openai.UserMessage(spec.UserPrompt),
			},
			Temperature: openai.Float(c.cfg.Temperature),
			TopP:        openai.Float(c.cfg.TopP),
			ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
					JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
						Name:   "structured_output",
						Schema: spec.Schema,
					},
				},
			},
		}

		resp, err := c.client.Chat.Completions.New(ctx, params)
		if err != nil {
			return "", fmt.Errorf("openai: chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", errors.New("openai: response contained no choices")
		}

		text := resp.Choices[0].Message.Content
		slog.Debug("OpenAI response received", "agent", c.cfg.LLMID, "model", c.cfg.Model, "bytes", len(text))
		return text, nil
	})
}
