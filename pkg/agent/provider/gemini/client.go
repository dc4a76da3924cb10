// Package gemini implements the agent capability on the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/parley-ai/parley/pkg/agent"
	"github.com/parley-ai/parley/pkg/agent/provider/internal/call"
	"github.com/parley-ai/parley/pkg/environment"
)

// Client wraps a genai client for one configured model.
type Client struct {
	cfg    agent.Config
	client *genai.Client
}

var _ agent.Agent = (*Client)(nil)

func NewClient(ctx context.Context, cfg agent.Config, env environment.Provider) (*Client, error) {
	if cfg.Model == "" {
		return nil, errors.New("gemini: model is required")
	}

	apiKey, err := environment.RequireCredential(ctx, env, "GEMINI_API_KEY")
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to create client: %w", err)
	}

	return &Client{cfg: cfg, client: client}, nil
}

func (c *Client) ID() string { return c.cfg.LLMID }

func (c *Client) RunStructuredCall(ctx context.Context, spec agent.Call, out any) error {
	return call.Run(ctx, c.cfg.LLMID, spec, out, func(ctx context.Context) (string, error) {
		config := &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(
				call.SystemPromptWithSchema(spec.SystemPrompt, spec.Schema),
				genai.RoleUser,
			),
			Temperature:      genai.Ptr(float32(c.cfg.Temperature)),
			TopP:             genai.Ptr(float32(c.cfg.TopP)),
			ResponseMIMEType: "application/json",
		}

		resp, err := c.client.Models.GenerateContent(ctx, c.cfg.Model, genai.Text(spec.UserPrompt), config)
		if err != nil {
			return "", fmt.Errorf("gemini: generate content: %w", err)
		}

		text := resp.Text()
		slog.Debug("Gemini response received", "agent", c.cfg.LLMID, "model", c.cfg.Model, "bytes", len(text))
		return text, nil
	})
}
