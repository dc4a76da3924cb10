// Package call holds the request plumbing shared by every provider
// client: timeout handling and response schema enforcement.
package call

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/parley-ai/parley/pkg/agent"
)

// Run applies the call timeout around fn and maps a deadline hit to
// agent.ErrTimeout, then validates and decodes the raw response text
// fn returned. Shared by all clients so the timeout and schema
// semantics cannot drift between providers.
func Run(ctx context.Context, agentID string, spec agent.Call, out any, fn func(ctx context.Context) (string, error)) error {
	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	raw, err := fn(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return agent.ErrTimeout
		}
		return err
	}

	return agent.ValidateAndDecode(agentID, spec.Schema, []byte(raw), out)
}

// SystemPromptWithSchema appends the expected response schema to a
// system prompt, for providers without native schema-constrained
// output.
func SystemPromptWithSchema(systemPrompt string, schema map[string]any) string {
	buf, err := json.Marshal(schema)
	if err != nil {
		return systemPrompt
	}
	return systemPrompt +
		"\n\nRespond with a single JSON object matching this JSON schema, and nothing else:\n" +
		string(buf)
}
