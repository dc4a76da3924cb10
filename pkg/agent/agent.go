// Package agent defines the structured-call capability the debate core
// consumes. Concrete model clients live under agent/provider.
package agent

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout reports that a call exceeded its wall-clock timeout.
var ErrTimeout = errors.New("agent call timed out")

// SchemaError reports that a raw model response could not be parsed
// against the expected output schema.
type SchemaError struct {
	AgentID string
	Detail  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("agent %s returned a response that failed schema validation: %s", e.AgentID, e.Detail)
}

// Call describes one structured model invocation.
type Call struct {
	SystemPrompt string
	UserPrompt   string

	// Schema is the JSON schema the response must satisfy.
	Schema map[string]any

	// Timeout bounds the whole call in wall-clock time.
	Timeout time.Duration
}

// Agent runs structured calls against a single configured model.
//
// RunStructuredCall decodes the model response into out, which must be
// a pointer to a struct matching call.Schema. It returns ErrTimeout
// when the timeout elapses, a *SchemaError when the response does not
// match the schema, and transport errors otherwise. Implementations do
// not retry.
type Agent interface {
	ID() string
	RunStructuredCall(ctx context.Context, call Call, out any) error
}

// Config identifies one model instance taking part in a run. LLMID is
// the agent identity used across role assignment, solutions and
// reviews; several agents may share a model with different sampling
// parameters.
type Config struct {
	LLMID       string  `yaml:"llm_id" json:"llm_id"`
	Provider    string  `yaml:"provider" json:"provider"`
	Model       string  `yaml:"model" json:"model"`
	Temperature float64 `yaml:"temperature" json:"temperature"`
	TopP        float64 `yaml:"top_p" json:"top_p"`
}
