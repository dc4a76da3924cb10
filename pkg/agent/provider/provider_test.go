package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parley-ai/parley/pkg/agent"
	"github.com/parley-ai/parley/pkg/environment"
)

func fullEnv() environment.Provider {
	return environment.NewMapProvider(map[string]string{
		"GEMINI_API_KEY":    "k1",
		"OPENAI_API_KEY":    "k2",
		"ANTHROPIC_API_KEY": "k3",
	})
}

func TestNew(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"gemini", "openai", "anthropic"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			a, err := New(t.Context(), agent.Config{
				LLMID:    name + "-1",
				Provider: name,
				Model:    "some-model",
			}, fullEnv())
			require.NoError(t, err)
			assert.Equal(t, name+"-1", a.ID())
		})
	}
}

func TestNewUnknownProvider(t *testing.T) {
	t.Parallel()

	_, err := New(t.Context(), agent.Config{LLMID: "x", Provider: "cohere", Model: "m"}, fullEnv())
	require.ErrorContains(t, err, "unknown model provider")
}

func TestNewMissingCredential(t *testing.T) {
	t.Parallel()

	env := environment.NewMapProvider(nil)
	_, err := New(t.Context(), agent.Config{LLMID: "g", Provider: "gemini", Model: "m"}, env)
	require.ErrorContains(t, err, "GEMINI_API_KEY")
}

func TestNewAllStopsOnFirstError(t *testing.T) {
	t.Parallel()

	cfgs := []agent.Config{
		{LLMID: "a", Provider: "openai", Model: "m"},
		{LLMID: "b", Provider: "nope", Model: "m"},
	}
	_, err := NewAll(t.Context(), cfgs, fullEnv())
	require.Error(t, err)
}
