package environment

import (
	"context"
	"fmt"
	"os"
)

// Provider resolves environment values such as provider API keys.
type Provider interface {
	Get(ctx context.Context, name string) (string, bool)
}

// OSProvider reads values from the process environment.
type OSProvider struct{}

func NewOSProvider() *OSProvider {
	return &OSProvider{}
}

func (p *OSProvider) Get(_ context.Context, name string) (string, bool) {
	return os.LookupEnv(name)
}

// MapProvider provides values from an in-memory map. Used by tests and
// for injecting run-specific values that take precedence over the OS
// environment.
type MapProvider struct {
	values map[string]string
}

// NewMapProvider creates a new MapProvider with the given key-value pairs.
// The map should not be modified after creation to ensure thread-safety.
func NewMapProvider(values map[string]string) *MapProvider {
	return &MapProvider{
		values: values,
	}
}

func (p *MapProvider) Get(_ context.Context, name string) (string, bool) {
	val, found := p.values[name]
	return val, found
}

// RequireCredential returns the named credential or an error suitable to
// abort the run. A missing run-level credential is a configuration
// problem, not a per-task failure.
func RequireCredential(ctx context.Context, env Provider, name string) (string, error) {
	val, ok := env.Get(ctx, name)
	if !ok || val == "" {
		return "", fmt.Errorf("required credential %s is not set", name)
	}
	return val, nil
}
