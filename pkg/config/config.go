// Package config loads and validates the run configuration.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/parley-ai/parley/pkg/agent"
)

// Defaults mirror the tuning the system was originally run with.
const (
	DefaultSolveTimeoutSec      = 2000
	DefaultAssessmentTimeoutSec = 300
	DefaultReviewTimeoutSec     = 600
	DefaultRefineTimeoutSec     = 900
	DefaultLogIntervalSec       = 10
	DefaultMaxConcurrency       = 5
	DefaultMaxSessions          = 2
)

// MinAgents is the smallest debate that can elect one Judge and still
// have a reviewable pair of Solvers.
const MinAgents = 3

// Timeouts bounds each stage's individual model calls, in seconds.
type Timeouts struct {
	SolveSec      int `yaml:"solve_sec"`
	AssessmentSec int `yaml:"assessment_sec"`
	ReviewSec     int `yaml:"review_sec"`
	RefineSec     int `yaml:"refine_sec"`
}

// Problems selects the dataset window to run over.
type Problems struct {
	Path string `yaml:"path"`
	Skip int    `yaml:"skip"`
	Take int    `yaml:"take"`
}

// Config is the full run configuration.
type Config struct {
	Agents   []agent.Config `yaml:"agents"`
	Problems Problems       `yaml:"problems"`

	OutputDir string `yaml:"output_dir"`
	StorePath string `yaml:"store_path"`

	// MaxConcurrency caps in-flight model calls per session, shared
	// across all stages. MaxSessions caps concurrently running
	// sessions (one per problem).
	MaxConcurrency int `yaml:"max_concurrency"`
	MaxSessions    int `yaml:"max_sessions"`

	Timeouts       Timeouts `yaml:"timeouts"`
	LogIntervalSec int      `yaml:"log_interval_sec"`
}

// Load reads, defaults and validates a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = "data/output"
	}
	if c.StorePath == "" {
		c.StorePath = "data/parley.db"
	}
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = DefaultMaxConcurrency
	}
	if c.MaxSessions <= 0 {
		c.MaxSessions = DefaultMaxSessions
	}
	if c.Timeouts.SolveSec <= 0 {
		c.Timeouts.SolveSec = DefaultSolveTimeoutSec
	}
	if c.Timeouts.AssessmentSec <= 0 {
		c.Timeouts.AssessmentSec = DefaultAssessmentTimeoutSec
	}
	if c.Timeouts.ReviewSec <= 0 {
		c.Timeouts.ReviewSec = DefaultReviewTimeoutSec
	}
	if c.Timeouts.RefineSec <= 0 {
		c.Timeouts.RefineSec = DefaultRefineTimeoutSec
	}
	if c.LogIntervalSec <= 0 {
		c.LogIntervalSec = DefaultLogIntervalSec
	}
}

// Validate rejects configurations that cannot produce a valid debate.
func (c *Config) Validate() error {
	if len(c.Agents) < MinAgents {
		return fmt.Errorf("at least %d agents are required, got %d", MinAgents, len(c.Agents))
	}

	seen := make(map[string]bool, len(c.Agents))
	for i, a := range c.Agents {
		if a.LLMID == "" {
			return fmt.Errorf("agent %d: llm_id is required", i)
		}
		if a.Provider == "" {
			return fmt.Errorf("agent %s: provider is required", a.LLMID)
		}
		if a.Model == "" {
			return fmt.Errorf("agent %s: model is required", a.LLMID)
		}
		if seen[a.LLMID] {
			return fmt.Errorf("duplicate llm_id %q", a.LLMID)
		}
		seen[a.LLMID] = true
	}

	if c.Problems.Path == "" {
		return fmt.Errorf("problems.path is required")
	}
	return nil
}
