package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/veripay-dev/veripay/internal/rules"
)

// Config represents the top-level veripay.yaml configuration.
type Config struct {
	Sender     SenderConfig    `yaml:"sender"`
	Recipients []string        `yaml:"recipients"`
	References ReferenceConfig `yaml:"references"`
	Freshness  FreshnessConfig `yaml:"freshness"`
	Guard      GuardConfig     `yaml:"guard,omitempty"`
	Git        GitConfig       `yaml:"git"`
}

// SenderConfig identifies the account holder receipts must name.
type SenderConfig struct {
	ExpectedName string `yaml:"expected_name"`
}

// ReferenceConfig lists accepted payment-memo patterns (regular expressions,
// matched case-insensitively).
type ReferenceConfig struct {
	Patterns []string `yaml:"patterns"`
}

// FreshnessConfig bounds the age of a receipt's claimed timestamp.
type FreshnessConfig struct {
	MaxAgeHours int `yaml:"max_age_hours"`
}

// GuardConfig selects the duplicate-guard backend. With an empty DSN the
// verifier uses an in-process guard seeded from the local ledger; a DSN
// switches to the shared Postgres guard for multi-worker deployments.
type GuardConfig struct {
	PostgresDSN string `yaml:"postgres_dsn,omitempty"`
}

// GitConfig controls git versioning of the ledger and decision log.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a veripay.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(expectedSender string, recipients []string) *Config {
	return &Config{
		Sender: SenderConfig{
			ExpectedName: expectedSender,
		},
		Recipients: recipients,
		Freshness: FreshnessConfig{
			MaxAgeHours: 24,
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Veripay",
			AuthorEmail: "ledger@veripay.dev",
		},
	}
}

// Ruleset compiles the configured rules for validation at now. Pattern
// compile errors surface here rather than during validation.
func (c *Config) Ruleset(now time.Time) (rules.Ruleset, error) {
	patterns, err := rules.CompilePatterns(c.References.Patterns)
	if err != nil {
		return rules.Ruleset{}, err
	}
	return rules.Ruleset{
		ExpectedSender:    c.Sender.ExpectedName,
		Recipients:        c.Recipients,
		ReferencePatterns: patterns,
		MaxAge:            time.Duration(c.Freshness.MaxAgeHours) * time.Hour,
		Now:               now,
	}, nil
}
