// Package config loads application configuration through viper: defaults,
// then ~/.claude-skills/config.yaml or ./config.yaml, then CLAUDE_SKILLS_*
// environment variables and CLI flags. Named profiles can override base
// settings for alternate workflows (e.g. stricter matching).
package config

import (
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/Drcollinjc/claude-skills/pkg/selector"
	"github.com/Drcollinjc/claude-skills/pkg/skills"
)

// Matching modes for the keyword-rule pass.
const (
	MatchSubstring = "substring"
	MatchWord      = "word"
)

// HistoryConfig controls selection history recording.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// ServeConfig holds HTTP API server settings.
type ServeConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	SamplerType  string  `mapstructure:"sampler_type"`
	SamplerRatio float64 `mapstructure:"sampler_ratio"`
}

// Config is the full application configuration.
type Config struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// RulesFile points at a versioned selection ruleset; empty uses the
	// built-in table.
	RulesFile string `mapstructure:"rules_file"`
	// Matching is "substring" (source-compatible) or "word".
	Matching string `mapstructure:"matching"`

	// SkillRoots overrides the default skill search roots.
	SkillRoots []string `mapstructure:"skill_roots"`
	// AllowedSkills restricts discovery to matching glob patterns.
	AllowedSkills []string `mapstructure:"allowed_skills"`

	// MaxActiveSkills caps the composed context size.
	MaxActiveSkills int `mapstructure:"max_active_skills"`
	// Constitution is the project constraints file merged into compositions.
	Constitution string `mapstructure:"constitution"`

	History HistoryConfig `mapstructure:"history"`
	Serve   ServeConfig   `mapstructure:"serve"`
	Tracing TracingConfig `mapstructure:"tracing"`

	// Profiles contains named setting overrides, activated via "profile".
	Profile  string                            `mapstructure:"profile"`
	Profiles map[string]map[string]interface{} `mapstructure:"profiles"`
}

// SetDefaults registers configuration defaults on the global viper instance.
func SetDefaults() {
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "text")
	viper.SetDefault("matching", MatchSubstring)
	viper.SetDefault("max_active_skills", 5)
	viper.SetDefault("constitution", "CONSTITUTION.md")
	viper.SetDefault("history.enabled", true)
	viper.SetDefault("serve.host", "localhost")
	viper.SetDefault("serve.port", 8080)
	viper.SetDefault("tracing.sampler_type", "always")
	viper.SetDefault("tracing.sampler_ratio", 1.0)
}

// Load unmarshals the viper configuration and applies the active profile.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal configuration")
	}

	if cfg.Profile != "" && cfg.Profile != "default" {
		profile, exists := cfg.Profiles[cfg.Profile]
		if !exists {
			return nil, errors.Errorf("profile %q not found", cfg.Profile)
		}
		if err := applyProfile(&cfg, profile); err != nil {
			return nil, err
		}
	}

	if cfg.Matching != MatchSubstring && cfg.Matching != MatchWord {
		return nil, errors.Errorf("invalid matching mode %q, expected %q or %q",
			cfg.Matching, MatchSubstring, MatchWord)
	}

	return &cfg, nil
}

// applyProfile decodes profile settings on top of the base configuration,
// leaving unset fields untouched.
func applyProfile(cfg *Config, profile map[string]interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ZeroFields:       false,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create profile decoder")
	}

	if err := decoder.Decode(profile); err != nil {
		return errors.Wrap(err, "failed to apply profile configuration")
	}

	return nil
}

// Ruleset builds the selection ruleset from the configuration: the rules
// file when set, the built-in table otherwise.
func (c *Config) Ruleset() (*selector.Ruleset, error) {
	var opts []selector.Option
	if c.Matching == MatchWord {
		opts = append(opts, selector.WithWordMatching())
	}

	if c.RulesFile == "" {
		return selector.Builtin(opts...), nil
	}
	return selector.Load(c.RulesFile, opts...)
}

// Discovery builds the skill discovery from the configuration.
func (c *Config) Discovery() (*skills.Discovery, error) {
	if len(c.SkillRoots) == 0 {
		return skills.NewDiscovery()
	}
	return skills.NewDiscovery(skills.WithRoots(c.SkillRoots...))
}
