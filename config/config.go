// Package config loads agent, session and logging settings from a YAML file
// or from AIAGENT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	ai "github.com/spetersoncode/aiagent"
	"github.com/spetersoncode/aiagent/agent"
	"github.com/spetersoncode/aiagent/internal/logger"
	"github.com/spetersoncode/aiagent/retry"
	"github.com/spetersoncode/aiagent/session"
	"gopkg.in/yaml.v3"
)

// Defaults applied to empty settings.
const (
	DefaultPlatform = "cli"
	DefaultBackend  = session.KindJSONFile
	DefaultLevel    = "info"
)

// Config is the complete application configuration.
type Config struct {
	Endpoint      string       `yaml:"endpoint"`
	APIKey        string       `yaml:"api_key"`
	Model         string       `yaml:"model"`
	FallbackModel string       `yaml:"fallback_model"`
	SystemPrompt  SystemPrompt `yaml:"system_prompt"`
	StreamMethod  string       `yaml:"stream_method"`
	MaxSteps      int          `yaml:"max_steps"`
	Retry         Retry        `yaml:"retry"`
	Session       Session      `yaml:"session"`
	Log           Log          `yaml:"log"`
}

// SystemPrompt holds either inline text or a file path.
type SystemPrompt struct {
	Text string `yaml:"text"`
	File string `yaml:"file"`
}

// Retry configures the fallback retry loop.
type Retry struct {
	// MaxRetries is the retry ceiling. Nil keeps the default of one retry.
	MaxRetries *int          `yaml:"max_retries"`
	Delay      time.Duration `yaml:"delay"`
}

// Session selects where conversations are kept.
type Session struct {
	Backend  session.Kind `yaml:"backend"`
	Dir      string       `yaml:"dir"`
	Platform string       `yaml:"platform"`
}

// Log configures the logger.
type Log struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
	File   string `yaml:"file"`
}

// Load reads a YAML file and returns a Config.
// Environment variables referenced as ${VAR} or $VAR are expanded before
// parsing, so credentials can stay out of the file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: load: %w", &ai.ResourceError{Op: "read", Path: path, Err: err})
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// FromEnv builds a Config from AIAGENT_* variables. The given .env files
// (or ./.env when none are given) are loaded first; missing files are
// ignored and variables already set in the environment win.
func FromEnv(envFiles ...string) (Config, error) {
	if err := loadDotEnv(envFiles...); err != nil {
		return Config{}, fmt.Errorf("config: load env file: %w", err)
	}

	cfg := Config{
		Endpoint:      os.Getenv("AIAGENT_URL"),
		APIKey:        os.Getenv("AIAGENT_API_KEY"),
		Model:         os.Getenv("AIAGENT_MODEL"),
		FallbackModel: os.Getenv("AIAGENT_FALLBACK_MODEL"),
		SystemPrompt: SystemPrompt{
			Text: os.Getenv("AIAGENT_SYSTEM_PROMPT"),
			File: os.Getenv("AIAGENT_SYSTEM_PROMPT_FILE"),
		},
		StreamMethod: os.Getenv("AIAGENT_STREAM_METHOD"),
		Session: Session{
			Backend:  session.Kind(os.Getenv("AIAGENT_SESSION_BACKEND")),
			Dir:      os.Getenv("AIAGENT_SESSION_DIR"),
			Platform: os.Getenv("AIAGENT_PLATFORM"),
		},
		Log: Log{
			Level:  os.Getenv("AIAGENT_LOG_LEVEL"),
			Pretty: getEnvBoolOrDefault("AIAGENT_LOG_PRETTY", true),
			File:   os.Getenv("AIAGENT_LOG_FILE"),
		},
	}

	var err error
	if cfg.MaxSteps, err = getEnvInt("AIAGENT_MAX_STEPS", 0); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("AIAGENT_MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: %w", &ai.ConfigError{Fields: []string{"AIAGENT_MAX_RETRIES"}, Reason: "must be an integer"})
		}
		cfg.Retry.MaxRetries = &n
	}
	if v := os.Getenv("AIAGENT_RETRY_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: %w", &ai.ConfigError{Fields: []string{"AIAGENT_RETRY_DELAY"}, Reason: "must be a duration"})
		}
		cfg.Retry.Delay = d
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Session.Backend == "" {
		c.Session.Backend = DefaultBackend
	}
	if c.Session.Dir == "" {
		c.Session.Dir = session.DefaultFolder
	}
	if c.Session.Platform == "" {
		c.Session.Platform = DefaultPlatform
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLevel
	}
}

// Validate checks the settings that can be judged without building anything.
// agent.Config.Validate remains authoritative for the agent itself.
func (c Config) Validate() error {
	var missing []string
	if c.Endpoint == "" {
		missing = append(missing, "endpoint")
	}
	if c.APIKey == "" {
		missing = append(missing, "api_key")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: %w", &ai.ConfigError{Fields: missing, Reason: "must not be empty"})
	}
	if !agent.StreamMethod(c.StreamMethod).Valid() {
		return fmt.Errorf("config: %w", &ai.ConfigError{Fields: []string{"stream_method"}, Reason: fmt.Sprintf("unknown value %q", c.StreamMethod)})
	}
	if !c.Session.Backend.Valid() {
		return fmt.Errorf("config: %w", &ai.ConfigError{Fields: []string{"session.backend"}, Reason: fmt.Sprintf("unknown value %q", c.Session.Backend)})
	}
	if c.Retry.MaxRetries != nil && *c.Retry.MaxRetries < 0 {
		return fmt.Errorf("config: %w", &ai.ConfigError{Fields: []string{"retry.max_retries"}, Reason: "must not be negative"})
	}
	return nil
}

// AgentConfig maps the settings onto an agent configuration.
func (c Config) AgentConfig() agent.Config {
	return agent.Config{
		Endpoint:      c.Endpoint,
		APIKey:        c.APIKey,
		Model:         c.Model,
		FallbackModel: c.FallbackModel,
		SystemPrompt:  agent.SystemPrompt{Text: c.SystemPrompt.Text, File: c.SystemPrompt.File},
		StreamMethod:  agent.StreamMethod(c.StreamMethod),
		MaxSteps:      c.MaxSteps,
	}
}

// RetryConfig returns the retry policy for the agent.
func (c Config) RetryConfig() retry.Config {
	rc := retry.DefaultConfig()
	if c.Retry.MaxRetries != nil {
		rc.MaxRetries = *c.Retry.MaxRetries
	}
	rc.InitialDelay = c.Retry.Delay
	return rc
}

// SessionConfig returns the session manager settings.
func (c Config) SessionConfig() session.Config {
	return session.Config{Platform: c.Session.Platform, Folder: c.Session.Dir}
}

// LoggerConfig returns the logger settings.
func (c Config) LoggerConfig() logger.Config {
	return logger.Config{Level: c.Log.Level, Pretty: c.Log.Pretty, File: c.Log.File}
}

// loadDotEnv loads environment variables from files. Missing files are ignored.
func loadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %w", &ai.ConfigError{Fields: []string{key}, Reason: "must be an integer"})
	}
	return n, nil
}

func getEnvBoolOrDefault(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
