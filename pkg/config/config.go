// Package config loads the web-agent configuration from a YAML file and
// environment overrides.
//
// Precedence: environment variables > config file > defaults. The returned
// Config is treated as immutable once Load returns.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables recognized by Load.
const (
	EnvRegion         = "AWS_REGION"
	EnvEmail          = "VISION_EMAIL"
	EnvPassword       = "VISION_PASSWORD"
	EnvOpenAIKey      = "OPENAI_API_KEY"
	EnvOpenAIBaseURL  = "OPENAI_BASE_URL"
	EnvModel          = "WEB_AGENT_MODEL"
	EnvProvider       = "WEB_AGENT_PROVIDER"
	EnvLogDir         = "WEB_AGENT_LOG_DIR"
	DefaultConfigFile = "config.yaml"
)

// Config is the complete runtime configuration.
type Config struct {
	LLM         LLMConfig     `yaml:"llm"`
	Agent       AgentConfig   `yaml:"agent"`
	Browser     BrowserConfig `yaml:"browser"`
	Credentials Credentials   `yaml:"credentials"`
	Server      ServerConfig  `yaml:"server"`
	Logging     LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the HTTP invocation surface.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LoggingConfig configures the component loggers.
type LoggingConfig struct {
	// Dir is the log directory; "-" logs to stderr.
	Dir   string `yaml:"dir"`
	Level string `yaml:"level"`
}

// Default returns a Config populated with defaults.
func Default() *Config {
	return &Config{
		LLM:         defaultLLM(),
		Agent:       defaultAgent(),
		Browser:     defaultBrowser(),
		Credentials: defaultCredentials(),
		Server: ServerConfig{
			Addr:            ":8080",
			RequestTimeout:  15 * time.Minute,
			ShutdownTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides, and validates the result. An empty path or a missing file
// yields defaults plus environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			// File doesn't exist yet, use defaults
		default:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg.applyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays environment values. Empty values are ignored.
func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return "", false
		}
		return v, true
	}

	if v, ok := get(EnvRegion); ok {
		c.LLM.Region = v
		c.Browser.Region = v
	}
	if v, ok := get(EnvEmail); ok {
		c.Credentials.Email = v
	}
	if v, ok := get(EnvPassword); ok {
		c.Credentials.Password = v
	}
	if v, ok := get(EnvOpenAIKey); ok {
		c.LLM.APIKey = v
	}
	if v, ok := get(EnvOpenAIBaseURL); ok {
		c.LLM.BaseURL = v
	}
	if v, ok := get(EnvModel); ok {
		c.LLM.Model = v
	}
	if v, ok := get(EnvProvider); ok {
		c.LLM.Provider = v
	}
	if v, ok := get(EnvLogDir); ok {
		c.Logging.Dir = v
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if err := c.Agent.Validate(); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	if err := c.Browser.Validate(); err != nil {
		return fmt.Errorf("browser: %w", err)
	}
	if err := c.Credentials.Validate(); err != nil {
		return fmt.Errorf("credentials: %w", err)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server: addr is required")
	}
	return nil
}

// Secrets returns the values that must never appear in logs or answers.
func (c *Config) Secrets() []string {
	var secrets []string
	if c.Credentials.Password != "" {
		secrets = append(secrets, c.Credentials.Password)
	}
	if c.LLM.APIKey != "" {
		secrets = append(secrets, c.LLM.APIKey)
	}
	return secrets
}
