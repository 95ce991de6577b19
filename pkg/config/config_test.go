package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpulaparthi/web-agent/pkg/remote"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvRegion, EnvEmail, EnvPassword, EnvOpenAIKey, EnvOpenAIBaseURL, EnvModel, EnvProvider, EnvLogDir} {
		t.Setenv(key, "")
	}
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ProviderBedrock, cfg.LLM.Provider)
	assert.Equal(t, DefaultBedrockModel, cfg.LLM.ResolvedModel())
	assert.Equal(t, "us-west-2", cfg.LLM.Region)
	assert.Equal(t, "us-west-2", cfg.Browser.Region)
	assert.Zero(t, cfg.LLM.Temperature)
	assert.Equal(t, 10, cfg.Agent.MaxIterations)
	assert.Equal(t, ToolErrorPropagate, cfg.Agent.ToolErrorPolicy)
	assert.True(t, cfg.Agent.RedactSecrets)
	assert.Equal(t, 15*time.Minute, cfg.Browser.SessionTimeout)
	assert.Equal(t, remote.DefaultBrowserIdentifier, cfg.Browser.BrowserIdentifier)
	assert.Equal(t, 25, cfg.Browser.MaxSteps)
	assert.Equal(t, 3, cfg.Browser.MaxFailures)
	assert.Equal(t, []string{"vision.invesco.com", "Invesco"}, cfg.Browser.CredentialTrigger)
	assert.False(t, cfg.Credentials.Configured())
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		clearEnv(t)
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
llm:
  provider: bedrock
  region: eu-central-1
agent:
  max_iterations: 4
  tool_error_policy: report
browser:
  driver: rod
  session_timeout: 5m
  allowed_urls:
    - "https://*.example.com/*"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "eu-central-1", cfg.LLM.Region)
		assert.Equal(t, 4, cfg.Agent.MaxIterations)
		assert.Equal(t, ToolErrorReport, cfg.Agent.ToolErrorPolicy)
		assert.Equal(t, DriverRod, cfg.Browser.Driver)
		assert.Equal(t, 5*time.Minute, cfg.Browser.SessionTimeout)
		assert.Equal(t, 25, cfg.Browser.MaxSteps, "unset fields keep defaults")
	})

	t.Run("environment overrides file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvRegion, "us-east-1")
		t.Setenv(EnvEmail, "user@example.com")
		t.Setenv(EnvPassword, "hunter22")
		t.Setenv(EnvLogDir, "-")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "us-east-1", cfg.LLM.Region)
		assert.Equal(t, "us-east-1", cfg.Browser.Region)
		assert.True(t, cfg.Credentials.Configured())
		assert.Equal(t, "-", cfg.Logging.Dir)
		assert.Equal(t, []string{"hunter22"}, cfg.Secrets())
	})

	t.Run("invalid yaml", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("llm: [unclosed"), 0600))

		_, err := Load(path)
		require.Error(t, err)
	})

	t.Run("openai without key fails validation", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvProvider, ProviderOpenAI)

		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), EnvOpenAIKey)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.LLM.Provider = "vertex" }},
		{"temperature out of range", func(c *Config) { c.LLM.Temperature = 1.5 }},
		{"zero iterations", func(c *Config) { c.Agent.MaxIterations = 0 }},
		{"unknown policy", func(c *Config) { c.Agent.ToolErrorPolicy = "ignore" }},
		{"unknown driver", func(c *Config) { c.Browser.Driver = "selenium" }},
		{"short session", func(c *Config) { c.Browser.SessionTimeout = time.Second }},
		{"bad glob", func(c *Config) { c.Browser.AllowedURLs = []string{"[unterminated"} }},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"unredactable password", func(c *Config) { c.Credentials = Credentials{Email: "a@b.c", Password: "abc"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestCredentialsMasking(t *testing.T) {
	creds := Credentials{Email: "user@example.com", Password: "hunter22"}

	assert.NotContains(t, creds.String(), "hunter22")
	assert.NotContains(t, creds.GoString(), "hunter22")
	assert.Contains(t, creds.String(), "user@example.com")
	assert.True(t, creds.Configured())
	assert.False(t, Credentials{Email: "user@example.com"}.Configured())
}

func TestCredentialsValidate(t *testing.T) {
	assert.NoError(t, Credentials{}.Validate())
	assert.NoError(t, Credentials{Email: "a@b.c", Password: "abcd"}.Validate())
	assert.Error(t, Credentials{Email: "a@b.c", Password: "abc"}.Validate())
}
