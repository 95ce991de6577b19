package config

import (
	"fmt"
	"time"

	"github.com/gobwas/glob"

	"github.com/mpulaparthi/web-agent/pkg/remote"
)

// Browser drivers.
const (
	DriverPlaywright = "playwright"
	DriverRod        = "rod"
)

// BrowserConfig configures remote sessions and the browsing sub-agent.
type BrowserConfig struct {
	Region            string        `yaml:"region"`
	BrowserIdentifier string        `yaml:"browser_identifier"`
	Driver            string        `yaml:"driver"`
	SessionTimeout    time.Duration `yaml:"session_timeout"`
	ReleaseTimeout    time.Duration `yaml:"release_timeout"`
	MaxSteps          int           `yaml:"max_steps"`
	MaxFailures       int           `yaml:"max_failures"`
	ObservationTokens int           `yaml:"observation_tokens"`
	AllowedURLs       []string      `yaml:"allowed_urls"`
	CredentialTrigger []string      `yaml:"credential_triggers"`
}

func defaultBrowser() BrowserConfig {
	return BrowserConfig{
		Region:            DefaultRegion,
		BrowserIdentifier: remote.DefaultBrowserIdentifier,
		Driver:            DriverPlaywright,
		SessionTimeout:    15 * time.Minute,
		ReleaseTimeout:    30 * time.Second,
		MaxSteps:          25,
		MaxFailures:       3,
		ObservationTokens: 6000,
		CredentialTrigger: []string{"vision.invesco.com", "Invesco"},
	}
}

// Validate validates the browser section.
func (c BrowserConfig) Validate() error {
	if c.Region == "" {
		return fmt.Errorf("region is required")
	}
	switch c.Driver {
	case DriverPlaywright, DriverRod:
	default:
		return fmt.Errorf("unknown driver %q (want %q or %q)", c.Driver, DriverPlaywright, DriverRod)
	}
	if c.SessionTimeout < time.Minute {
		return fmt.Errorf("session_timeout must be at least 1m, got %s", c.SessionTimeout)
	}
	if c.ReleaseTimeout <= 0 {
		return fmt.Errorf("release_timeout must be positive")
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("max_steps must be positive")
	}
	if c.MaxFailures <= 0 {
		return fmt.Errorf("max_failures must be positive")
	}
	for _, pattern := range c.AllowedURLs {
		if _, err := glob.Compile(pattern, '.', '/'); err != nil {
			return fmt.Errorf("invalid allowed_urls pattern %q: %w", pattern, err)
		}
	}
	return nil
}
