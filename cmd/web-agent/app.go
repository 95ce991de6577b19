package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mpulaparthi/web-agent/pkg/agent"
	"github.com/mpulaparthi/web-agent/pkg/config"
	"github.com/mpulaparthi/web-agent/pkg/invocation"
	"github.com/mpulaparthi/web-agent/pkg/logging"
	"github.com/mpulaparthi/web-agent/pkg/remote"
	"github.com/mpulaparthi/web-agent/pkg/security"
	"github.com/mpulaparthi/web-agent/pkg/tools/browser"
	"github.com/mpulaparthi/web-agent/pkg/types"
)

// errInvocationFailed makes invoke exit non-zero after printing an error
// response.
var errInvocationFailed = errors.New("invocation failed")

var appLog = logging.NewLogger("main")

// app holds the wired components for one process.
type app struct {
	handler  *invocation.Handler
	stoppers []stopper
}

// stopper is implemented by drivers that own a local process.
type stopper interface {
	Stop() error
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	if err := logging.Configure(logging.Options{
		Dir:     cfg.Logging.Dir,
		Level:   cfg.Logging.Level,
		Secrets: cfg.Secrets(),
	}); err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}
	return cfg, nil
}

// newApp wires the model provider, session client, driver, sub-agent,
// browse_web tool, and agent from cfg. events may be nil.
func newApp(ctx context.Context, cfg *config.Config, events types.EventHandler) (*app, error) {
	provider, err := config.BuildProvider(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}

	awsCfg, err := config.LoadAWS(ctx, cfg.Browser.Region, cfg.LLM.MaxRetries)
	if err != nil {
		return nil, err
	}
	sessions := remote.NewAgentCoreClient(awsCfg,
		remote.WithBrowserIdentifier(cfg.Browser.BrowserIdentifier),
		remote.WithSessionTimeout(cfg.Browser.SessionTimeout),
	)

	a := &app{}
	driver, err := newDriver(cfg.Browser.Driver, browser.DefaultActionTimeout)
	if err != nil {
		return nil, err
	}
	if s, ok := driver.(stopper); ok {
		a.stoppers = append(a.stoppers, s)
	}

	policy, err := browser.NewURLPolicy(cfg.Browser.AllowedURLs...)
	if err != nil {
		return nil, err
	}

	subAgent := browser.NewSubAgent(provider,
		browser.WithMaxSteps(cfg.Browser.MaxSteps),
		browser.WithMaxFailures(cfg.Browser.MaxFailures),
		browser.WithStepEventHandler(events),
	)
	executor := browser.NewExecutor(sessions, driver, subAgent,
		browser.WithSessionOptions(
			browser.WithURLPolicy(policy),
			browser.WithObservationTokens(cfg.Browser.ObservationTokens),
		),
		browser.WithExecutorReleaseTimeout(cfg.Browser.ReleaseTimeout),
	)
	browseWeb := browser.NewBrowseWebTool(executor,
		browser.WithRegion(cfg.Browser.Region),
		browser.WithCredentials(browser.NewCredentialInjector(
			cfg.Credentials.Email,
			cfg.Credentials.Password,
			cfg.Browser.CredentialTrigger...,
		)),
	)

	agentOpts := []agent.AgentOption{
		agent.WithTools(browseWeb),
		agent.WithMaxIterations(cfg.Agent.MaxIterations),
		agent.WithToolErrorPolicy(agent.ToolErrorPolicy(cfg.Agent.ToolErrorPolicy)),
		agent.WithEventHandler(events),
	}
	var handlerOpts []invocation.HandlerOption
	if cfg.Agent.RedactSecrets {
		redactor := security.NewRedactor(cfg.Credentials.Password)
		agentOpts = append(agentOpts, agent.WithRedactor(redactor))
		handlerOpts = append(handlerOpts, invocation.WithRedactor(redactor))
	}
	if cfg.Agent.SystemPrompt != "" {
		agentOpts = append(agentOpts, agent.WithSystemPrompt(cfg.Agent.SystemPrompt))
	}

	appLog.Infof("Using %s model %s, %s driver, browser region %s",
		cfg.LLM.Provider, provider.GetModel(), driver.Name(), cfg.Browser.Region)

	a.handler = invocation.NewHandler(agent.NewDefaultAgent(provider, agentOpts...), handlerOpts...)
	return a, nil
}

// Close stops the driver and flushes the logs.
func (a *app) Close() {
	for _, s := range a.stoppers {
		if err := s.Stop(); err != nil {
			appLog.Warnf("Shutdown: %v", err)
		}
	}
	if err := logging.Close(); err != nil {
		appLog.Warnf("Closing log file: %v", err)
	}
}

// newDriver returns the CDP driver named by the browser.driver setting.
func newDriver(name string, timeout time.Duration) (browser.Driver, error) {
	switch name {
	case "", config.DriverPlaywright:
		return browser.NewPlaywrightDriver(timeout), nil
	case config.DriverRod:
		return browser.NewRodDriver(timeout), nil
	default:
		return nil, fmt.Errorf("unknown browser driver %q", name)
	}
}

// withOptionalTimeout bounds ctx when d is positive.
func withOptionalTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
