package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/mpulaparthi/web-agent/pkg/remote"
)

// Executor runs one browsing task inside a leased remote browser session.
// It is safe for concurrent use; every Execute call gets its own session.
type Executor struct {
	sessions       remote.Client
	driver         Driver
	agent          *SubAgent
	sessionOpts    []SessionOption
	releaseTimeout time.Duration
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithSessionOptions applies opts to the Session built for every task.
func WithSessionOptions(opts ...SessionOption) ExecutorOption {
	return func(e *Executor) {
		e.sessionOpts = append(e.sessionOpts, opts...)
	}
}

// WithExecutorReleaseTimeout bounds how long releasing a session may take.
func WithExecutorReleaseTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.releaseTimeout = d
	}
}

// NewExecutor creates an executor.
func NewExecutor(sessions remote.Client, driver Driver, agent *SubAgent, opts ...ExecutorOption) *Executor {
	e := &Executor{
		sessions:       sessions,
		driver:         driver,
		agent:          agent,
		releaseTimeout: remote.DefaultReleaseTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute leases a session in region, connects the driver, and runs the
// sub-agent on task. It returns the done action's result, or "" when the
// sub-agent stopped without one. The driver is closed and the session
// released on every path.
func (e *Executor) Execute(ctx context.Context, region, task string) (string, error) {
	var result string

	err := remote.WithSession(ctx, e.sessions, region, func(ctx context.Context, handle *remote.SessionHandle) error {
		browserLog.Infof("Connecting to browser session at %s in region %s", handle.Endpoint, region)

		browser, err := e.driver.Connect(ctx, handle.Endpoint, handle.HeaderMap())
		if err != nil {
			return fmt.Errorf("%s connect failed: %w", e.driver.Name(), err)
		}
		defer func() {
			if closeErr := browser.Close(); closeErr != nil {
				browserLog.Warnf("Closing %s connection to session %s: %v", e.driver.Name(), handle.ID, closeErr)
			}
		}()

		page, err := browser.Page(ctx)
		if err != nil {
			return err
		}

		history, err := e.agent.Run(ctx, task, NewSession(page, e.sessionOpts...))
		if err != nil {
			return err
		}

		result = history.FinalResult()
		browserLog.Infof("Browsing finished in %d steps (done=%t, %d failed actions)", len(history.Steps), history.IsDone(), len(history.Errors()))
		return nil
	}, remote.WithReleaseTimeout(e.releaseTimeout))

	if err != nil {
		browserLog.Errorf("Browser task failed: %v", err)
		return "", err
	}
	return result, nil
}
