package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mpulaparthi/web-agent/pkg/invocation"
)

var invokeCmd = &cobra.Command{
	Use:   "invoke <prompt>",
	Short: "Run one invocation and print the JSON response",
	Long: `Run one invocation and print {"response": ...} or {"error": ...} to stdout.

Pass - as the prompt to read a JSON event ({"prompt": ...} or
{"inputText": ...}) from stdin.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		event, err := readEvent(cmd, args)
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		a, err := newApp(ctx, cfg, eventPrinter(cmd.ErrOrStderr(), cfg.Secrets()))
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := withOptionalTimeout(ctx, cfg.Server.RequestTimeout)
		defer cancel()

		resp := a.handler.Invoke(ctx, event)
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
		if resp.Failed() {
			return errInvocationFailed
		}
		return nil
	},
}

// readEvent builds the event from the arguments, or from stdin for "-".
func readEvent(cmd *cobra.Command, args []string) (invocation.Event, error) {
	if len(args) == 1 && args[0] == "-" {
		var event invocation.Event
		if err := json.NewDecoder(cmd.InOrStdin()).Decode(&event); err != nil {
			return nil, fmt.Errorf("failed to read event from stdin: %w", err)
		}
		return event, nil
	}
	return invocation.Event{invocation.KeyPrompt: strings.Join(args, " ")}, nil
}
