package main

import (
	"github.com/spf13/cobra"

	"github.com/mpulaparthi/web-agent/pkg/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "web-agent",
	Short: "Tool-using agent with a remote web browser",
	Long: `web-agent answers prompts with a language model. When a prompt needs the
web, the model calls the browse_web tool, which leases a remote browser
session, runs a browsing sub-agent in it, and releases the session.

Examples:
  # Serve the hosting runtime contract on :8080
  web-agent serve

  # Run one invocation and print {"response": ...} or {"error": ...}
  web-agent invoke "What is the title of example.com?"
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigFile, "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print agent events to stderr")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(invokeCmd)
	rootCmd.AddCommand(versionCmd)
}
