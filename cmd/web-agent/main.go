// Package main provides the web-agent command: a tool-using agent that
// answers prompts and delegates web tasks to a browsing sub-agent running
// in remote AgentCore browser sessions.
//
// Usage:
//
//	web-agent serve                   serve POST /invocations on :8080
//	web-agent invoke "<prompt>"       run one invocation, print JSON
//	web-agent version                 print the version
//
// Configuration is read from config.yaml (see --config) and the
// environment; see package config.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
