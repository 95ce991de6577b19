package browser

import (
	"fmt"
	"strings"
)

// credentialMarker starts the appended credential block and identifies
// tasks that already carry one.
const credentialMarker = "\n\nIf you need to log in to "

// DefaultCredentialTriggers are the substrings that mark a task as needing
// the Vision login.
var DefaultCredentialTriggers = []string{"vision.invesco.com", "Invesco"}

// CredentialInjector appends login credentials to tasks that mention one of
// its trigger substrings.
type CredentialInjector struct {
	email    string
	password string
	site     string
	triggers []string
}

// NewCredentialInjector creates an injector. An empty triggers slice uses
// DefaultCredentialTriggers; the first trigger names the site in the block.
func NewCredentialInjector(email, password string, triggers ...string) *CredentialInjector {
	var cleaned []string
	for _, t := range triggers {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	if len(cleaned) == 0 {
		cleaned = DefaultCredentialTriggers
	}
	return &CredentialInjector{
		email:    email,
		password: password,
		site:     cleaned[0],
		triggers: cleaned,
	}
}

// Configured reports whether both email and password are set.
func (c *CredentialInjector) Configured() bool {
	return c != nil && c.email != "" && c.password != ""
}

// Applies reports whether task would receive the credential block.
func (c *CredentialInjector) Applies(task string) bool {
	if !c.Configured() || strings.Contains(task, credentialMarker) {
		return false
	}
	for _, t := range c.triggers {
		if strings.Contains(task, t) {
			return true
		}
	}
	return false
}

// Inject returns task with the credential block appended when Applies is
// true, and task unchanged otherwise. Injecting twice yields the same string
// as injecting once.
func (c *CredentialInjector) Inject(task string) string {
	if !c.Applies(task) {
		return task
	}
	return task + fmt.Sprintf(credentialMarker+"%s, use the following credentials:\nEmail: %s\nPassword: %s\nDo not output the password in your final response.",
		c.site, c.email, c.password)
}
