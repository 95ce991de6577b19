// Package security holds secret-handling helpers shared by logging and the
// agent loop.
package security

import (
	"sort"
	"strings"
)

// Placeholder replaces every redacted secret.
const Placeholder = "[REDACTED]"

// MinSecretLength is the shortest value a Redactor masks. Shorter values
// would mask common substrings, so configuration rejects them.
const MinSecretLength = 4

// Redactor masks a fixed set of secrets in text. A nil Redactor is valid and
// leaves text unchanged.
type Redactor struct {
	secrets []string
}

// NewRedactor returns a Redactor for the given secrets. Empty or very short
// values are ignored.
func NewRedactor(secrets ...string) *Redactor {
	r := &Redactor{}
	for _, s := range secrets {
		if len(s) >= MinSecretLength {
			r.secrets = append(r.secrets, s)
		}
	}
	// Longest first so a secret that contains another is masked whole.
	sort.Slice(r.secrets, func(i, j int) bool {
		return len(r.secrets[i]) > len(r.secrets[j])
	})
	return r
}

// Redact returns text with every secret replaced by Placeholder.
func (r *Redactor) Redact(text string) string {
	if r == nil {
		return text
	}
	for _, s := range r.secrets {
		text = strings.ReplaceAll(text, s, Placeholder)
	}
	return text
}

// Contains reports whether text holds any secret verbatim.
func (r *Redactor) Contains(text string) bool {
	if r == nil {
		return false
	}
	for _, s := range r.secrets {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}

// Empty reports whether the redactor has nothing to mask.
func (r *Redactor) Empty() bool {
	return r == nil || len(r.secrets) == 0
}
