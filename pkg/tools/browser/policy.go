package browser

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gobwas/glob"
)

// ErrURLNotAllowed is returned when navigation targets a URL outside the
// configured allowlist.
var ErrURLNotAllowed = errors.New("url not allowed")

// URLPolicy decides which URLs the browsing sub-agent may navigate to. A
// nil or empty policy allows everything.
type URLPolicy struct {
	patterns []string
	globs    []glob.Glob
}

// NewURLPolicy compiles patterns. Patterns match the full URL with '.' and
// '/' as separators, so "https://*.example.com/**" matches any page on any
// subdomain.
func NewURLPolicy(patterns ...string) (*URLPolicy, error) {
	p := &URLPolicy{}
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		g, err := glob.Compile(pattern, '.', '/')
		if err != nil {
			return nil, fmt.Errorf("invalid url pattern %q: %w", pattern, err)
		}
		p.patterns = append(p.patterns, pattern)
		p.globs = append(p.globs, g)
	}
	return p, nil
}

// Restricted reports whether the policy has any patterns.
func (p *URLPolicy) Restricted() bool {
	return p != nil && len(p.globs) > 0
}

// Check returns nil when rawURL may be visited.
func (p *URLPolicy) Check(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %q must use http or https", ErrURLNotAllowed, rawURL)
	}
	if !p.Restricted() {
		return nil
	}

	for _, g := range p.globs {
		if g.Match(rawURL) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s does not match any of %s", ErrURLNotAllowed, rawURL, strings.Join(p.patterns, ", "))
}
