package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/mpulaparthi/web-agent/pkg/llm/tokenizer"
)

// Session is one browsing task's view of a remote page: the driver page
// plus the URL policy and token budgets that apply to it.
type Session struct {
	page              Page
	policy            *URLPolicy
	tok               *tokenizer.Tokenizer
	observationTokens int
	extractTokens     int
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithURLPolicy restricts navigation to the policy's allowlist.
func WithURLPolicy(policy *URLPolicy) SessionOption {
	return func(s *Session) {
		s.policy = policy
	}
}

// WithObservationTokens sets the token budget for the page content in each
// observation.
func WithObservationTokens(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.observationTokens = n
		}
	}
}

// WithTokenizer overrides the tokenizer used for budgets.
func WithTokenizer(tok *tokenizer.Tokenizer) SessionOption {
	return func(s *Session) {
		s.tok = tok
	}
}

// NewSession wraps page.
func NewSession(page Page, opts ...SessionOption) *Session {
	s := &Session{
		page:              page,
		observationTokens: DefaultObservationTokens,
		extractTokens:     DefaultExtractTokens,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tok == nil {
		s.tok = tokenizer.New()
	}
	return s
}

// URL returns the page's current URL.
func (s *Session) URL() string {
	return s.page.URL()
}

// Navigate loads rawURL, adding https:// when no scheme is given.
func (s *Session) Navigate(ctx context.Context, rawURL string) error {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return fmt.Errorf("url is required")
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	if err := s.policy.Check(rawURL); err != nil {
		return err
	}

	if err := s.page.Navigate(ctx, rawURL); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

// Click clicks the first element matching selector. A click that lands on a
// page outside the URL policy is undone.
func (s *Session) Click(ctx context.Context, selector string) error {
	if selector == "" {
		return fmt.Errorf("selector is required")
	}
	if err := s.page.Click(ctx, selector); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}

	if !s.policy.Restricted() {
		return nil
	}
	if err := s.policy.Check(s.page.URL()); err != nil {
		if backErr := s.page.GoBack(ctx); backErr != nil {
			return fmt.Errorf("%w (going back also failed: %v)", err, backErr)
		}
		return err
	}
	return nil
}

// Fill replaces the value of the input matching selector.
func (s *Session) Fill(ctx context.Context, selector, value string) error {
	if selector == "" {
		return fmt.Errorf("selector is required")
	}
	if err := s.page.Fill(ctx, selector, value); err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	return nil
}

// Wait blocks until the element matching selector reaches state.
func (s *Session) Wait(ctx context.Context, selector string, state WaitState) error {
	if selector == "" {
		return fmt.Errorf("selector is required for wait")
	}
	if state == "" {
		state = StateVisible
	}
	if !state.Valid() {
		return fmt.Errorf("invalid state: %s (must be 'attached', 'detached', 'visible', or 'hidden')", state)
	}
	if err := s.page.WaitFor(ctx, selector, state); err != nil {
		return fmt.Errorf("wait failed: %w", err)
	}
	return nil
}

// GoBack navigates to the previous page in history.
func (s *Session) GoBack(ctx context.Context) error {
	if err := s.page.GoBack(ctx); err != nil {
		return fmt.Errorf("go back failed: %w", err)
	}
	return nil
}

// ExtractContent returns the page or element content in the requested
// format, truncated to the extraction budget. The bool reports truncation.
func (s *Session) ExtractContent(ctx context.Context, opts ExtractOptions) (string, bool, error) {
	if opts.Format == "" {
		opts.Format = FormatText
	}

	switch opts.Format {
	case FormatText:
		text, err := s.page.Text(ctx, opts.Selector)
		if err != nil {
			return "", false, fmt.Errorf("text extraction failed: %w", err)
		}
		out, truncated := s.tok.Truncate(strings.TrimSpace(text), s.extractTokens)
		return out, truncated, nil
	case FormatHTML:
		if opts.Selector != "" {
			return "", false, fmt.Errorf("selector is not supported with the html format")
		}
		raw, err := s.page.HTML(ctx)
		if err != nil {
			return "", false, fmt.Errorf("html extraction failed: %w", err)
		}
		cleaned, err := cleanHTML(raw, s.extractTokens, s.tok)
		if err != nil {
			return "", false, err
		}
		return cleaned.HTML, cleaned.Truncated, nil
	default:
		return "", false, fmt.Errorf("unsupported format: %s", opts.Format)
	}
}

// Search finds occurrences of opts.Pattern in the page text, each with
// surrounding context.
func (s *Session) Search(ctx context.Context, opts SearchOptions) ([]SearchResult, error) {
	if opts.Pattern == "" {
		return nil, fmt.Errorf("pattern is required")
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxSearchResults
	}

	bodyText, err := s.page.Text(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to get page text: %w", err)
	}

	text := []rune(bodyText)
	haystack, needle := text, []rune(opts.Pattern)
	if !opts.CaseSensitive {
		haystack = []rune(strings.ToLower(bodyText))
		needle = []rune(strings.ToLower(opts.Pattern))
	}
	// Lowercasing can change rune counts; fall back to the original text.
	if len(haystack) != len(text) {
		haystack, needle = text, []rune(opts.Pattern)
	}

	var results []SearchResult
	for i := 0; i+len(needle) <= len(haystack); {
		if !runesEqual(haystack[i:i+len(needle)], needle) {
			i++
			continue
		}

		start := max(0, i-searchContextChars)
		end := min(len(text), i+len(needle)+searchContextChars)
		results = append(results, SearchResult{
			Text:    string(text[i : i+len(needle)]),
			Context: strings.Join(strings.Fields(string(text[start:end])), " "),
		})
		if len(results) >= opts.MaxResults {
			break
		}
		i += len(needle)
	}
	return results, nil
}

// Observe captures the current URL, title, and cleaned page content.
func (s *Session) Observe(ctx context.Context) (*Observation, error) {
	raw, err := s.page.HTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}
	cleaned, err := cleanHTML(raw, s.observationTokens, s.tok)
	if err != nil {
		return nil, err
	}

	title, err := s.page.Title(ctx)
	if err != nil || title == "" {
		title = cleaned.Title
	}

	return &Observation{
		URL:       s.page.URL(),
		Title:     title,
		Content:   cleaned.HTML,
		Truncated: cleaned.Truncated,
	}, nil
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
