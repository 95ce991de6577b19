package browser

import (
	"fmt"
	"strings"
	"time"
)

// WaitState is the element state wait_for blocks on.
type WaitState string

const (
	// StateVisible waits until the element is in the DOM and visible (default)
	StateVisible WaitState = "visible"

	// StateHidden waits until the element is hidden or absent
	StateHidden WaitState = "hidden"

	// StateAttached waits until the element is in the DOM
	StateAttached WaitState = "attached"

	// StateDetached waits until the element is removed from the DOM
	StateDetached WaitState = "detached"
)

// Valid reports whether s is one of the supported wait states.
func (s WaitState) Valid() bool {
	switch s {
	case StateVisible, StateHidden, StateAttached, StateDetached:
		return true
	}
	return false
}

// ExtractFormat specifies the format for content extraction.
type ExtractFormat string

const (
	// FormatText extracts the visible text of the page or element (default)
	FormatText ExtractFormat = "text"

	// FormatHTML extracts cleaned HTML, keeping structure and selectors
	FormatHTML ExtractFormat = "html"
)

// ExtractOptions configures content extraction.
type ExtractOptions struct {
	// Format specifies the extraction format
	Format ExtractFormat

	// Selector optionally limits extraction to the first matching element
	Selector string
}

// SearchOptions configures page search.
type SearchOptions struct {
	// Pattern is the text to search for
	Pattern string

	// CaseSensitive controls case-sensitive matching
	CaseSensitive bool

	// MaxResults limits the number of results returned
	MaxResults int
}

// SearchResult represents a single search match.
type SearchResult struct {
	Text    string `json:"text"`
	Context string `json:"context"`
}

// Observation is what the browsing sub-agent sees after each step.
type Observation struct {
	URL       string
	Title     string
	Content   string
	Truncated bool
}

// String renders the observation for the model.
func (o *Observation) String() string {
	var b strings.Builder
	b.WriteString("Current page:\n")
	fmt.Fprintf(&b, "- URL: %s\n", o.URL)
	fmt.Fprintf(&b, "- Title: %s\n", o.Title)
	if o.Truncated {
		b.WriteString("- Content was truncated; use extract_content or search_page for specific parts.\n")
	}
	b.WriteString("\n")
	b.WriteString(o.Content)
	return b.String()
}

// Default values for browsing
const (
	DefaultActionTimeout     = 30 * time.Second
	DefaultObservationTokens = 6000
	DefaultExtractTokens     = 4000
	DefaultMaxSearchResults  = 10
	searchContextChars       = 50
)
