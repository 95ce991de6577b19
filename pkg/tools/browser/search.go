package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mpulaparthi/web-agent/pkg/agent/tools"
)

const maxSearchResults = 100

// SearchTool finds text on the current page.
type SearchTool struct {
	session *Session
}

// NewSearchTool creates a new search_page tool.
func NewSearchTool(session *Session) *SearchTool {
	return &SearchTool{session: session}
}

// Name returns the tool name.
func (t *SearchTool) Name() string {
	return "search_page"
}

// Description returns the tool description.
func (t *SearchTool) Description() string {
	return "Search for text in the current page content. Returns matching text with surrounding context."
}

// Schema returns the tool's JSON schema.
func (t *SearchTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"pattern": tools.StringProperty("Text to search for in the page content"),
			"case_sensitive": map[string]interface{}{
				"type":        "boolean",
				"description": "Whether the search should be case-sensitive. Default: false",
			},
			"max_results": map[string]interface{}{
				"type":        "integer",
				"description": "Maximum number of results to return. Default: 10",
			},
		},
		[]string{"pattern"},
	)
}

// Execute searches the page.
func (t *SearchTool) Execute(ctx context.Context, arguments json.RawMessage) (string, map[string]interface{}, error) {
	var input struct {
		Pattern       string `json:"pattern"`
		CaseSensitive bool   `json:"case_sensitive"`
		MaxResults    *int   `json:"max_results"`
	}
	if err := tools.DecodeArguments(arguments, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}

	opts := SearchOptions{
		Pattern:       input.Pattern,
		CaseSensitive: input.CaseSensitive,
		MaxResults:    DefaultMaxSearchResults,
	}
	if input.MaxResults != nil {
		if *input.MaxResults < 1 || *input.MaxResults > maxSearchResults {
			return "", nil, fmt.Errorf("max_results must be between 1 and %d", maxSearchResults)
		}
		opts.MaxResults = *input.MaxResults
	}

	results, err := t.session.Search(ctx, opts)
	if err != nil {
		return "", nil, err
	}

	if len(results) == 0 {
		return fmt.Sprintf("No matches found for %q.", input.Pattern), map[string]interface{}{"matches": 0}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d match(es) for %q:\n", len(results), input.Pattern)
	for i, result := range results {
		fmt.Fprintf(&b, "\n%d. %s", i+1, result.Context)
	}
	if len(results) == opts.MaxResults {
		fmt.Fprintf(&b, "\n\n[Limited to %d results. There may be more matches in the page.]", opts.MaxResults)
	}
	return b.String(), map[string]interface{}{"matches": len(results)}, nil
}

// IsLoopBreaking returns whether this tool breaks the agent loop.
func (t *SearchTool) IsLoopBreaking() bool {
	return false
}
