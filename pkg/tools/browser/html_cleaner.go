package browser

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/mpulaparthi/web-agent/pkg/llm/tokenizer"
)

// charsPerTokenCeiling bounds how much HTML is rendered before token
// truncation; no tokenizer produces fewer tokens than this many bytes each.
const charsPerTokenCeiling = 8

// CleanedHTML represents cleaned HTML content with metadata
type CleanedHTML struct {
	HTML        string
	Title       string
	Description string
	Truncated   bool
}

// cleaner renders a parsed document into compact HTML that keeps the
// structure and the attributes a model needs to build selectors.
type cleaner struct {
	b        strings.Builder
	maxChars int
	full     bool
}

// cleanHTML strips scripts, styles, hidden elements, and comments from
// rawHTML and truncates the result to maxTokens. maxTokens <= 0 disables
// truncation.
func cleanHTML(rawHTML string, maxTokens int, tok *tokenizer.Tokenizer) (*CleanedHTML, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	result := &CleanedHTML{
		Title:       extractTitle(doc),
		Description: extractMetaDescription(doc),
	}

	c := &cleaner{}
	if maxTokens > 0 {
		c.maxChars = maxTokens * charsPerTokenCeiling
	}
	body := findElement(doc, "body")
	if body == nil {
		body = doc
	}
	c.children(body, 0)

	out := strings.TrimSpace(c.b.String())
	truncated := c.full
	if maxTokens > 0 {
		var cut bool
		out, cut = tok.Truncate(out, maxTokens)
		truncated = truncated || cut
	}

	result.HTML = out
	result.Truncated = truncated
	return result, nil
}

func (c *cleaner) node(n *html.Node, depth int) {
	if c.full {
		return
	}

	switch n.Type {
	case html.TextNode:
		c.text(n.Data)
	case html.ElementNode:
		tag := strings.ToLower(n.Data)
		if isSkippedElement(tag) || isHidden(tag, n.Attr) {
			return
		}
		c.element(n, tag, depth)
	case html.DocumentNode:
		c.children(n, depth)
	}
}

func (c *cleaner) children(n *html.Node, depth int) {
	for child := n.FirstChild; child != nil && !c.full; child = child.NextSibling {
		c.node(child, depth)
	}
}

func (c *cleaner) text(raw string) {
	text := strings.Join(strings.Fields(raw), " ")
	if text == "" {
		return
	}
	c.write(text)
}

func (c *cleaner) element(n *html.Node, tag string, depth int) {
	block := isBlockElement(tag)
	if block && c.b.Len() > 0 {
		c.write("\n" + strings.Repeat("  ", depth))
	}

	var open strings.Builder
	open.WriteString("<")
	open.WriteString(tag)
	for _, attr := range n.Attr {
		key := strings.ToLower(attr.Key)
		if shouldPreserveAttribute(tag, key) && attr.Val != "" {
			fmt.Fprintf(&open, ` %s="%s"`, key, html.EscapeString(attr.Val))
		}
	}
	open.WriteString(">")
	c.write(open.String())

	if isVoidElement(tag) {
		return
	}

	c.children(n, depth+1)

	if block {
		c.write("\n" + strings.Repeat("  ", depth))
	}
	c.write("</" + tag + ">")
}

// write appends s unless that would pass the character ceiling, after which
// nothing more is rendered.
func (c *cleaner) write(s string) {
	if c.maxChars > 0 && c.b.Len()+len(s) > c.maxChars {
		c.full = true
		return
	}
	c.b.WriteString(s)
}

// isSkippedElement returns true for elements that should be completely removed
func isSkippedElement(tag string) bool {
	switch tag {
	case "script", "style", "noscript", "iframe", "embed", "object", "svg", "canvas", "template", "head":
		return true
	}
	return false
}

// isHidden reports whether the element is hidden from the user.
func isHidden(tag string, attrs []html.Attribute) bool {
	for _, attr := range attrs {
		switch strings.ToLower(attr.Key) {
		case "hidden":
			return true
		case "aria-hidden":
			if strings.EqualFold(attr.Val, "true") {
				return true
			}
		case "type":
			if tag == "input" && strings.EqualFold(attr.Val, "hidden") {
				return true
			}
		case "style":
			style := strings.ReplaceAll(strings.ToLower(attr.Val), " ", "")
			if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
				return true
			}
		}
	}
	return false
}

// isBlockElement returns true for block-level elements (for formatting)
func isBlockElement(tag string) bool {
	switch tag {
	case "div", "p", "section", "article", "header", "footer", "nav", "main", "aside",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"ul", "ol", "li", "table", "tr", "td", "th",
		"form", "fieldset", "blockquote", "pre", "dialog":
		return true
	}
	return false
}

// isVoidElement returns true for self-closing elements
func isVoidElement(tag string) bool {
	switch tag {
	case "area", "base", "br", "col", "embed", "hr", "img", "input", "link", "meta", "param", "source", "track", "wbr":
		return true
	}
	return false
}

// shouldPreserveAttribute returns true for attributes a model can target
// with a selector or that describe what an element does.
func shouldPreserveAttribute(tag, attr string) bool {
	switch attr {
	case "id", "class", "role", "aria-label", "aria-describedby", "title":
		return true
	}
	if strings.HasPrefix(attr, "data-test") {
		return true
	}

	switch tag {
	case "a":
		return attr == "href"
	case "img":
		return attr == "alt"
	case "input", "textarea", "select":
		return attr == "name" || attr == "type" || attr == "placeholder" || attr == "value"
	case "button":
		return attr == "type" || attr == "name"
	case "form":
		return attr == "action" || attr == "method"
	case "label":
		return attr == "for"
	case "option":
		return attr == "value"
	}
	return false
}

// findElement returns the first element named tag in document order.
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// extractTitle extracts the page title from the document
func extractTitle(doc *html.Node) string {
	title := findElement(doc, "title")
	if title == nil || title.FirstChild == nil || title.FirstChild.Type != html.TextNode {
		return ""
	}
	return strings.TrimSpace(title.FirstChild.Data)
}

// extractMetaDescription extracts the meta description from the document
func extractMetaDescription(doc *html.Node) string {
	var description string
	var traverse func(*html.Node) bool
	traverse = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "meta" {
			var isDescription bool
			var content string
			for _, attr := range n.Attr {
				switch attr.Key {
				case "name":
					isDescription = strings.EqualFold(attr.Val, "description")
				case "content":
					content = attr.Val
				}
			}
			if isDescription && content != "" {
				description = strings.TrimSpace(content)
				return true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if traverse(c) {
				return true
			}
		}
		return false
	}
	traverse(doc)
	return description
}
