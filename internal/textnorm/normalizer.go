// Package textnorm flattens the feed's structured post content into one
// plain-text blob suitable for pattern matching.
package textnorm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	whitespaceExpr = regexp.MustCompile(`\s+`)
	// The source renders the section marker and bullet glyphs glued to
	// the following word.
	glyphExpr = regexp.MustCompile(`([▌●])(\p{L})`)
)

// insertBlock mirrors one element of the Quill-style structured content
// array: "insert" is either a plain string or a typed object (image etc.).
type insertBlock struct {
	Insert json.RawMessage `json:"insert"`
}

// Flatten turns raw structured content into a single cleaned string,
// keeping only textual inserts in their original order. If the
// structured payload cannot be decoded, it falls back to joining the
// plain-text fields; it never fails.
func Flatten(structuredRaw, description, langContent string) string {
	if structuredRaw != "" {
		if text, ok := flattenStructured(structuredRaw); ok {
			return Clean(text)
		}
	}

	return Clean(joinNonEmpty(description, langContent))
}

func flattenStructured(raw string) (string, bool) {
	var blocks []insertBlock
	if err := json.Unmarshal([]byte(raw), &blocks); err != nil {
		return "", false
	}

	var sb strings.Builder
	for _, block := range blocks {
		var text string
		if err := json.Unmarshal(block.Insert, &text); err != nil {
			continue // typed insert (image, video, ...), skip
		}
		sb.WriteString(text)
		sb.WriteString(" ")
	}

	return sb.String(), true
}

// Clean strips HTML-like tags, collapses whitespace runs, and spaces out
// section-marker glyphs that the source glues to the next word.
func Clean(text string) string {
	text = stripTags(text)
	text = whitespaceExpr.ReplaceAllString(text, " ")
	text = glyphExpr.ReplaceAllString(text, "$1 $2")
	return strings.TrimSpace(text)
}

func stripTags(text string) string {
	if !strings.Contains(text, "<") {
		return text
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return text
	}
	return doc.Text()
}

func joinNonEmpty(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, " ")
}
