package sanitize

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// MarkdownSanitizer converts HTML to Markdown. Structure such as headings and list
// markers survives as text, which yields different fingerprints than TextSanitizer.
type MarkdownSanitizer struct{}

// NewMarkdownSanitizer returns a MarkdownSanitizer.
func NewMarkdownSanitizer() *MarkdownSanitizer {
	return &MarkdownSanitizer{}
}

// Sanitize converts raw to Markdown.
func (s *MarkdownSanitizer) Sanitize(raw string) (string, error) {
	markdown, err := htmltomarkdown.ConvertString(raw)
	if err != nil {
		return "", fmt.Errorf("convert to markdown: %w", err)
	}
	return strings.TrimSpace(markdown), nil
}
