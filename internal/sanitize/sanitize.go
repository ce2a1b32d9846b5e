// Package sanitize turns rendered page HTML into clean text for fingerprinting.
package sanitize

import "fmt"

// Sanitizer cleans raw rendered HTML.
type Sanitizer interface {
	Sanitize(raw string) (string, error)
}

// Kind names a sanitizer implementation.
type Kind string

const (
	// KindText strips all markup and keeps visible text only.
	KindText Kind = "text"
	// KindMarkdown converts HTML to Markdown, keeping headings, lists and links as text.
	KindMarkdown Kind = "markdown"
)

// NewSanitizer creates a sanitizer of the given kind.
// Supported kinds: "text" (default), "markdown".
func NewSanitizer(kind string) (Sanitizer, error) {
	switch Kind(kind) {
	case KindText, "":
		return NewTextSanitizer(), nil
	case KindMarkdown:
		return NewMarkdownSanitizer(), nil
	default:
		return nil, fmt.Errorf("unknown sanitizer: %s (supported: text, markdown)", kind)
	}
}
