// Package models defines core data structures for pages, indexed documents, queries, and results.
package models

// Page is the payload of a page lifecycle event (created, updated, deleted).
// Content is already-safe text; when it is empty and Render is set, the raw HTML
// in Render is sanitized before fingerprinting.
type Page struct {
	Key         string `json:"key"`
	ID          string `json:"id,omitempty"`
	LocaleCode  string `json:"locale"`
	Path        string `json:"path"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content,omitempty"`
	Render      string `json:"render,omitempty"`
}

// Metadata returns the indexable metadata of the page.
func (p *Page) Metadata() Metadata {
	return Metadata{
		ID:          p.ID,
		LocaleCode:  p.LocaleCode,
		Path:        p.Path,
		Title:       p.Title,
		Description: p.Description,
	}
}

// PageRename moves the page stored under Key to a new path and/or locale.
// DestinationKey may be empty, in which case it is derived from the destination locale and path.
type PageRename struct {
	Key               string `json:"key"`
	DestinationKey    string `json:"destination_key,omitempty"`
	DestinationPath   string `json:"destination_path"`
	DestinationLocale string `json:"destination_locale"`
}

// SourcePage is a published page as listed by the page source during a rebuild.
type SourcePage struct {
	Key         string `json:"key" db:"hash"`
	Path        string `json:"path" db:"path"`
	LocaleCode  string `json:"locale" db:"locale_code"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	Render      string `json:"render" db:"render"`
}
