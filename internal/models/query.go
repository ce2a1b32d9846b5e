package models

import (
	"fmt"
	"strings"
)

// QueryOptions narrows a similarity query. Empty Locale or Path means no filter.
type QueryOptions struct {
	Locale string `json:"locale,omitempty"`
	Path   string `json:"path,omitempty"`

	// MaxHits bounds the result count for this request. Values <= 0 or above the
	// configured maximum fall back to the configured maximum.
	MaxHits int `json:"max_hits,omitempty"`
}

// SearchRequest is the body of a search API call.
type SearchRequest struct {
	Query string `json:"query"`
	QueryOptions
}

// Validate trims the query text and rejects an empty query.
func (r *SearchRequest) Validate() error {
	r.Query = strings.TrimSpace(r.Query)
	if r.Query == "" {
		return fmt.Errorf("query cannot be empty")
	}
	if r.MaxHits < 0 {
		r.MaxHits = 0
	}
	return nil
}
