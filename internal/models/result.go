package models

import "time"

// QueryResultItem is a single ranked hit.
type QueryResultItem struct {
	ID          string `json:"id"`
	Locale      string `json:"locale"`
	Path        string `json:"path"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// QueryResult is the response of a similarity query.
// TotalHits counts the returned results, not every document that passed the filters.
type QueryResult struct {
	Results     []QueryResultItem `json:"results"`
	Suggestions []string          `json:"suggestions"`
	TotalHits   int               `json:"totalHits"`
}

// RebuildReport summarizes a full index rebuild.
type RebuildReport struct {
	ID        string        `json:"id"`
	Fetched   int           `json:"fetched"`
	Indexed   int           `json:"indexed"`
	Failed    int           `json:"failed"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
}

// IndexStatus describes the live index for the status endpoint.
type IndexStatus struct {
	Documents   int            `json:"documents"`
	Dimensions  int            `json:"dimensions"`
	MaxHits     int            `json:"max_hits"`
	LastRebuild *RebuildReport `json:"last_rebuild,omitempty"`
}
