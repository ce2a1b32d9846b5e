// Package cli provides CLI utilities for pagerag.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hyperjump/pagerag/internal/models"
	"github.com/hyperjump/pagerag/pkg/utils"
)

// OutputFormat is the format for CLI output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputCompact prints one line per result.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat returns the format named by s. Unknown names are an error.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", OutputText:
		return OutputText, nil
	case OutputCompact, OutputJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, compact or json)", s)
	}
}

// WriteQueryResults writes query results to w in the given format.
func WriteQueryResults(w io.Writer, query string, result *models.QueryResult, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, result)
	case OutputCompact:
		for i, item := range result.Results {
			fmt.Fprintf(w, "%d\t%s\t%s/%s\t%s\n", i+1, item.ID, item.Locale, item.Path, item.Title)
		}
		return nil
	default:
		writeQueryResultsText(w, query, result)
		return nil
	}
}

func writeQueryResultsText(w io.Writer, query string, result *models.QueryResult) {
	fmt.Fprintf(w, "\nFound %d results for %q\n\n", result.TotalHits, query)
	for i, item := range result.Results {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "Rank: %d | ID: %s\n", i+1, item.ID)
		if item.Title != "" {
			fmt.Fprintf(w, "Title: %s\n", item.Title)
		}
		fmt.Fprintf(w, "Path: %s/%s\n", item.Locale, item.Path)
		if item.Description != "" {
			fmt.Fprintf(w, "\n%s\n", utils.Truncate(item.Description, 200))
		}
		fmt.Fprintln(w)
	}
}

// WriteRebuildReport writes a rebuild summary to w.
func WriteRebuildReport(w io.Writer, report *models.RebuildReport, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, report)
	}
	fmt.Fprintf(w, "Rebuild %s: indexed %d of %d pages (%d failed) in %s\n",
		report.ID, report.Indexed, report.Fetched, report.Failed, report.Duration)
	return nil
}

// WriteStatus writes the index status to w.
func WriteStatus(w io.Writer, status *models.IndexStatus, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, status)
	}
	fmt.Fprintf(w, "Documents:  %d\n", status.Documents)
	fmt.Fprintf(w, "Dimensions: %d\n", status.Dimensions)
	fmt.Fprintf(w, "Max hits:   %d\n", status.MaxHits)
	if r := status.LastRebuild; r != nil {
		fmt.Fprintf(w, "Last rebuild: %s at %s (%d indexed, %d failed)\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Indexed, r.Failed)
	} else {
		fmt.Fprintln(w, "Last rebuild: never")
	}
	return nil
}

// PrintQueryResults prints query results to stdout in text format.
func PrintQueryResults(query string, result *models.QueryResult) {
	_ = WriteQueryResults(os.Stdout, query, result, OutputText)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
