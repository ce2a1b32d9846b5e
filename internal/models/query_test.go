package models

import (
	"testing"
)

func TestSearchRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		req       *SearchRequest
		wantErr   bool
		wantQuery string
	}{
		{"empty query", &SearchRequest{Query: ""}, true, ""},
		{"blank query", &SearchRequest{Query: "   "}, true, ""},
		{"valid query", &SearchRequest{Query: "apple pie"}, false, "apple pie"},
		{"trims query", &SearchRequest{Query: "  apple  "}, false, "apple"},
		{"negative max hits", &SearchRequest{Query: "x", QueryOptions: QueryOptions{MaxHits: -4}}, false, "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if tt.req.Query != tt.wantQuery {
				t.Errorf("Query = %q, want %q", tt.req.Query, tt.wantQuery)
			}
			if tt.req.MaxHits < 0 {
				t.Errorf("MaxHits = %d, want >= 0", tt.req.MaxHits)
			}
		})
	}
}

func TestPage_Metadata(t *testing.T) {
	p := &Page{
		Key: "h1", ID: "42", LocaleCode: "en", Path: "food/apple",
		Title: "Apple", Description: "Pie", Content: "apple pie recipe",
	}
	m := p.Metadata()
	if m.ID != "42" || m.LocaleCode != "en" || m.Path != "food/apple" || m.Title != "Apple" || m.Description != "Pie" {
		t.Errorf("Metadata() = %+v", m)
	}
}
