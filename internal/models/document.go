package models

// Metadata is the descriptive part of an indexed document.
type Metadata struct {
	ID          string `json:"id,omitempty"`
	LocaleCode  string `json:"locale"`
	Path        string `json:"path"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// IndexedDocument is a single entry of the document index.
type IndexedDocument struct {
	Key         string    `json:"key"`
	Fingerprint []float32 `json:"-"`
	Metadata    Metadata  `json:"metadata"`
}
