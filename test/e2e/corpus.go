// Package e2e provides end-to-end tests with a generated multi-locale page corpus.
package e2e

import (
	"fmt"

	"github.com/hyperjump/pagerag/internal/models"
	"github.com/hyperjump/pagerag/internal/pagekey"
	"github.com/hyperjump/pagerag/internal/storage"
)

// Locales and Sections span the filter space of the corpus.
var (
	Locales  = []string{"en", "fr", "de"}
	Sections = []string{"docs", "guide", "blog"}
)

// CorpusPage is a page of the E2E corpus. Text is the visible text of Render after
// sanitizing, so querying with it scores a similarity of exactly 1 for this page.
type CorpusPage struct {
	Record *storage.PageRecord
	Text   string
}

// Corpus holds the generated pages.
type Corpus struct {
	Pages []CorpusPage
	// Published counts pages that are published and public.
	Published int
}

var topics = []struct {
	title string
	body  string
}{
	{"Installing the wiki", "Download the release archive and run the installer on your server."},
	{"Editing pages", "Use the visual editor or Markdown to change the content of a page."},
	{"Page history", "Every save creates a version that can be compared and restored."},
	{"User groups", "Groups grant permissions to read, write or administer sections."},
	{"Search engines", "Choose between the database engine and external search modules."},
	{"Theme settings", "Customize colors, fonts and the table of contents position."},
	{"Storage targets", "Synchronize pages with Git, S3 or a local folder."},
	{"Authentication", "Enable local accounts, LDAP or an OAuth2 identity provider."},
	{"Navigation menus", "Build a static menu or let the tree follow the page hierarchy."},
	{"Assets and uploads", "Images and files are stored in folders attached to the asset library."},
}

// BuildCorpus returns one page per topic, per locale and per section. Every tenth page
// is unpublished and every fifteenth is private so rebuild filtering is exercised.
func BuildCorpus() *Corpus {
	c := &Corpus{}
	n := 0
	for _, locale := range Locales {
		for _, section := range Sections {
			for i, topic := range topics {
				n++
				path := fmt.Sprintf("%s/topic-%02d", section, i+1)
				title := fmt.Sprintf("%s %s %s", topic.title, locale, section)
				body := fmt.Sprintf("%s Item %d.", topic.body, n)
				rec := &storage.PageRecord{
					SourcePage: models.SourcePage{
						Key:         pagekey.Key(locale, path),
						LocaleCode:  locale,
						Path:        path,
						Title:       title,
						Description: topic.body,
						Render:      fmt.Sprintf("<h1>%s</h1><p>%s</p><script>track()</script>", title, body),
					},
					IsPublished: n%10 != 0,
					IsPrivate:   n%15 == 0,
				}
				if rec.IsPublished && !rec.IsPrivate {
					c.Published++
				}
				c.Pages = append(c.Pages, CorpusPage{Record: rec, Text: title + " " + body})
			}
		}
	}
	return c
}

// Records returns the page rows for seeding the page database.
func (c *Corpus) Records() []*storage.PageRecord {
	out := make([]*storage.PageRecord, len(c.Pages))
	for i := range c.Pages {
		out[i] = c.Pages[i].Record
	}
	return out
}

// Indexed returns the pages a rebuild is expected to index.
func (c *Corpus) Indexed() []CorpusPage {
	var out []CorpusPage
	for _, p := range c.Pages {
		if p.Record.IsPublished && !p.Record.IsPrivate {
			out = append(out, p)
		}
	}
	return out
}
