package benchmark

import (
	"context"
	"fmt"
	"testing"

	"github.com/hyperjump/pagerag/internal/config"
	"github.com/hyperjump/pagerag/internal/fingerprint"
	"github.com/hyperjump/pagerag/internal/index"
	"github.com/hyperjump/pagerag/internal/models"
	"github.com/hyperjump/pagerag/internal/sanitize"
	"github.com/hyperjump/pagerag/internal/search"
	"github.com/hyperjump/pagerag/internal/vector"
)

func populatedStore(b *testing.B, n int) *index.Store {
	b.Helper()
	gen := fingerprint.NewSHA256Generator()
	store, err := index.NewStore(gen.Dimensions())
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()
	locales := []string{"en", "fr", "de"}
	for i := 0; i < n; i++ {
		fp, _ := gen.Fingerprint(ctx, fmt.Sprintf("page body %d", i))
		meta := models.Metadata{LocaleCode: locales[i%len(locales)], Path: fmt.Sprintf("docs/%d", i)}
		if err := store.Upsert(fmt.Sprintf("k%d", i), fp, meta); err != nil {
			b.Fatal(err)
		}
	}
	return store
}

func BenchmarkEngineQuery(b *testing.B) {
	for _, n := range []int{100, 1000, 10000} {
		b.Run(fmt.Sprintf("docs=%d", n), func(b *testing.B) {
			store := populatedStore(b, n)
			engine := search.NewEngine(store, fingerprint.NewSHA256Generator(), &config.SearchConfig{MaxHits: 10})
			ctx := context.Background()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, _ = engine.Query(ctx, "benchmark query", models.QueryOptions{Locale: "en"})
			}
		})
	}
}

func BenchmarkSHA256Fingerprint(b *testing.B) {
	gen := fingerprint.NewSHA256Generator()
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = gen.Fingerprint(ctx, "benchmark query text for fingerprinting")
	}
}

func BenchmarkCachedFingerprint(b *testing.B) {
	gen := fingerprint.NewCachedGenerator(fingerprint.NewSHA256Generator(), 1000)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = gen.Fingerprint(ctx, "benchmark query text for fingerprinting")
	}
}

func BenchmarkCosine(b *testing.B) {
	gen := fingerprint.NewSHA256Generator()
	x, _ := gen.Fingerprint(context.Background(), "left")
	y, _ := gen.Fingerprint(context.Background(), "right")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = vector.Cosine(x, y)
	}
}

func BenchmarkTextSanitizer(b *testing.B) {
	s := sanitize.NewTextSanitizer()
	html := "<html><head><style>p{}</style></head><body><h1>Title</h1><p>Some <em>page</em> text.</p><script>x()</script></body></html>"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Sanitize(html)
	}
}
