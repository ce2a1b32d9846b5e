package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hyperjump/pagerag/internal/config"
	"github.com/hyperjump/pagerag/internal/fingerprint"
	"github.com/hyperjump/pagerag/internal/index"
	"github.com/hyperjump/pagerag/internal/indexer"
	"github.com/hyperjump/pagerag/internal/search"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogRequests(t *testing.T) {
	srv, _ := testServer(t, nil)
	core, logs := observer.New(zap.DebugLevel)
	srv.logger = zap.New(core)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	entries := logs.FilterMessage("request").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 request log, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/health" || fields["method"] != http.MethodGet {
		t.Errorf("fields = %v", fields)
	}
	if fields["status"] != int64(http.StatusOK) {
		t.Errorf("status field = %v (%T)", fields["status"], fields["status"])
	}
	if fields["request_id"] == "" {
		t.Error("request_id should be set by the RequestID middleware")
	}
}

func TestStop_notStarted(t *testing.T) {
	srv, _ := testServer(t, nil)
	if err := srv.Stop(t.Context()); err != nil {
		t.Errorf("Stop before Start: %v", err)
	}
}

func TestStartStop_concurrent(t *testing.T) {
	store, err := index.NewStore(fingerprint.SHA256Dimensions)
	if err != nil {
		t.Fatal(err)
	}
	gen := fingerprint.NewSHA256Generator()
	srv := NewServer(
		search.NewEngine(store, gen, &config.SearchConfig{}),
		indexer.NewIndexer(store, gen, nil),
		&config.ServerConfig{Host: "127.0.0.1", Port: 0},
		nil,
	)

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()
	if err := srv.Stop(t.Context()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := <-done; !errors.Is(err, http.ErrServerClosed) {
		t.Errorf("Start returned %v, want http.ErrServerClosed", err)
	}
}
