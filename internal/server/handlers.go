package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hyperjump/pagerag/internal/indexer"
	"github.com/hyperjump/pagerag/internal/models"
	"go.uber.org/zap"
)

type renameRequest struct {
	DestinationKey    string `json:"destination_key,omitempty"`
	DestinationPath   string `json:"destination_path"`
	DestinationLocale string `json:"destination_locale"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("search request",
		zap.String("query", req.Query),
		zap.String("locale", req.Locale),
		zap.String("path", req.Path),
		zap.Int("max_hits", req.MaxHits),
	)
	result, err := s.engine.Query(r.Context(), req.Query, req.QueryOptions)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handlePageCreated(w http.ResponseWriter, r *http.Request) {
	var page models.Page
	if err := json.NewDecoder(r.Body).Decode(&page); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	key, err := indexer.ResolveKey(&page)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	page.Key = key
	s.logger.Debug("page created request", zap.String("key", key), zap.String("path", page.Path))
	if err := s.indexer.Created(r.Context(), &page); err != nil {
		s.respondIndexerError(w, "indexing failed", err)
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]string{"key": key, "status": "indexed"})
}

func (s *Server) handlePageUpdated(w http.ResponseWriter, r *http.Request) {
	var page models.Page
	if err := json.NewDecoder(r.Body).Decode(&page); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	page.Key = chi.URLParam(r, "key")
	s.logger.Debug("page updated request", zap.String("key", page.Key))
	if err := s.indexer.Updated(r.Context(), &page); err != nil {
		s.respondIndexerError(w, "indexing failed", err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"key": page.Key, "status": "indexed"})
}

func (s *Server) handlePageDeleted(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	s.logger.Debug("page deleted request", zap.String("key", key))
	if err := s.indexer.Deleted(r.Context(), &models.Page{Key: key}); err != nil {
		s.respondIndexerError(w, "deletion failed", err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"key": key, "status": "deleted"})
}

func (s *Server) handlePageRenamed(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rename := &models.PageRename{
		Key:               chi.URLParam(r, "key"),
		DestinationKey:    req.DestinationKey,
		DestinationPath:   req.DestinationPath,
		DestinationLocale: req.DestinationLocale,
	}
	s.logger.Debug("page renamed request", zap.String("key", rename.Key), zap.String("destination_path", rename.DestinationPath))
	if err := s.indexer.Renamed(r.Context(), rename); err != nil {
		s.respondIndexerError(w, "rename failed", err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"key": rename.Key, "status": "renamed"})
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	report, err := s.indexer.Rebuild(r.Context())
	if err != nil {
		s.respondIndexerError(w, "rebuild failed", err)
		return
	}
	s.respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, &models.IndexStatus{
		Documents:   s.engine.IndexSize(),
		Dimensions:  s.engine.Dimensions(),
		MaxHits:     s.engine.MaxHits(),
		LastRebuild: s.indexer.LastRebuild(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// respondIndexerError maps indexer sentinels to HTTP status codes.
func (s *Server) respondIndexerError(w http.ResponseWriter, msg string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, indexer.ErrInvalidPage):
		status = http.StatusBadRequest
	case errors.Is(err, indexer.ErrRebuildInProgress):
		status = http.StatusConflict
	case errors.Is(err, indexer.ErrFetchFailed):
		status = http.StatusBadGateway
	case errors.Is(err, indexer.ErrNoSource):
		status = http.StatusNotImplemented
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error(msg, zap.Error(err))
	}
	s.respondError(w, status, err.Error())
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
