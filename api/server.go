// Package api exposes the assistant over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tenwave/medassist"
	"github.com/tenwave/medassist/metrics"
	"github.com/tenwave/medassist/schema"
)

// Assistant is the slice of the medassist client the HTTP surface needs.
type Assistant interface {
	NewSession(category string) *medassist.Session
	GetSession(id string) (*medassist.Session, bool)
	DeleteSession(id string) bool
	ResetSession(id string) bool
	ListSessions() []*medassist.Session
	Chat(ctx context.Context, sessionID, question, category string) (*medassist.TurnResult, error)
	Search(ctx context.Context, query, category string, limit int) ([]schema.SearchResult, error)
}

type Server struct {
	assist Assistant
}

func New(assist Assistant) *Server {
	return &Server{assist: assist}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", metrics.Handler())

	r.Post("/v1/sessions", s.handleCreateSession)
	r.Get("/v1/sessions", s.handleListSessions)
	r.Get("/v1/sessions/{id}", s.handleGetSession)
	r.Delete("/v1/sessions/{id}", s.handleDeleteSession)
	r.Post("/v1/sessions/{id}/reset", s.handleResetSession)
	r.Post("/v1/sessions/{id}/messages", s.handlePostMessage)
	r.Post("/v1/search", s.handleSearch)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

type createSessionRequest struct {
	Category string `json:"category"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	sess := s.assist.NewSession(strings.TrimSpace(req.Category))
	respondJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleListSessions(w http.ResponseWriter, _ *http.Request) {
	sessions := s.assist.ListSessions()
	respondJSON(w, http.StatusOK, map[string]any{"sessions": sessions, "count": len(sessions)})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, ok := s.assist.GetSession(id)
	if !ok {
		respondError(w, http.StatusNotFound, "session_not_found", "session "+id+" not found")
		return
	}
	respondJSON(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.assist.DeleteSession(id) {
		respondError(w, http.StatusNotFound, "session_not_found", "session "+id+" not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.assist.ResetSession(id) {
		respondError(w, http.StatusNotFound, "session_not_found", "session "+id+" not found")
		return
	}
	sess, _ := s.assist.GetSession(id)
	respondJSON(w, http.StatusOK, sess)
}

type messageRequest struct {
	Question string `json:"question"`
	Category string `json:"category"`
}

func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req messageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		respondError(w, http.StatusBadRequest, "missing_question", "question is required")
		return
	}
	if _, ok := s.assist.GetSession(id); !ok {
		respondError(w, http.StatusNotFound, "session_not_found", "session "+id+" not found")
		return
	}

	turn, err := s.assist.Chat(r.Context(), id, req.Question, strings.TrimSpace(req.Category))
	if err != nil {
		respondError(w, http.StatusBadGateway, "turn_failed", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, turn)
}

type searchRequest struct {
	Query    string `json:"query"`
	Category string `json:"category"`
	Limit    int    `json:"limit"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		respondError(w, http.StatusBadRequest, "missing_query", "query is required")
		return
	}

	results, err := s.assist.Search(r.Context(), req.Query, strings.TrimSpace(req.Category), req.Limit)
	if err != nil {
		respondError(w, http.StatusBadGateway, "search_failed", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"results": results, "count": len(results)})
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
