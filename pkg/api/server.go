package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/chanwatch/chanwatch/pkg/models"
)

// TableProvider returns the current enriched session table. The table is
// read-only; handlers never mutate the returned slice.
type TableProvider func() []models.Message

// Replier delivers a reply for a flagged question, privately or into a
// channel. Implemented by the Slack collaborator client.
type Replier interface {
	SendPrivateReply(ctx context.Context, targetHandle, askerName, replyText string) (string, error)
	SendChannelReply(ctx context.Context, channelName, askerName, replyText string) (string, error)
}

// TaskCreator turns a flagged question into an external task card.
// Implemented by the Trello collaborator client.
type TaskCreator interface {
	AddTask(ctx context.Context, askerName, questionText, noteText string) (string, error)
}

// Server exposes read-only views over the enriched table plus the
// operator's notify actions
type Server struct {
	table   TableProvider
	replier Replier
	tasks   TaskCreator
	logger  *zap.Logger

	// Ephemeral per-session acknowledgment of flagged questions, keyed
	// by row ID. Never touches IsUnanswered on the table itself.
	mu       sync.Mutex
	resolved map[string]bool
}

// NewServer creates a new API server instance
func NewServer(table TableProvider, replier Replier, tasks TaskCreator, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		table:    table,
		replier:  replier,
		tasks:    tasks,
		logger:   logger,
		resolved: make(map[string]bool),
	}
}

// Router returns the HTTP handler for the server
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", s.handleHealth)

	mux.HandleFunc("/api/v1/messages", s.handleMessages)
	mux.HandleFunc("/api/v1/summary", s.handleSummary)
	mux.HandleFunc("/api/v1/unanswered", s.handleUnanswered)
	mux.HandleFunc("/api/v1/unanswered/", s.handleResolve)
	mux.HandleFunc("/api/v1/personas", s.handlePersonas)
	mux.HandleFunc("/api/v1/personas/", s.handlePersonaDetail)
	mux.HandleFunc("/api/v1/notify/reply", s.handleNotifyReply)
	mux.HandleFunc("/api/v1/notify/task", s.handleNotifyTask)

	// Add middleware
	return s.withMiddleware(mux)
}

// withMiddleware wraps the handler with common middleware
func (s *Server) withMiddleware(h http.Handler) http.Handler {
	// Add CORS headers
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

// handleHealth returns the health status of the server
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "chanwatch",
	})
}

// writeJSON encodes a response body with the standard headers
func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

// writeError encodes a JSON error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// isResolved reports whether the operator acknowledged a flagged row in
// this session
func (s *Server) isResolved(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolved[id]
}

// markResolved records an ephemeral acknowledgment for a flagged row
func (s *Server) markResolved(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolved[id] = true
}
