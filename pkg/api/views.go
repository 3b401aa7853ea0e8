package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/chanwatch/chanwatch/pkg/analysis"
	"github.com/chanwatch/chanwatch/pkg/models"
)

// Summary aggregates the enriched table for the dashboard collaborator
type Summary struct {
	TotalMessages int            `json:"total_messages"`
	ActiveUsers   int            `json:"active_users"`
	ByEngagement  map[string]int `json:"by_engagement"`
	BySentiment   map[int]int    `json:"by_sentiment"`
}

// PersonaDetail is the individual-lookup triple for one user
type PersonaDetail struct {
	User        string  `json:"user"`
	Label       string  `json:"label"`
	Confidence  float64 `json:"confidence"`
	Description string  `json:"description"`
}

// handleMessages returns enriched rows, optionally filtered by
// workspace, channel, and a [from, to] date range
func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	filtered, err := s.filterTable(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, filtered)
}

// handleSummary returns aggregate counts over the filtered table. An
// empty result is an explicit zero-count summary, not an error.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	filtered, err := s.filterTable(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary := Summary{
		TotalMessages: len(filtered),
		ByEngagement:  make(map[string]int),
		BySentiment:   make(map[int]int),
	}

	users := make(map[string]bool)
	for _, msg := range filtered {
		users[msg.User] = true
		summary.ByEngagement[msg.EngagementLabel]++
		summary.BySentiment[msg.SentimentBucket]++
	}
	summary.ActiveUsers = len(users)

	s.writeJSON(w, http.StatusOK, summary)
}

// handleUnanswered lists flagged questions not yet acknowledged in this
// session
func (s *Server) handleUnanswered(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	filtered, err := s.filterTable(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	flagged := make([]models.Message, 0)
	for _, msg := range filtered {
		if msg.IsUnanswered && !s.isResolved(msg.ID) {
			flagged = append(flagged, msg)
		}
	}

	s.writeJSON(w, http.StatusOK, flagged)
}

// handleResolve records an ephemeral acknowledgment:
// POST /api/v1/unanswered/{id}/resolve
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/unanswered/")
	id, ok := strings.CutSuffix(rest, "/resolve")
	if !ok || id == "" || strings.Contains(id, "/") {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}

	found := false
	for _, msg := range s.table() {
		if msg.ID == id && msg.IsUnanswered {
			found = true
			break
		}
	}
	if !found {
		s.writeError(w, http.StatusNotFound, "no flagged question with that id")
		return
	}

	s.markResolved(id)
	s.writeJSON(w, http.StatusOK, map[string]bool{"resolved": true})
}

// handlePersonas returns the batch user-to-label mapping used for
// audience targeting
func (s *Server) handlePersonas(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	filtered, err := s.filterTable(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, analysis.ClassifyAllPersonas(filtered))
}

// handlePersonaDetail returns (label, confidence, description) for one
// user: GET /api/v1/personas/{user}
func (s *Server) handlePersonaDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	user := strings.TrimPrefix(r.URL.Path, "/api/v1/personas/")
	if user == "" {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}

	var userMessages []models.Message
	for _, msg := range s.table() {
		if msg.User == user {
			userMessages = append(userMessages, msg)
		}
	}

	if len(userMessages) == 0 {
		s.writeError(w, http.StatusNotFound, "unknown user")
		return
	}

	persona := analysis.ClassifyPersona(userMessages)
	s.writeJSON(w, http.StatusOK, PersonaDetail{
		User:        user,
		Label:       persona.Label,
		Confidence:  persona.Confidence,
		Description: persona.Description,
	})
}

// filterTable applies the shared query filters (workspace, channel,
// from, to) to the session table. Dates accept RFC3339 or YYYY-MM-DD.
func (s *Server) filterTable(r *http.Request) ([]models.Message, error) {
	query := r.URL.Query()
	workspace := query.Get("workspace")
	channel := query.Get("channel")

	from, err := parseQueryTime(query.Get("from"))
	if err != nil {
		return nil, err
	}
	to, err := parseQueryTime(query.Get("to"))
	if err != nil {
		return nil, err
	}

	filtered := make([]models.Message, 0)
	for _, msg := range s.table() {
		if workspace != "" && msg.Workspace != workspace {
			continue
		}
		if channel != "" && msg.Channel != channel {
			continue
		}
		if !from.IsZero() && msg.Timestamp.Before(from) {
			continue
		}
		if !to.IsZero() && msg.Timestamp.After(to) {
			continue
		}
		filtered = append(filtered, msg)
	}

	return filtered, nil
}

// parseQueryTime parses an optional time filter value
func parseQueryTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
