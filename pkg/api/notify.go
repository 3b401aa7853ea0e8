package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// NotifyRequest is the payload handed to an outbound collaborator for a
// flagged unanswered question.
type NotifyRequest struct {
	// Asker is the display name of the user who asked the question
	Asker string `json:"asker"`

	// Question is the full question text
	Question string `json:"question"`

	// Note is an optional free-text note from the operator
	Note string `json:"note,omitempty"`

	// Mode selects private DM ("private", default) or channel post
	// ("channel") for reply delivery
	Mode string `json:"mode,omitempty"`

	// Target is the Slack handle for private delivery, or the channel
	// name for channel delivery
	Target string `json:"target"`
}

// NotifyResponse is the collaborator outcome surfaced verbatim to the
// operator.
type NotifyResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// handleNotifyReply hands the payload to the Slack collaborator. The
// collaborator outcome is always a 200 with an ok/message pair; delivery
// failures never propagate as faults.
func (s *Server) handleNotifyReply(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeNotifyRequest(w, r)
	if !ok {
		return
	}

	if s.replier == nil {
		s.writeJSON(w, http.StatusOK, NotifyResponse{OK: false, Message: "no reply collaborator configured"})
		return
	}

	var detail string
	var err error
	if req.Mode == "channel" {
		detail, err = s.replier.SendChannelReply(r.Context(), req.Target, req.Asker, req.Note)
	} else {
		detail, err = s.replier.SendPrivateReply(r.Context(), req.Target, req.Asker, req.Note)
	}

	if err != nil {
		s.logger.Warn("reply delivery failed", zap.String("asker", req.Asker), zap.Error(err))
		s.writeJSON(w, http.StatusOK, NotifyResponse{OK: false, Message: err.Error()})
		return
	}

	s.writeJSON(w, http.StatusOK, NotifyResponse{OK: true, Message: detail})
}

// handleNotifyTask hands the payload to the task-tracker collaborator
func (s *Server) handleNotifyTask(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeNotifyRequest(w, r)
	if !ok {
		return
	}

	if s.tasks == nil {
		s.writeJSON(w, http.StatusOK, NotifyResponse{OK: false, Message: "no task collaborator configured"})
		return
	}

	detail, err := s.tasks.AddTask(r.Context(), req.Asker, req.Question, req.Note)
	if err != nil {
		s.logger.Warn("task creation failed", zap.String("asker", req.Asker), zap.Error(err))
		s.writeJSON(w, http.StatusOK, NotifyResponse{OK: false, Message: err.Error()})
		return
	}

	s.writeJSON(w, http.StatusOK, NotifyResponse{OK: true, Message: detail})
}

// decodeNotifyRequest validates the shared notify payload
func (s *Server) decodeNotifyRequest(w http.ResponseWriter, r *http.Request) (NotifyRequest, bool) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return NotifyRequest{}, false
	}

	var req NotifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return NotifyRequest{}, false
	}

	if req.Asker == "" || req.Question == "" {
		s.writeError(w, http.StatusBadRequest, "asker and question are required")
		return NotifyRequest{}, false
	}

	return req, true
}
