// Package service exposes one bill-splitting session over a JSON HTTP API.
//
// The service holds at most one live session in memory. Reads go straight to
// the session; every write, manual or assistant-proposed, becomes a merge
// proposal. Nothing is persisted across restarts.
package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/splitbills/splitbills/internal/gemini"
	"github.com/splitbills/splitbills/internal/merge"
	"github.com/splitbills/splitbills/internal/middleware"
	"github.com/splitbills/splitbills/internal/models"
	"github.com/splitbills/splitbills/internal/session"
	"github.com/splitbills/splitbills/pkg/metrics"
)

// Assistant is the slice of the Gemini client the service depends on.
// Tests substitute a fake.
type Assistant interface {
	ParseReceipt(ctx context.Context, image []byte, mimeType string) (*models.Receipt, error)
	InterpretCommand(ctx context.Context, receipt *models.Receipt, attendees []string, text string) (*gemini.CommandResult, error)
}

// SessionService owns the live session and the HTTP handlers around it.
type SessionService struct {
	assistant Assistant
	codes     *session.CodeGenerator
	timeout   time.Duration

	mu   sync.Mutex
	sess *session.Session
}

// New creates a SessionService. timeout bounds each assistant call; manual
// edits keep flowing while a call is outstanding.
func New(assistant Assistant, codes *session.CodeGenerator, timeout time.Duration) *SessionService {
	return &SessionService{
		assistant: assistant,
		codes:     codes,
		timeout:   timeout,
	}
}

// Register attaches all routes to mux.
func (s *SessionService) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/session", middleware.Instrument("session_create", s.handleCreate))
	mux.HandleFunc("GET /api/session", middleware.Instrument("session_get", s.handleGet))
	mux.HandleFunc("POST /api/session/start", middleware.Instrument("session_start", s.handleStart))
	mux.HandleFunc("POST /api/session/reset", middleware.Instrument("session_reset", s.handleReset))
	mux.HandleFunc("POST /api/session/attendees", middleware.Instrument("attendee_add", s.handleAddAttendee))
	mux.HandleFunc("DELETE /api/session/attendees/{name}", middleware.Instrument("attendee_remove", s.handleRemoveAttendee))
	mux.HandleFunc("PUT /api/session/items/{id}/assignees", middleware.Instrument("item_assign", s.handleAssignItem))
	mux.HandleFunc("POST /api/session/chat", middleware.Instrument("chat", s.handleChat))
	mux.HandleFunc("GET /api/session/summary", middleware.Instrument("summary", s.handleSummary))
}

// current returns the live session, or ErrNoSession.
func (s *SessionService) current() (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return nil, ErrNoSession
	}
	return s.sess, nil
}

func (s *SessionService) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if req.Image == "" || req.MimeType == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "image and mimeType are required")
		return
	}
	image, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "image must be base64-encoded")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	receipt, err := s.assistant.ParseReceipt(ctx, image, req.MimeType)
	if err != nil {
		// Extraction failed or produced garbage: no session is created and
		// any previous one is untouched.
		slog.Warn("receipt extraction failed", "error", err)
		writeError(w, http.StatusBadGateway, "service_unavailable",
			"Failed to process receipt. Please try again.")
		return
	}

	sess := session.New(receipt)

	s.mu.Lock()
	s.sess = sess
	s.mu.Unlock()

	slog.Info("session created", "items", len(receipt.Items), "total", receipt.Total)
	writeJSON(w, http.StatusCreated, s.stateOf(sess))
}

func (s *SessionService) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, err := s.current()
	if err != nil {
		writeError(w, http.StatusNotFound, "no_session", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.stateOf(sess))
}

func (s *SessionService) handleStart(w http.ResponseWriter, r *http.Request) {
	sess, err := s.current()
	if err != nil {
		writeError(w, http.StatusNotFound, "no_session", err.Error())
		return
	}

	code := sess.Start(s.codes)
	sess.AppendMessage(models.SenderBot, fmt.Sprintf(
		"Session %s started! I see %d people. Assign items on the left or tell me who had what.",
		code, len(sess.Attendees()),
	))
	slog.Info("session started", "code", code, "attendees", len(sess.Attendees()))
	writeJSON(w, http.StatusOK, s.stateOf(sess))
}

func (s *SessionService) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.sess = nil
	s.mu.Unlock()
	slog.Info("session reset")
	w.WriteHeader(http.StatusNoContent)
}

func (s *SessionService) handleAddAttendee(w http.ResponseWriter, r *http.Request) {
	sess, err := s.current()
	if err != nil {
		writeError(w, http.StatusNotFound, "no_session", err.Error())
		return
	}
	var req attendeeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "name is required")
		return
	}
	sess.AddAttendee(name)
	writeJSON(w, http.StatusOK, s.stateOf(sess))
}

func (s *SessionService) handleRemoveAttendee(w http.ResponseWriter, r *http.Request) {
	sess, err := s.current()
	if err != nil {
		writeError(w, http.StatusNotFound, "no_session", err.Error())
		return
	}
	name := r.PathValue("name")
	if !sess.RemoveAttendee(name) {
		writeError(w, http.StatusNotFound, "not_found", fmt.Sprintf("%q is not an attendee", name))
		return
	}
	writeJSON(w, http.StatusOK, s.stateOf(sess))
}

func (s *SessionService) handleAssignItem(w http.ResponseWriter, r *http.Request) {
	sess, err := s.current()
	if err != nil {
		writeError(w, http.StatusNotFound, "no_session", err.Error())
		return
	}
	var req assignRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	proposal := merge.AssignItem{ItemID: r.PathValue("id"), AssignedTo: req.AssignedTo}
	receipt, err := sess.Apply(proposal)
	metrics.RecordProposal(proposal.Describe(), err == nil)
	if err != nil {
		if errors.Is(err, merge.ErrUnknownItem) {
			writeError(w, http.StatusNotFound, "not_found", err.Error())
			return
		}
		slog.Warn("manual assignment rejected", "item", proposal.ItemID, "error", err)
		writeError(w, http.StatusBadRequest, "invalid_proposal", err.Error())
		return
	}

	slog.Debug("item assigned", "item", proposal.ItemID, "assignees", req.AssignedTo)
	writeJSON(w, http.StatusOK, sessionResponse{
		Code:      sess.Code(),
		Version:   sess.Version(),
		Receipt:   receipt,
		Attendees: sess.Attendees(),
		Messages:  sess.Messages(),
	})
}

func (s *SessionService) handleChat(w http.ResponseWriter, r *http.Request) {
	sess, err := s.current()
	if err != nil {
		writeError(w, http.StatusNotFound, "no_session", err.Error())
		return
	}
	var req chatRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "text is required")
		return
	}

	sess.AppendMessage(models.SenderUser, req.Text)

	// The snapshot the assistant reasons about. Manual edits landing while
	// the call is in flight are legal; whichever commit completes last wins
	// in full.
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	result, err := s.assistant.InterpretCommand(ctx, sess.Current(), sess.Attendees(), req.Text)
	if err != nil {
		slog.Warn("command interpretation failed", "error", err)
		msg := sess.AppendMessage(models.SenderBot, retryPrompt)
		writeJSON(w, http.StatusBadGateway, chatResponse{
			Message: msg,
			Applied: false,
			Receipt: sess.Current(),
			Version: sess.Version(),
		})
		return
	}

	applied := false
	if result.UpdatedReceipt != nil {
		proposal := merge.ReplaceReceipt{Receipt: result.UpdatedReceipt}
		_, applyErr := sess.Apply(proposal)
		metrics.RecordProposal(proposal.Describe(), applyErr == nil)
		if applyErr != nil {
			// Rejected in full; the reply text is still worth showing.
			slog.Warn("assistant proposal rejected", "error", applyErr)
		} else {
			applied = true
		}
	}

	msg := sess.AppendMessage(models.SenderBot, result.Message)
	writeJSON(w, http.StatusOK, chatResponse{
		Message: msg,
		Applied: applied,
		Receipt: sess.Current(),
		Version: sess.Version(),
	})
}

func (s *SessionService) handleSummary(w http.ResponseWriter, r *http.Request) {
	sess, err := s.current()
	if err != nil {
		writeError(w, http.StatusNotFound, "no_session", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		Summary: sess.Summarize(),
		Version: sess.Version(),
	})
}

func (s *SessionService) stateOf(sess *session.Session) sessionResponse {
	return sessionResponse{
		Code:      sess.Code(),
		Version:   sess.Version(),
		Receipt:   sess.Current(),
		Attendees: sess.Attendees(),
		Messages:  sess.Messages(),
	}
}
