// Package session owns the canonical state of one bill-splitting session:
// the receipt snapshot, the attendee roster, the chat transcript and the
// session code.
//
// The session is the single serialized apply point for state changes.
// Manual toggles, assistant proposals and roster edits all funnel through
// Apply, which validates via the merge gate and swaps the receipt atomically.
// Later commits win outright; there is no proposal versioning.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/splitbills/splitbills/internal/calculator"
	"github.com/splitbills/splitbills/internal/merge"
	"github.com/splitbills/splitbills/internal/models"
	"github.com/splitbills/splitbills/internal/roster"
)

// Session is a single receipt-in-progress. All methods are safe for
// concurrent use; internally they serialize on one mutex so there is exactly
// one logical writer at a time.
type Session struct {
	mu       sync.Mutex
	receipt  *models.Receipt
	version  uint64
	code     string
	people   *roster.Roster
	messages []models.ChatMessage
}

// New creates a session around the receipt produced by the extraction
// service. The roster starts empty and the version at 1.
func New(receipt *models.Receipt) *Session {
	s := &Session{
		receipt: receipt.Clone(),
		version: 1,
		people:  roster.New(),
	}
	return s
}

// Current returns a deep copy of the canonical receipt.
func (s *Session) Current() *models.Receipt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.receipt.Clone()
}

// Version returns the state version, bumped on every accepted replace.
// The UI re-renders when it observes a new version.
func (s *Session) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Code returns the session code, empty until Start.
func (s *Session) Code() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.code
}

// Start assigns the session its display code and returns it. Calling Start
// again replaces the code.
func (s *Session) Start(gen *CodeGenerator) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.code = gen.Code()
	return s.code
}

// Apply validates the proposal against the current receipt and roster and,
// if accepted, commits it as the new canonical receipt. On rejection the
// prior receipt is retained untouched.
func (s *Session) Apply(proposal merge.Proposal) (*models.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(proposal)
}

func (s *Session) applyLocked(proposal merge.Proposal) (*models.Receipt, error) {
	next, err := merge.Apply(s.receipt, s.people, proposal)
	if err != nil {
		return nil, err
	}
	s.receipt = next
	s.version++
	return next.Clone(), nil
}

// AddAttendee appends a name to the roster. Duplicates are a no-op.
// It reports whether the roster changed.
func (s *Session) AddAttendee(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.people.Add(name)
}

// RemoveAttendee removes a name from the roster and strips it from every
// item that still references it, so no dangling assignees survive. The strip
// is routed through the merge gate: with the name gone from the roster,
// re-applying the current receipt filters it out of every assignee set.
func (s *Session) RemoveAttendee(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.people.Remove(name) {
		return false
	}
	// The receipt itself is a valid proposal, so this cannot be rejected.
	if _, err := s.applyLocked(merge.ReplaceReceipt{Receipt: s.receipt}); err != nil {
		slog.Error("cascade strip rejected", "name", name, "error", err)
	}
	return true
}

// Attendees returns the roster in insertion order.
func (s *Session) Attendees() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.people.Names()
}

// Summarize recomputes the per-person owed breakdown from the current
// receipt and roster. Nothing is cached; every read derives the view fresh.
func (s *Session) Summarize() calculator.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return calculator.Summarize(s.receipt, s.people.Names())
}

// AppendMessage adds an entry to the chat transcript and returns it.
func (s *Session) AppendMessage(sender, text string) models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := models.ChatMessage{
		ID:        uuid.NewString(),
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now(),
	}
	s.messages = append(s.messages, msg)
	return msg
}

// Messages returns a copy of the chat transcript in order.
func (s *Session) Messages() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ChatMessage(nil), s.messages...)
}
