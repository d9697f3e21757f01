package service

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/splitbills/splitbills/internal/calculator"
	"github.com/splitbills/splitbills/internal/models"
)

// Request and response shapes for the JSON API. These mirror the two
// service contracts plus the presentation boundary reads.

type createSessionRequest struct {
	// Image is the receipt photo, base64-encoded.
	Image string `json:"image"`

	// MimeType tags the image bytes, e.g. "image/jpeg".
	MimeType string `json:"mimeType"`
}

type attendeeRequest struct {
	Name string `json:"name"`
}

type assignRequest struct {
	AssignedTo []string `json:"assignedTo"`
}

type chatRequest struct {
	Text string `json:"text"`
}

type chatResponse struct {
	Message models.ChatMessage `json:"message"`

	// Applied reports whether the assistant's proposed receipt was accepted
	// by the merge gate. False when the reply was a question/no-op or when
	// the proposal was rejected in full.
	Applied bool            `json:"applied"`
	Receipt *models.Receipt `json:"receipt"`
	Version uint64          `json:"version"`
}

type sessionResponse struct {
	Code      string               `json:"code,omitempty"`
	Version   uint64               `json:"version"`
	Receipt   *models.Receipt      `json:"receipt"`
	Attendees []string             `json:"attendees"`
	Messages  []models.ChatMessage `json:"messages"`
}

type summaryResponse struct {
	calculator.Summary
	Version uint64 `json:"version"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// maxBodyBytes bounds request bodies; receipt photos dominate the budget.
const maxBodyBytes = 16 << 20

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// retryPrompt is the generic user-facing message for any assistant failure.
// The prior receipt is always left untouched when it appears.
const retryPrompt = "Sorry, I had trouble processing that. Could you try again?"
