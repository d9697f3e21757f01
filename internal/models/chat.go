package models

import "time"

// Chat message senders.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// ChatMessage is one entry in a session's assistant transcript.
type ChatMessage struct {
	// ID is a UUID assigned when the message is appended.
	ID string `json:"id"`

	// Sender is SenderUser or SenderBot.
	Sender string `json:"sender"`

	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
