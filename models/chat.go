package models

import (
	"encoding/json"
	"time"
)

// Sender of a chat message.
const (
	ChatTypeUser    = "user"
	ChatTypeSupport = "support"
)

// Local-only message ids that the backend never saw.
const (
	ChatWelcomeID     = "welcome"
	ChatTempPrefix    = "temp_"
	ChatLoadingPrefix = "loading_"
)

// ChatMessage is a message as stored by the backend.
type ChatMessage struct {
	ID        string    `json:"_id"`
	Type      string    `json:"type"`      // "user" or "support"
	Message   string    `json:"message"`   // message text
	Timestamp time.Time `json:"timestamp"` // when it was sent
}

// UnmarshalJSON also accepts "text" and "time", which older history
// responses use for the message body and its time.
func (m *ChatMessage) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        string     `json:"_id"`
		Type      string     `json:"type"`
		Message   string     `json:"message"`
		Text      string     `json:"text"`
		Timestamp *time.Time `json:"timestamp"`
		Time      *time.Time `json:"time"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.ID, m.Type, m.Message = raw.ID, raw.Type, raw.Message
	if m.Message == "" {
		m.Message = raw.Text
	}
	switch {
	case raw.Timestamp != nil:
		m.Timestamp = *raw.Timestamp
	case raw.Time != nil:
		m.Timestamp = *raw.Time
	default:
		m.Timestamp = time.Time{}
	}
	return nil
}

// Chat is the backend's conversation document.
type Chat struct {
	ID       string        `json:"_id,omitempty"`
	Messages []ChatMessage `json:"messages"`
}

// SaveMessageRequest is the body of POST /api/chat/save-message.
type SaveMessageRequest struct {
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// EditMessageRequest is the body of PUT /api/chat/edit-message/:id.
type EditMessageRequest struct {
	Text string `json:"text"`
}

// ChatHistoryResponse is the envelope of GET /api/chat/history.
type ChatHistoryResponse struct {
	Success  bool          `json:"success"`
	Message  string        `json:"message,omitempty"`
	Messages []ChatMessage `json:"messages"`
}

// ChatSaveResponse is the envelope of POST /api/chat/save-message.
type ChatSaveResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Chat    *Chat  `json:"chat"`
}
