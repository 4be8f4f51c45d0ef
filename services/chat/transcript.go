package chat

import (
	"strings"
	"time"

	"homefix/models"
)

// EntryState tracks an entry through an optimistic update.
type EntryState string

const (
	// StatePending is shown while the backend call that produced it is in flight.
	StatePending EntryState = "pending"
	// StateConfirmed entries match the backend.
	StateConfirmed EntryState = "confirmed"
	// StateRolledBack entries were restored after a failed edit or delete.
	StateRolledBack EntryState = "rolled-back"
)

// Entry is one line of the locally kept transcript.
type Entry struct {
	ID       string     `json:"id"`
	Type     string     `json:"type"`
	Text     string     `json:"text"`
	Time     time.Time  `json:"time"`
	State    EntryState `json:"state"`
	Previous string     `json:"previous,omitempty"` // text before a pending edit
	Loading  bool       `json:"loading,omitempty"`  // "Thinking..." placeholder
	Deleting bool       `json:"deleting,omitempty"`
}

// Transcript is the conversation as the chat page renders it.
type Transcript struct {
	Entries   []Entry   `json:"entries"`
	UpdatedAt time.Time `json:"updatedAt"`
}

const welcomeText = "Hello 👋! Welcome to HomeFix Support. I'm your AI assistant. " +
	"I can help you with home services, bookings, pricing, and support. How can I assist you today?"

const thinkingText = "Thinking..."

// Local reports whether id was minted here and never stored by the backend.
func Local(id string) bool {
	return id == models.ChatWelcomeID ||
		strings.HasPrefix(id, models.ChatTempPrefix) ||
		strings.HasPrefix(id, models.ChatLoadingPrefix)
}

// Editable reports whether the user may edit e.
func Editable(e Entry) bool {
	return e.Type == models.ChatTypeUser && Deletable(e)
}

// Deletable reports whether the user may delete e.
func Deletable(e Entry) bool {
	return !Local(e.ID) && e.State != StatePending
}

func welcomeEntry(now time.Time) Entry {
	return Entry{ID: models.ChatWelcomeID, Type: models.ChatTypeSupport, Text: welcomeText, Time: now, State: StateConfirmed}
}

// fromBackend converts server messages into confirmed entries.
func fromBackend(msgs []models.ChatMessage) []Entry {
	out := make([]Entry, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, Entry{ID: m.ID, Type: m.Type, Text: m.Message, Time: m.Timestamp, State: StateConfirmed})
	}
	return out
}

func (t *Transcript) index(id string) int {
	for i := range t.Entries {
		if t.Entries[i].ID == id {
			return i
		}
	}
	return -1
}

// without returns the entries whose id is not in ids.
func (t *Transcript) without(ids ...string) []Entry {
	out := make([]Entry, 0, len(t.Entries))
outer:
	for _, e := range t.Entries {
		for _, id := range ids {
			if e.ID == id {
				continue outer
			}
		}
		out = append(out, e)
	}
	return out
}

// pendingSends returns the tentative entries of sends still in flight.
func (t *Transcript) pendingSends() []Entry {
	var out []Entry
	for _, e := range t.Entries {
		if e.State == StatePending && (strings.HasPrefix(e.ID, models.ChatTempPrefix) || strings.HasPrefix(e.ID, models.ChatLoadingPrefix)) {
			out = append(out, e)
		}
	}
	return out
}
