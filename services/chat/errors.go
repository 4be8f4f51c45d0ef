package chat

import (
	"errors"

	"homefix/services/api"
)

var (
	// ErrEmptyMessage is returned for blank message text.
	ErrEmptyMessage = errors.New("empty message")
	// ErrNotEditable is returned for welcome, tentative and in-flight messages.
	ErrNotEditable = errors.New("message cannot be edited")
	// ErrNotDeletable is the delete counterpart of ErrNotEditable.
	ErrNotDeletable = errors.New("message cannot be deleted")
	// ErrMessageNotFound is returned when the id is not in the transcript.
	ErrMessageNotFound = errors.New("message not found")
	// ErrNoReply means an edit was saved but the follow-up AI reply failed.
	// The returned entries are valid.
	ErrNoReply = errors.New("edited message saved without a reply")
)

// Notice is the text shown to the user for an error returned by Service.
func Notice(err error, fallback string) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyMessage):
		return "Please enter a message"
	case errors.Is(err, ErrNotEditable):
		return "Cannot edit this message"
	case errors.Is(err, ErrNotDeletable):
		return "Cannot delete this message"
	case errors.Is(err, ErrMessageNotFound):
		return "Message not found"
	case errors.Is(err, ErrNoReply):
		return "Message updated, but failed to get AI response"
	}
	return api.Message(err, fallback)
}
