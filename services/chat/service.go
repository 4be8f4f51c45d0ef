package chat

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"homefix/models"
	"homefix/services/api"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service runs the chat widget for one client: backend persistence through
// the API client and an optimistic transcript kept in Store.
type Service struct {
	API      *api.Client
	Store    TranscriptStore
	ClientID string
	Logger   *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewService binds the chat to one session's API client and client id.
func NewService(client *api.Client, store TranscriptStore, clientID string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		API:      client,
		Store:    store,
		ClientID: clientID,
		Logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// History fetches the conversation from the backend and replaces the local
// transcript with it. Entries of sends still in flight are kept. An empty
// history yields the welcome message. On failure the stored transcript is
// returned with the error.
func (s *Service) History(ctx context.Context) ([]Entry, error) {
	t, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	var resp models.ChatHistoryResponse
	if err := s.API.Get(ctx, "/api/chat/history", &resp); err != nil {
		s.Logger.Warn("History: failed to load chat history", zap.Error(err))
		return t.Entries, fmt.Errorf("failed to load chat history: %w", err)
	}

	entries := fromBackend(resp.Messages)
	if len(entries) == 0 {
		entries = []Entry{welcomeEntry(s.now())}
	}
	t.Entries = append(entries, t.pendingSends()...)
	return t.Entries, s.save(ctx, t)
}

// Transcript returns the stored transcript, loading History when none is kept.
func (s *Service) Transcript(ctx context.Context) ([]Entry, error) {
	t, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if len(t.Entries) == 0 {
		return s.History(ctx)
	}
	return t.Entries, nil
}

// Send appends the user's message and a thinking placeholder, both pending,
// then saves it. On success the transcript becomes the backend's copy of the
// conversation, AI reply included. On failure both tentative entries are
// removed again.
func (s *Service) Send(ctx context.Context, text string) ([]Entry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	t, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if len(t.Entries) == 0 {
		t.Entries = []Entry{welcomeEntry(s.now())}
	}

	suffix := s.newID()
	now := s.now()
	userID, loadingID := models.ChatTempPrefix+suffix, models.ChatLoadingPrefix+suffix
	t.Entries = append(t.Entries,
		Entry{ID: userID, Type: models.ChatTypeUser, Text: text, Time: now, State: StatePending},
		Entry{ID: loadingID, Type: models.ChatTypeSupport, Text: thinkingText, Time: now, State: StatePending, Loading: true},
	)
	if err := s.save(ctx, t); err != nil {
		return nil, err
	}

	chat, err := s.saveMessage(ctx, text, now)
	if err != nil {
		s.Logger.Info("Send: rolling back tentative message", zap.Error(err))
		return s.rollbackSend(ctx, userID, loadingID, err)
	}

	t, err = s.load(ctx)
	if err != nil {
		return nil, err
	}
	t.Entries = t.without(userID, loadingID)
	if chat != nil {
		others := t.pendingSends()
		t.Entries = append(fromBackend(chat.Messages), others...)
		return t.Entries, s.save(ctx, t)
	}
	// Saved, but the response carried no conversation: resync.
	if err := s.save(ctx, t); err != nil {
		return nil, err
	}
	entries, _ := s.History(ctx)
	return entries, nil
}

func (s *Service) saveMessage(ctx context.Context, text string, at time.Time) (*models.Chat, error) {
	var resp models.ChatSaveResponse
	req := models.SaveMessageRequest{Message: text, Type: models.ChatTypeUser, Timestamp: at}
	if err := s.API.Post(ctx, "/api/chat/save-message", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	return resp.Chat, nil
}

func (s *Service) rollbackSend(ctx context.Context, userID, loadingID string, cause error) ([]Entry, error) {
	t, err := s.load(context.WithoutCancel(ctx))
	if err != nil {
		return nil, cause
	}
	t.Entries = t.without(userID, loadingID)
	if err := s.save(context.WithoutCancel(ctx), t); err != nil {
		s.Logger.Error("Send: failed to store rolled back transcript", zap.Error(err))
	}
	return t.Entries, cause
}

// Edit replaces the text of one of the user's saved messages. The new text is
// shown pending while the backend call runs; a failure restores the previous
// text and marks the entry rolled back. After a successful edit the text is
// sent again to get a fresh AI reply; if only that fails, the entries are
// returned with ErrNoReply.
func (s *Service) Edit(ctx context.Context, id, text string) ([]Entry, error) {
	text = strings.TrimSpace(text)
	if Local(id) {
		return nil, ErrNotEditable
	}
	if text == "" {
		return nil, ErrEmptyMessage
	}
	t, i, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !Editable(t.Entries[i]) {
		return nil, ErrNotEditable
	}

	t.Entries[i].Previous = t.Entries[i].Text
	t.Entries[i].Text = text
	t.Entries[i].State = StatePending
	if err := s.save(ctx, t); err != nil {
		return nil, err
	}

	callErr := s.API.Put(ctx, "/api/chat/edit-message/"+url.PathEscape(id), models.EditMessageRequest{Text: text}, nil)

	t, err = s.load(context.WithoutCancel(ctx))
	if err != nil {
		return nil, err
	}
	if i = t.index(id); i < 0 {
		return t.Entries, callErr
	}
	if callErr != nil {
		s.Logger.Info("Edit: restoring previous text", zap.String("message", id), zap.Error(callErr))
		t.Entries[i].Text = t.Entries[i].Previous
		t.Entries[i].State = StateRolledBack
		t.Entries[i].Previous = ""
		if err := s.save(context.WithoutCancel(ctx), t); err != nil {
			s.Logger.Error("Edit: failed to store rolled back transcript", zap.Error(err))
		}
		return t.Entries, fmt.Errorf("failed to update message: %w", callErr)
	}

	t.Entries[i].State = StateConfirmed
	t.Entries[i].Previous = ""
	if err := s.save(ctx, t); err != nil {
		return nil, err
	}

	entries, err := s.Send(ctx, text)
	if err != nil {
		s.Logger.Warn("Edit: follow-up reply failed", zap.Error(err))
		return t.Entries, fmt.Errorf("%w: %v", ErrNoReply, err)
	}
	return entries, nil
}

// Delete removes one saved message. The entry is shown as deleting while the
// call runs and restored, marked rolled back, if it fails.
func (s *Service) Delete(ctx context.Context, id string) ([]Entry, error) {
	if Local(id) {
		return nil, ErrNotDeletable
	}
	t, i, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !Deletable(t.Entries[i]) {
		return nil, ErrNotDeletable
	}

	t.Entries[i].State = StatePending
	t.Entries[i].Deleting = true
	if err := s.save(ctx, t); err != nil {
		return nil, err
	}

	callErr := s.API.Delete(ctx, "/api/chat/delete-message/"+url.PathEscape(id), nil)

	t, err = s.load(context.WithoutCancel(ctx))
	if err != nil {
		return nil, err
	}
	if callErr != nil {
		s.Logger.Info("Delete: restoring message", zap.String("message", id), zap.Error(callErr))
		if i = t.index(id); i >= 0 {
			t.Entries[i].State = StateRolledBack
			t.Entries[i].Deleting = false
		}
		if err := s.save(context.WithoutCancel(ctx), t); err != nil {
			s.Logger.Error("Delete: failed to store rolled back transcript", zap.Error(err))
		}
		return t.Entries, fmt.Errorf("failed to delete message: %w", callErr)
	}

	t.Entries = t.without(id)
	return t.Entries, s.save(ctx, t)
}

// Reset forgets the local transcript, e.g. on logout.
func (s *Service) Reset(ctx context.Context) error {
	return s.Store.Clear(ctx, s.ClientID)
}

// find locates id in the transcript, refreshing from the backend once when
// the local copy does not have it.
func (s *Service) find(ctx context.Context, id string) (*Transcript, int, error) {
	t, err := s.load(ctx)
	if err != nil {
		return nil, -1, err
	}
	if i := t.index(id); i >= 0 {
		return t, i, nil
	}
	if _, err := s.History(ctx); err != nil {
		return nil, -1, err
	}
	if t, err = s.load(ctx); err != nil {
		return nil, -1, err
	}
	if i := t.index(id); i >= 0 {
		return t, i, nil
	}
	return nil, -1, ErrMessageNotFound
}

func (s *Service) load(ctx context.Context) (*Transcript, error) {
	t, err := s.Store.Get(ctx, s.ClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transcript: %w", err)
	}
	return t, nil
}

func (s *Service) save(ctx context.Context, t *Transcript) error {
	t.UpdatedAt = s.now()
	if err := s.Store.Set(ctx, s.ClientID, t); err != nil {
		return fmt.Errorf("failed to store transcript: %w", err)
	}
	return nil
}
