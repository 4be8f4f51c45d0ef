package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"homefix/models"
	"homefix/services/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend stores one conversation and answers every user message with an echo.
type fakeBackend struct {
	mu       sync.Mutex
	messages []models.ChatMessage
	seq      int
	fail     map[string]bool // keyed by "METHOD /path-prefix"
	calls    []string
	onCall   func(path string)
}

func (f *fakeBackend) failing(key string) bool {
	for k, v := range f.fail {
		if v && strings.HasPrefix(key, k) {
			return true
		}
	}
	return false
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	key := r.Method + " " + r.URL.Path
	f.calls = append(f.calls, key)
	hook := f.onCall
	f.mu.Unlock()
	if hook != nil {
		hook(r.URL.Path)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	if f.failing(key) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "boom"})
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/chat/history":
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "messages": f.messages})

	case r.Method == http.MethodPost && r.URL.Path == "/api/chat/save-message":
		var req models.SaveMessageRequest
		json.NewDecoder(r.Body).Decode(&req)
		f.seq++
		f.messages = append(f.messages,
			models.ChatMessage{ID: fmt.Sprintf("m%d", f.seq), Type: req.Type, Message: req.Message, Timestamp: req.Timestamp},
			models.ChatMessage{ID: fmt.Sprintf("r%d", f.seq), Type: models.ChatTypeSupport, Message: "re: " + req.Message, Timestamp: req.Timestamp},
		)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "chat": models.Chat{Messages: f.messages}})

	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/api/chat/edit-message/"):
		id := strings.TrimPrefix(r.URL.Path, "/api/chat/edit-message/")
		var req models.EditMessageRequest
		json.NewDecoder(r.Body).Decode(&req)
		for i := range f.messages {
			if f.messages[i].ID == id {
				f.messages[i].Message = req.Text
			}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true})

	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/api/chat/delete-message/"):
		id := strings.TrimPrefix(r.URL.Path, "/api/chat/delete-message/")
		kept := f.messages[:0]
		for _, m := range f.messages {
			if m.ID != id {
				kept = append(kept, m)
			}
		}
		f.messages = kept
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true})

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newChat(t *testing.T) (*Service, *fakeBackend, *MemoryTranscriptStore) {
	t.Helper()
	backend := &fakeBackend{fail: map[string]bool{}}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	client, err := api.NewClient(srv.URL, time.Second, nil)
	require.NoError(t, err)
	store := NewMemoryTranscriptStore()
	svc := NewService(client, store, "client-1", nil)
	n := 0
	svc.newID = func() string { n++; return fmt.Sprintf("%d", n) }
	return svc, backend, store
}

func texts(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Text)
	}
	return out
}

func TestHistory_EmptyYieldsWelcome(t *testing.T) {
	svc, _, _ := newChat(t)

	entries, err := svc.History(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ChatWelcomeID, entries[0].ID)
	assert.Equal(t, models.ChatTypeSupport, entries[0].Type)
	assert.False(t, Editable(entries[0]))
}

func TestSend_ConfirmsWithBackendConversation(t *testing.T) {
	svc, backend, store := newChat(t)
	ctx := context.Background()

	backend.onCall = func(path string) {
		if path != "/api/chat/save-message" {
			return
		}
		tr, err := store.Get(ctx, "client-1")
		if !assert.NoError(t, err) || !assert.Len(t, tr.Entries, 3) {
			return
		}
		assert.Equal(t, "temp_1", tr.Entries[1].ID)
		assert.Equal(t, StatePending, tr.Entries[1].State)
		assert.True(t, tr.Entries[2].Loading)
	}

	entries, err := svc.Send(ctx, "  Need a plumber ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Need a plumber", "re: Need a plumber"}, texts(entries))
	for _, e := range entries {
		assert.Equal(t, StateConfirmed, e.State)
	}
	assert.Equal(t, "m1", entries[0].ID)
}

func TestSend_RollsBackOnFailure(t *testing.T) {
	svc, backend, _ := newChat(t)
	backend.fail["POST /api/chat/save-message"] = true

	entries, err := svc.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.NotErrorIs(t, err, api.ErrTransport)
	assert.Equal(t, "boom", Notice(err, "Failed to send message"))
	require.Len(t, entries, 1)
	assert.Equal(t, models.ChatWelcomeID, entries[0].ID)
}

func TestSend_RejectsBlank(t *testing.T) {
	svc, backend, _ := newChat(t)
	_, err := svc.Send(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Empty(t, backend.calls)
}

func TestEdit_ConfirmsAndRequestsFreshReply(t *testing.T) {
	svc, backend, _ := newChat(t)
	ctx := context.Background()
	_, err := svc.Send(ctx, "leaky tap")
	require.NoError(t, err)

	entries, err := svc.Edit(ctx, "m1", "leaky shower")
	require.NoError(t, err)
	assert.Equal(t, []string{"leaky shower", "re: leaky tap", "leaky shower", "re: leaky shower"}, texts(entries))
	assert.Contains(t, backend.calls, "PUT /api/chat/edit-message/m1")
}

func TestEdit_RestoresTextOnFailure(t *testing.T) {
	svc, backend, _ := newChat(t)
	ctx := context.Background()
	_, err := svc.Send(ctx, "leaky tap")
	require.NoError(t, err)
	backend.fail["PUT /api/chat/edit-message/"] = true

	entries, err := svc.Edit(ctx, "m1", "leaky shower")
	require.Error(t, err)
	assert.Equal(t, "leaky tap", entries[0].Text)
	assert.Equal(t, StateRolledBack, entries[0].State)
	assert.Empty(t, entries[0].Previous)
}

func TestEdit_FollowUpFailureKeepsEdit(t *testing.T) {
	svc, backend, _ := newChat(t)
	ctx := context.Background()
	_, err := svc.Send(ctx, "leaky tap")
	require.NoError(t, err)
	backend.fail["POST /api/chat/save-message"] = true

	entries, err := svc.Edit(ctx, "m1", "leaky shower")
	assert.ErrorIs(t, err, ErrNoReply)
	assert.Equal(t, "leaky shower", entries[0].Text)
	assert.Equal(t, StateConfirmed, entries[0].State)
}

func TestEditAndDelete_GuardLocalMessages(t *testing.T) {
	svc, backend, _ := newChat(t)
	ctx := context.Background()

	for _, id := range []string{"welcome", "temp_1", "loading_1"} {
		_, err := svc.Edit(ctx, id, "x")
		assert.ErrorIs(t, err, ErrNotEditable, id)
		_, err = svc.Delete(ctx, id)
		assert.ErrorIs(t, err, ErrNotDeletable, id)
	}
	assert.Empty(t, backend.calls)
}

func TestEdit_SupportMessageIsNotEditable(t *testing.T) {
	svc, _, _ := newChat(t)
	ctx := context.Background()
	_, err := svc.Send(ctx, "hi")
	require.NoError(t, err)

	_, err = svc.Edit(ctx, "r1", "changed")
	assert.ErrorIs(t, err, ErrNotEditable)
}

func TestDelete(t *testing.T) {
	svc, backend, _ := newChat(t)
	ctx := context.Background()
	_, err := svc.Send(ctx, "hi")
	require.NoError(t, err)

	backend.fail["DELETE"] = true
	entries, err := svc.Delete(ctx, "m1")
	require.Error(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, StateRolledBack, entries[0].State)
	assert.False(t, entries[0].Deleting)

	backend.fail["DELETE"] = false
	entries, err = svc.Delete(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, []string{"re: hi"}, texts(entries))
}

func TestDelete_UnknownMessage(t *testing.T) {
	svc, _, _ := newChat(t)
	_, err := svc.Delete(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrMessageNotFound)
}

func TestTranscript_UsesStoredCopy(t *testing.T) {
	svc, backend, _ := newChat(t)
	ctx := context.Background()
	_, err := svc.Send(ctx, "hi")
	require.NoError(t, err)
	n := len(backend.calls)

	entries, err := svc.Transcript(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Len(t, backend.calls, n)
}
