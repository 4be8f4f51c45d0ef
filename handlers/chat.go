package handlers

import (
	"errors"
	"net/http"

	"homefix/middleware"
	"homefix/services/chat"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatHandler serves the support chat page.
type ChatHandler struct {
	Transcripts chat.TranscriptStore
}

func NewChatHandler(transcripts chat.TranscriptStore) *ChatHandler {
	return &ChatHandler{Transcripts: transcripts}
}

func (h *ChatHandler) service(c *gin.Context) *chat.Service {
	store := middleware.GetSession(c)
	return chat.NewService(store.API(), h.Transcripts, store.ClientID(), getLogger(c))
}

// Page renders the transcript. ?refresh=1 reloads it from the backend and
// ?edit=<id> opens the editor for one of the user's messages.
func (h *ChatHandler) Page(c *gin.Context) {
	store := middleware.GetSession(c)
	svc := h.service(c)
	ctx := c.Request.Context()

	var (
		entries []chat.Entry
		err     error
	)
	if c.Query("refresh") != "" {
		entries, err = svc.History(ctx)
	} else {
		entries, err = svc.Transcript(ctx)
	}
	if err != nil {
		if isUnauthorized(err) {
			failAndRedirect(c, store, err, "", "/chat")
			return
		}
		getLogger(c).Warn("Chat: failed to load history", zap.Error(err))
		flash(c, store, "error", "Failed to load chat history")
	}

	page := gin.H{"Title": "Support Chat", "Entries": entries}
	if id := c.Query("edit"); id != "" {
		for _, e := range entries {
			if e.ID == id && chat.Editable(e) {
				e := e
				page["Editing"] = &e
			}
		}
	}
	render(c, http.StatusOK, "chat.html", page)
}

func (h *ChatHandler) Send(c *gin.Context) {
	if _, err := h.service(c).Send(c.Request.Context(), c.PostForm("message")); err != nil {
		h.fail(c, err, "Failed to send message")
		return
	}
	redirect(c, "/chat")
}

func (h *ChatHandler) Edit(c *gin.Context) {
	store := middleware.GetSession(c)
	_, err := h.service(c).Edit(c.Request.Context(), c.Param("id"), c.PostForm("text"))
	switch {
	case errors.Is(err, chat.ErrNoReply):
		flash(c, store, "error", chat.Notice(err, ""))
		redirect(c, "/chat")
	case err != nil:
		h.fail(c, err, "Failed to update message")
	default:
		flash(c, store, "success", "Message updated successfully")
		redirect(c, "/chat")
	}
}

func (h *ChatHandler) Delete(c *gin.Context) {
	store := middleware.GetSession(c)
	if _, err := h.service(c).Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "Failed to delete message")
		return
	}
	flash(c, store, "success", "Message deleted successfully")
	redirect(c, "/chat")
}

func (h *ChatHandler) fail(c *gin.Context, err error, fallback string) {
	store := middleware.GetSession(c)
	if isUnauthorized(err) {
		failAndRedirect(c, store, err, "", "/chat")
		return
	}
	getLogger(c).Info(fallback, zap.Error(err))
	flash(c, store, "error", chat.Notice(err, fallback))
	redirect(c, "/chat")
}
