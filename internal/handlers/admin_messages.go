package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"bubbles/internal/middleware"
	"bubbles/internal/models"
)

// ListMessages returns all contact messages, newest first, plus the
// unread count for the inbox badge.
func (a *Admin) ListMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := a.messages.List()
	if err != nil {
		slog.Error("message list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load messages.")
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}

	unread, err := a.messages.UnreadCount()
	if err != nil {
		slog.Error("unread count failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load messages.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs, "unread": unread})
}

// MarkMessageRead flags a message as read.
func (a *Admin) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	msg, err := a.messages.FindByID(id)
	if err != nil {
		slog.Error("message lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update message.")
		return
	}
	if msg == nil {
		writeError(w, http.StatusNotFound, "Message not found.")
		return
	}

	if err := a.messages.MarkRead(id); err != nil {
		slog.Error("mark read failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update message.")
		return
	}
	writeOK(w)
}

type replyRequest struct {
	Reply string `json:"reply"`
}

// ReplyMessage records an admin reply on a message and marks it read.
func (a *Admin) ReplyMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req replyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	reply := strings.TrimSpace(req.Reply)
	if reply == "" {
		writeError(w, http.StatusBadRequest, "Reply cannot be empty.")
		return
	}

	msg, err := a.messages.FindByID(id)
	if err != nil {
		slog.Error("message lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to send reply.")
		return
	}
	if msg == nil {
		writeError(w, http.StatusNotFound, "Message not found.")
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	if err := a.messages.Reply(id, reply, sess.UserID); err != nil {
		slog.Error("message reply failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to send reply.")
		return
	}

	slog.Info("message replied", "id", id, "admin", sess.Email)
	writeOK(w)
}

// DeleteMessage removes a message from the inbox.
func (a *Admin) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := a.messages.Delete(id); err != nil {
		slog.Error("message delete failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete message.")
		return
	}
	writeOK(w)
}
