package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/man00154/networktroubleshootchatbot/internal/core"
)

// retrySuggestion is shown alongside every remote failure so the user knows
// the turn can simply be submitted again.
const retrySuggestion = "Please try again or rephrase your question."

type APIHandler struct {
	chatService *core.ChatService
}

func NewAPIHandler(cs *core.ChatService) *APIHandler {
	return &APIHandler{chatService: cs}
}

// SessionSummary is the list-view shape of a session.
type SessionSummary struct {
	ID           string `json:"id"`
	Title        string `json:"title,omitempty"`
	CreatedAt    string `json:"created_at"`
	MessageCount int    `json:"message_count"`
}

func summarize(sess *core.Session) SessionSummary {
	return SessionSummary{
		ID:           sess.ID,
		Title:        sess.DisplayTitle(),
		CreatedAt:    sess.CreatedAt.Format(time.RFC3339),
		MessageCount: sess.Len(),
	}
}

type CreateSessionRequest struct {
	FirstMessage *string `json:"first_message,omitempty"`
}

type CreateSessionResponse struct {
	SessionSummary
	Messages []core.ChatMessage `json:"messages,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// CreateSessionHandler opens a new session. When a first message is supplied
// the reply is generated synchronously and returned with the session; a
// remote failure still creates the session and keeps the user message, per
// the turn-level recovery contract.
func (h *APIHandler) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if r.Body != http.NoBody {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	sess := h.chatService.CreateSession()

	resp := CreateSessionResponse{SessionSummary: summarize(sess)}
	if req.FirstMessage != nil && *req.FirstMessage != "" {
		if _, err := h.chatService.StreamReply(r.Context(), sess.ID, *req.FirstMessage, nil); err != nil {
			log.Printf("Error generating initial reply for session %s: %v", sess.ID, err)
			resp.Error = fmt.Sprintf("An error occurred: %v. %s", err, retrySuggestion)
		}
		resp.Messages = sess.History()
		resp.MessageCount = sess.Len()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

func (h *APIHandler) ListSessionsHandler(w http.ResponseWriter, r *http.Request) {
	sessions := h.chatService.ListSessions()
	summaries := make([]SessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		summaries = append(summaries, summarize(sess))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summaries)
}

type GetSessionResponse struct {
	SessionSummary
	Messages []core.ChatMessage `json:"messages"`
}

func (h *APIHandler) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess := h.chatService.GetSession(sessionID)
	if sess == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	resp := GetSessionResponse{
		SessionSummary: summarize(sess),
		Messages:       sess.History(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *APIHandler) DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if !h.chatService.DeleteSession(sessionID) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type PostMessageRequest struct {
	Content string `json:"content"`
}

// StreamEvent is one server-sent event in a message stream: "delta" carries
// the growing cursor-marked buffer, "done" the committed reply, "error" a
// user-facing failure notice.
type StreamEvent struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
	Message string `json:"message,omitempty"`
}

// PostMessageHandler submits one user utterance and streams the reply back
// as server-sent events. Empty submissions are rejected before anything is
// appended to the session.
func (h *APIHandler) PostMessageHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Content == "" {
		http.Error(w, "Message content cannot be empty", http.StatusBadRequest)
		return
	}

	if h.chatService.GetSession(sessionID) == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	progress := func(buffer string) {
		writeSSE(w, flusher, StreamEvent{Type: "delta", Content: buffer})
	}

	reply, err := h.chatService.StreamReply(r.Context(), sessionID, req.Content, progress)
	if err != nil {
		if errors.Is(err, core.ErrEmptyMessage) {
			// Whitespace-only content slips past the handler check.
			writeSSE(w, flusher, StreamEvent{Type: "error", Message: "Message content cannot be empty"})
			return
		}
		log.Printf("Error streaming reply for session %s: %v", sessionID, err)
		writeSSE(w, flusher, StreamEvent{
			Type:    "error",
			Message: fmt.Sprintf("An error occurred: %v. %s", err, retrySuggestion),
		})
		return
	}

	// The final progress call already carried the bare buffer; "done" commits
	// it for clients that only watch terminal events.
	writeSSE(w, flusher, StreamEvent{Type: "done", Content: reply})
}

func writeSSE(w http.ResponseWriter, flusher http.Flusher, event StreamEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal stream event: %v", err)
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", payload)
	flusher.Flush()
}
