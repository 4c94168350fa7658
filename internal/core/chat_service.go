package core

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/man00154/networktroubleshootchatbot/internal/kb"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptyMessage    = errors.New("message content cannot be empty")
)

// ChatService drives the whole turn pipeline: append the user utterance,
// retrieve a matching guide, compose the augmented prompt, stream the model
// reply, and commit the assembled text back to the session.
type ChatService struct {
	retriever kb.Retriever
	streamer  ChatStreamer
	sessions  *SessionManager
}

func NewChatService(retriever kb.Retriever, streamer ChatStreamer) *ChatService {
	return &ChatService{
		retriever: retriever,
		streamer:  streamer,
		sessions:  NewSessionManager(),
	}
}

func (s *ChatService) CreateSession() *Session {
	return s.sessions.Create()
}

func (s *ChatService) GetSession(id string) *Session {
	return s.sessions.Get(id)
}

func (s *ChatService) ListSessions() []*Session {
	return s.sessions.List()
}

func (s *ChatService) DeleteSession(id string) bool {
	return s.sessions.Delete(id)
}

// StreamReply processes one user turn for the given session. progress is
// invoked with each incremental display buffer (cursor-marked) and once with
// the final text; it may be nil for callers that only want the committed
// reply.
//
// On a remote failure the user message stays recorded, no assistant message
// is committed, and the remote handle is dropped so the next turn reopens a
// context seeded from local history. The error is returned for the caller to
// surface; there are no automatic retries.
func (s *ChatService) StreamReply(ctx context.Context, sessionID, userText string, progress func(string)) (string, error) {
	sess := s.sessions.Get(sessionID)
	if sess == nil {
		return "", ErrSessionNotFound
	}
	if strings.TrimSpace(userText) == "" {
		return "", ErrEmptyMessage
	}

	sess.turnMu.Lock()
	defer sess.turnMu.Unlock()

	// Open the remote context before recording the new utterance: the prompt
	// is transmitted as the next turn, so the seed history must not already
	// contain it.
	handle := sess.currentHandle()
	if handle == nil {
		handle = s.streamer.Open(sess.ProtocolHistory())
	}

	sess.AppendUser(userText)

	retrieved := s.retriever.Lookup(userText)
	prompt := ComposePrompt(chatInstruction, retrieved, userText)

	stream := handle.Send(ctx, prompt)
	reply, err := Assemble(stream, progress)
	if err != nil {
		sess.dropHandle()
		return "", err
	}

	sess.setHandle(handle)
	sess.AppendAssistant(reply)

	if sess.DisplayTitle() == "" && sess.Len() == 2 {
		go s.generateAndSaveTitle(sess, userText)
	}

	return reply, nil
}

func (s *ChatService) generateAndSaveTitle(sess *Session, basis string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	title, err := s.streamer.GenerateTitle(ctx, basis)
	if err != nil {
		log.Printf("Failed to generate title for session %s: %v", sess.ID, err)
		return
	}
	sess.setTitle(title)
	log.Printf("Generated title %q for session %s", title, sess.ID)
}
