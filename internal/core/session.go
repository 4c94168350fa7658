package core

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Role tags a message in the display-facing transcript.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// TurnRole tags a turn in the protocol-facing transcript handed to the
// generation service, which uses "model" where the display uses "assistant".
type TurnRole string

const (
	TurnUser  TurnRole = "user"
	TurnModel TurnRole = "model"
)

// ChatMessage is one display-facing transcript entry. Never mutated after
// creation.
type ChatMessage struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ModelTurn is the protocol-facing encoding of the same entry, in the turn
// schema the generation service expects.
type ModelTurn struct {
	Role  TurnRole `json:"role"`
	Parts []string `json:"parts"`
}

// Session owns one conversation: a display transcript, its protocol mirror,
// and the live handle to the remote generation context. The two transcripts
// are append-synchronized — every append pushes to both under the same lock,
// so their lengths and role positions always line up.
type Session struct {
	ID        string
	Title     string
	CreatedAt time.Time

	mu       sync.Mutex
	messages []ChatMessage
	turns    []ModelTurn
	handle   ConversationHandle

	// turnMu serializes whole turns: one user utterance is fully processed
	// before the next one for the same session starts.
	turnMu sync.Mutex
}

func newSession() *Session {
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
	}
}

// AppendUser records a user utterance in both transcripts.
func (s *Session) AppendUser(text string) {
	s.append(ChatMessage{Role: RoleUser, Content: text, Timestamp: time.Now()},
		ModelTurn{Role: TurnUser, Parts: []string{text}})
}

// AppendAssistant records a completed model reply in both transcripts.
func (s *Session) AppendAssistant(text string) {
	s.append(ChatMessage{Role: RoleAssistant, Content: text, Timestamp: time.Now()},
		ModelTurn{Role: TurnModel, Parts: []string{text}})
}

func (s *Session) append(msg ChatMessage, turn ModelTurn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	s.turns = append(s.turns, turn)
}

// History returns the display transcript in insertion order.
func (s *Session) History() []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// ProtocolHistory returns the protocol transcript in insertion order, for
// seeding a fresh remote conversation context.
func (s *Session) ProtocolHistory() []ModelTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ModelTurn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len reports the number of transcript entries (both views are always equal).
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

func (s *Session) setTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Title = title
}

// DisplayTitle returns the session title, which is set asynchronously after
// the first exchange and may still be empty.
func (s *Session) DisplayTitle() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Title
}

func (s *Session) currentHandle() ConversationHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle
}

func (s *Session) setHandle(h ConversationHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handle = h
}

// dropHandle discards the remote context after a failed stream. The remote
// side's view of the failed turn is unknowable, so the next turn reopens a
// fresh context from ProtocolHistory to keep both sides in agreement.
func (s *Session) dropHandle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handle = nil
}

// SessionManager is the in-memory registry of live sessions. Sessions are
// never persisted; they die with the process or when deleted.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*Session)}
}

func (m *SessionManager) Create() *Session {
	sess := newSession()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return sess
}

func (m *SessionManager) Get(id string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// List returns all live sessions, newest first.
func (m *SessionManager) List() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (m *SessionManager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}
