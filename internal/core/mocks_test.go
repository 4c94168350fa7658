package core

import (
	"context"
	"io"
)

// scriptedStream replays fixed fragments, then either ends cleanly or fails
// with the scripted error.
type scriptedStream struct {
	fragments []string
	failWith  error
	pos       int
}

func (s *scriptedStream) Next() (string, error) {
	if s.pos < len(s.fragments) {
		frag := s.fragments[s.pos]
		s.pos++
		return frag, nil
	}
	if s.failWith != nil {
		return "", s.failWith
	}
	return "", io.EOF
}

// scriptedHandle hands out one scripted stream per Send, recording the
// transmitted prompts.
type scriptedHandle struct {
	streams []*scriptedStream
	sent    []string
}

func (h *scriptedHandle) Send(_ context.Context, prompt string) FragmentStream {
	h.sent = append(h.sent, prompt)
	stream := h.streams[0]
	if len(h.streams) > 1 {
		h.streams = h.streams[1:]
	}
	return stream
}

// scriptedStreamer records every Open call with the seed history it was
// given, so tests can assert handle reopening behavior.
type scriptedStreamer struct {
	handles []*scriptedHandle
	opens   [][]ModelTurn
	title   string
}

func (m *scriptedStreamer) Open(priorTurns []ModelTurn) ConversationHandle {
	m.opens = append(m.opens, priorTurns)
	handle := m.handles[0]
	if len(m.handles) > 1 {
		m.handles = m.handles[1:]
	}
	return handle
}

func (m *scriptedStreamer) GenerateTitle(_ context.Context, _ string) (string, error) {
	if m.title == "" {
		return "Chat", nil
	}
	return m.title, nil
}
