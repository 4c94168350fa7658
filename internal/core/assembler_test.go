package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleConcatenatesInOrder(t *testing.T) {
	stream := &scriptedStream{fragments: []string{"Hel", "lo, ", "world"}}

	var events []string
	got, err := Assemble(stream, func(buf string) {
		events = append(events, buf)
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello, world", got)

	// Each incremental event carries the cursor marker; the final one does
	// not. Stripped of markers, the buffers form a prefix chain.
	require.Len(t, events, 4)
	assert.Equal(t, "Hel"+CursorMarker, events[0])
	assert.Equal(t, "Hello, "+CursorMarker, events[1])
	assert.Equal(t, "Hello, world"+CursorMarker, events[2])
	assert.Equal(t, "Hello, world", events[3])

	prev := ""
	for _, e := range events {
		stripped := strings.TrimSuffix(e, CursorMarker)
		assert.True(t, strings.HasPrefix(stripped, prev), "buffer %q does not extend %q", stripped, prev)
		prev = stripped
	}
}

func TestAssembleEmptyStream(t *testing.T) {
	stream := &scriptedStream{}

	var events []string
	got, err := Assemble(stream, func(buf string) {
		events = append(events, buf)
	})

	require.NoError(t, err)
	assert.Equal(t, "", got)
	assert.Equal(t, []string{""}, events)
}

func TestAssembleNilProgress(t *testing.T) {
	stream := &scriptedStream{fragments: []string{"a", "b"}}

	got, err := Assemble(stream, nil)

	require.NoError(t, err)
	assert.Equal(t, "ab", got)
}

func TestAssembleMidStreamFailure(t *testing.T) {
	remoteErr := &RemoteServiceError{Op: "stream", Err: errors.New("quota exceeded")}
	stream := &scriptedStream{fragments: []string{"Par", "tial"}, failWith: remoteErr}

	var events []string
	got, err := Assemble(stream, func(buf string) {
		events = append(events, buf)
	})

	require.ErrorIs(t, err, remoteErr)
	assert.Empty(t, got)

	// Incremental events were emitted up to the failure, but no final
	// cursor-free event follows.
	require.Len(t, events, 2)
	assert.Equal(t, "Partial"+CursorMarker, events[1])
}
