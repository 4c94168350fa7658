package core

import (
	"io"
	"strings"
)

// CursorMarker is the transient typing indicator appended to incremental
// progress updates. It never appears in the final committed text.
const CursorMarker = "▌"

// Assemble consumes a fragment stream in order, concatenating fragments into
// one buffer. After each fragment it calls progress with the running buffer
// plus CursorMarker; on normal exhaustion it calls progress once more with
// the bare buffer and returns it as the committed reply text.
//
// If the stream fails mid-flight the partial buffer is discarded and the
// error returned; the caller must not commit anything to the session.
func Assemble(stream FragmentStream, progress func(string)) (string, error) {
	var buf strings.Builder
	for {
		frag, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		buf.WriteString(frag)
		if progress != nil {
			progress(buf.String() + CursorMarker)
		}
	}
	final := buf.String()
	if progress != nil {
		progress(final)
	}
	return final, nil
}
