// Package sse reassembles the server-sent-events framing used by the Exa
// answer endpoints. The transport delivers raw byte chunks with no alignment
// guarantee: a chunk may end mid-line, mid-rune or mid-event. The
// [Reassembler] restores complete "data:" payloads from any chunking of the
// same transcript, and [Scanner] drives one from an io.Reader.
//
// Only "data:"-prefixed lines carry information on this wire. Comment lines,
// "event:" fields, blank keepalives and the literal "[DONE]" marker are all
// dropped here so consumers only ever see JSON payloads.
package sse

import (
	"bytes"
	"strings"
)

// dataPrefix is the only SSE field this wire uses.
const dataPrefix = "data: "

// doneMarker terminates OpenAI-style streams. It is a no-op on this wire,
// not a signal: the stream ends when the body ends.
const doneMarker = "[DONE]"

// Reassembler turns a sequence of raw byte chunks into a sequence of
// complete "data:" payloads. Any unterminated trailing fragment is retained
// as bytes and prefixed to the next chunk, so lines and multi-byte runes
// split across chunk boundaries are reassembled intact. The zero value is
// ready to use.
type Reassembler struct {
	pending []byte
}

// Push appends one chunk and returns the payloads of all newly completed
// "data:" lines, in arrival order. Non-data lines are discarded.
func (r *Reassembler) Push(chunk []byte) []string {
	r.pending = append(r.pending, chunk...)

	var payloads []string
	for {
		i := bytes.IndexByte(r.pending, '\n')
		if i < 0 {
			return payloads
		}
		line := string(r.pending[:i])
		r.pending = r.pending[i+1:]
		if p, ok := extractData(line); ok {
			payloads = append(payloads, p)
		}
	}
}

// Flush processes any buffered fragment as a final line. Call it exactly
// once after the byte source is exhausted: a terminal "data:" line that was
// never followed by a newline is still a complete line.
func (r *Reassembler) Flush() (string, bool) {
	if len(r.pending) == 0 {
		return "", false
	}
	line := string(r.pending)
	r.pending = nil
	return extractData(line)
}

// extractData returns the trimmed payload of a "data:" line, or ok=false for
// everything else (comments, other SSE fields, blanks, the [DONE] marker).
func extractData(line string) (string, bool) {
	line = strings.TrimSuffix(line, "\r")
	if !strings.HasPrefix(line, dataPrefix) {
		return "", false
	}
	payload := strings.TrimSpace(line[len(dataPrefix):])
	if payload == "" || payload == doneMarker {
		return "", false
	}
	return payload, true
}
