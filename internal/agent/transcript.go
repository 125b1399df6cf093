package agent

import (
	"fmt"
	"strings"
)

// Transcript is the append-only utterance buffer for one call session.
// Callers must hold the owning session's lock; the type itself is not
// concurrency safe.
type Transcript struct {
	entries []Utterance
}

// Append adds one finalized utterance at the end of the buffer.
func (t *Transcript) Append(u Utterance) {
	t.entries = append(t.entries, u)
}

// Len returns the number of finalized utterances accumulated so far.
func (t *Transcript) Len() int { return len(t.entries) }

// Snapshot copies the current entries. The dispatcher works off a snapshot
// taken at the moment the call finishes; entries arriving later are not
// part of it.
func (t *Transcript) Snapshot() []Utterance {
	out := make([]Utterance, len(t.entries))
	copy(out, t.entries)
	return out
}

// Reset clears the buffer. Only a brand-new call session does this.
func (t *Transcript) Reset() { t.entries = nil }

// FormatTranscript serializes utterances into the single text block the
// grader consumes, one line per utterance, chronological order.
func FormatTranscript(entries []Utterance) string {
	var b strings.Builder
	for _, u := range entries {
		fmt.Fprintf(&b, "- %s: %s\n", u.Role, u.Content)
	}
	return b.String()
}

// HasUserResponse reports whether at least one user utterance has content
// left after trimming whitespace. A transcript without any is not worth
// grading.
func HasUserResponse(entries []Utterance) bool {
	for _, u := range entries {
		if u.Role == RoleUser && strings.TrimSpace(u.Content) != "" {
			return true
		}
	}
	return false
}
