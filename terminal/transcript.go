package terminal

import (
	"strings"
	"sync"
)

// TranscriptStats captures summary information about a transcript.
type TranscriptStats struct {
	Bytes        int
	Appends      int64
	DroppedBytes int64
}

// Transcript is a bounded, append-only capture of session text.
//
// Each append carries its own limit: text is appended whole while the current
// length is below the limit and dropped once it is reached. Older content is
// never evicted.
type Transcript struct {
	buf     strings.Builder
	appends int64
	dropped int64
	mutex   sync.Mutex
}

// NewTranscript returns an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append adds text if the transcript is shorter than limit. It reports whether
// the text was kept.
func (t *Transcript) Append(text string, limit int) bool {
	if text == "" {
		return false
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.buf.Len() >= limit {
		t.dropped += int64(len(text))
		return false
	}
	t.buf.WriteString(text)
	t.appends++
	return true
}

// String returns the captured text.
func (t *Transcript) String() string {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.buf.String()
}

// Len returns the captured length in bytes.
func (t *Transcript) Len() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.buf.Len()
}

// Stats returns snapshot statistics for the transcript.
func (t *Transcript) Stats() TranscriptStats {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return TranscriptStats{
		Bytes:        t.buf.Len(),
		Appends:      t.appends,
		DroppedBytes: t.dropped,
	}
}
