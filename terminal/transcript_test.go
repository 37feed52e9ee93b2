package terminal

import (
	"strings"
	"sync"
	"testing"
)

func TestTranscriptAppendRespectsLimit(t *testing.T) {
	tr := NewTranscript()

	if !tr.Append("hello", 8) {
		t.Fatalf("expected first append to be kept")
	}
	// Below the limit the whole chunk is kept, even if it overshoots.
	if !tr.Append(" world", 8) {
		t.Fatalf("expected second append to be kept")
	}
	if tr.Append("!", 8) {
		t.Fatalf("expected append past the limit to be dropped")
	}
	if got := tr.String(); got != "hello world" {
		t.Fatalf("unexpected transcript %q", got)
	}

	// A larger limit keeps accepting text after a smaller one stopped.
	if !tr.Append("?", 4096) {
		t.Fatalf("expected append under the larger limit to be kept")
	}

	stats := tr.Stats()
	if stats.Bytes != len("hello world?") || stats.Appends != 3 || stats.DroppedBytes != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestTranscriptIgnoresEmptyText(t *testing.T) {
	tr := NewTranscript()
	if tr.Append("", 10) {
		t.Fatalf("empty append must report false")
	}
	if tr.Len() != 0 {
		t.Fatalf("expected empty transcript")
	}
}

func TestTranscriptConcurrentAppends(t *testing.T) {
	tr := NewTranscript()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tr.Append("x", 4096)
			}
		}()
	}
	wg.Wait()

	if got := tr.String(); got != strings.Repeat("x", 800) {
		t.Fatalf("expected 800 bytes, got %d", len(got))
	}
}
