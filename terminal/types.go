package terminal

import (
	"context"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"
)

// Size describes terminal dimensions in character cells.
type Size struct {
	Rows uint16
	Cols uint16
}

// NewSize returns a Size with the provided rows and columns.
func NewSize(rows, cols uint16) Size {
	return Size{Rows: rows, Cols: cols}
}

// Rect is a viewport rectangle in surface coordinates.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Event is a terminal event delivered by a Surface.
type Event interface {
	isEvent()
}

// ResizeEvent reports a new surface size.
type ResizeEvent struct {
	Size Size
}

// FocusEvent reports focus gained or lost. The render loop ignores it.
type FocusEvent struct {
	Focused bool
}

// PasteEvent carries pasted input, already encoded as the bytes to send.
type PasteEvent struct {
	Text string
}

func (KeyEvent) isEvent()    {}
func (ResizeEvent) isEvent() {}
func (FocusEvent) isEvent()  {}
func (PasteEvent) isEvent()  {}

// Frame receives the cells of one rendered screen.
type Frame interface {
	SetCell(x, y int, ch rune, style CellStyle)
	SetCursor(x, y int, visible bool)
}

// Surface is the rendering surface a Session draws onto and reads events from.
// Implementations own raw mode and alternate screen handling.
type Surface interface {
	Size() (Size, error)
	Draw(render func(Frame)) error
	// PollEvent waits at most timeout for an event. A nil event means none arrived.
	PollEvent(timeout time.Duration) (Event, error)
}

// CommandSpec is the external program run inside the PTY.
type CommandSpec struct {
	Program string
	Args    []string
	Dir     string
	Env     []string
}

// CaptureOutcome summarizes what happened to a candidate password.
type CaptureOutcome int

const (
	// OutcomeNoCandidate means no candidate password was supplied.
	OutcomeNoCandidate CaptureOutcome = iota
	// OutcomePending means a candidate was supplied but no prompt was seen.
	OutcomePending
	// OutcomeInjected means the candidate was sent and no verdict has arrived yet.
	OutcomeInjected
	// OutcomeAccepted means the candidate was sent and not rejected.
	OutcomeAccepted
	// OutcomeRejected means the child reported an authentication failure.
	OutcomeRejected
)

func (o CaptureOutcome) String() string {
	switch o {
	case OutcomeNoCandidate:
		return "no-candidate"
	case OutcomePending:
		return "pending"
	case OutcomeInjected:
		return "injected"
	case OutcomeAccepted:
		return "accepted"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Session drives one child process attached to a PTY.
type Session struct {
	ID        string
	Command   CommandSpec
	CreatedAt time.Time

	ptmx *os.File
	cmd  *exec.Cmd

	screen     *Screen
	transcript *Transcript
	capture    *passwordCapture
	outcome    atomic.Int32

	input chan inputChunk
	done  chan struct{}

	closeOnce    sync.Once
	finishOnce   sync.Once
	ptyCloseOnce sync.Once
	closing      atomic.Bool

	mu      sync.RWMutex
	err     error
	exitErr error

	readerDone   chan struct{}
	writerDone   chan struct{}
	procWaitDone chan struct{}

	ctx    context.Context
	cancel context.CancelFunc

	config Config
}

// inputChunk is one queued write to the PTY master.
type inputChunk struct {
	data []byte
	// mirror controls whether the bytes are copied into the transcript.
	mirror bool
}
