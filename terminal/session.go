package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/creack/pty"
)

// ErrSessionClosed is returned when input is sent to a session that has ended.
var ErrSessionClosed = errors.New("session is closed")

// NewSession allocates a PTY of the requested size, starts spec on its slave
// side, and starts the output reader and input writer. A nil candidate
// disables password injection; the session then only watches for a password
// the user types.
func NewSession(size Size, spec CommandSpec, candidate *string, cfg Config) (*Session, error) {
	if err := validateTerminalSize(size); err != nil {
		return nil, err
	}

	s := newSession(size, spec, candidate, cfg)

	base, err := s.config.EnvProvider.BuildEnv(spec)
	if err != nil {
		s.config.Logger.Warn("Env provider failed", "error", err)
		base = os.Environ()
	}

	cmd, err := buildCommand(spec, childEnv(base, spec, s.config.TerminalEnv), s.config.Logger)
	if err != nil {
		s.cancel()
		return nil, fmt.Errorf("failed to build command: %w", err)
	}

	// The slave side is closed in this process once the child holds it.
	ptmx, err := pty.StartWithSize(cmd, buildWinSize(size))
	if err != nil {
		s.cancel()
		return nil, fmt.Errorf("failed to start PTY: %w", err)
	}

	s.ptmx = ptmx
	s.cmd = cmd

	go s.readPTYOutput(ptmx)
	go s.writePTYInput(ptmx)
	go s.waitProcessExit(cmd)

	s.config.Logger.Info("Started PTY session", "sessionID", s.ID, "program", spec.Program,
		"cols", size.Cols, "rows", size.Rows, "candidate", candidate != nil)
	return s, nil
}

// newSession builds the shared state without starting any goroutine.
func newSession(size Size, spec CommandSpec, candidate *string, cfg Config) *Session {
	cfg = cfg.applyDefaults()
	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		ID:           generateSessionID(),
		Command:      spec,
		CreatedAt:    time.Now(),
		screen:       NewScreen(size),
		transcript:   NewTranscript(),
		capture:      newPasswordCapture(candidate, cfg.Markers),
		input:        make(chan inputChunk, cfg.InputQueueSize),
		done:         make(chan struct{}),
		readerDone:   make(chan struct{}),
		writerDone:   make(chan struct{}),
		procWaitDone: make(chan struct{}),
		ctx:          ctx,
		cancel:       cancel,
		config:       cfg,
	}
	s.outcome.Store(int32(s.capture.Outcome()))
	return s
}

func (s *Session) readPTYOutput(r io.Reader) {
	defer close(s.readerDone)
	s.config.Logger.Debug("Starting PTY output reader", "sessionID", s.ID)

	buffer := make([]byte, s.config.ReadChunkSize)
	for {
		n, err := r.Read(buffer)
		if n > 0 {
			if perr := s.processOutput(buffer[:n]); perr != nil {
				s.fail(perr)
				return
			}
		}
		if err != nil {
			if !s.isEndOfStream(err) {
				s.fail(fmt.Errorf("read PTY: %w", err))
				return
			}
			s.config.Logger.Debug("PTY read finished", "sessionID", s.ID, "error", err)
			break
		}
		if n == 0 {
			break
		}
	}

	// Give the render loop a moment to draw the final bytes.
	time.Sleep(s.config.DrainDelay)
	s.finish()
}

// processOutput runs one chunk through the transcript, the password capture
// state machine, and the screen.
func (s *Session) processOutput(chunk []byte) error {
	text := decodeLossy(chunk)
	s.transcript.Append(text, s.config.OutputTranscriptLimit)

	decision := s.capture.Observe(text)
	s.outcome.Store(int32(s.capture.Outcome()))

	if decision.inject != nil {
		s.config.Logger.Info("Password prompt detected, sending cached password", "sessionID", s.ID)
		if err := s.enqueue(s.ctx, inputChunk{data: decision.inject}); err != nil {
			s.config.Logger.Warn("Dropped cached password", "sessionID", s.ID, "error", err)
		}
	}

	var err error
	switch decision.action {
	case forwardRaw:
		_, err = s.screen.Write(chunk)
	case forwardNotice:
		s.config.Logger.Warn("Cached password was rejected", "sessionID", s.ID)
		_, err = s.screen.Write(decision.notice)
	case skipChunk:
	}
	if err != nil {
		return fmt.Errorf("write screen: %w", err)
	}
	return nil
}

func (s *Session) writePTYInput(w io.Writer) {
	defer close(s.writerDone)

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-s.done:
			return
		case chunk := <-s.input:
			// Mirror first so the child's reply lands after the typed line.
			if chunk.mirror {
				s.transcript.Append(decodeLossy(chunk.data), s.config.InputTranscriptLimit)
			}
			if _, err := w.Write(chunk.data); err != nil {
				if s.closing.Load() {
					return
				}
				s.fail(fmt.Errorf("write PTY: %w", err))
				return
			}
		}
	}
}

func (s *Session) waitProcessExit(cmd *exec.Cmd) {
	err := cmd.Wait()

	s.mu.Lock()
	s.exitErr = err
	s.mu.Unlock()
	close(s.procWaitDone)

	s.config.Logger.Info("Child process exited", "sessionID", s.ID, "error", err)

	// Grandchildren can keep the slave open; do not let them pin the session.
	select {
	case <-s.readerDone:
	case <-time.After(s.config.ExitGrace):
		s.config.Logger.Debug("Output still open after child exit, closing PTY", "sessionID", s.ID)
		s.closePTY()
	}
}

// Resize updates the emulated screen and the PTY to size.
func (s *Session) Resize(size Size) error {
	size = clampTerminalSize(size)
	s.screen.Resize(size)

	if s.ptmx == nil || s.closing.Load() {
		return ErrSessionClosed
	}
	if err := pty.Setsize(s.ptmx, buildWinSize(size)); err != nil {
		return fmt.Errorf("failed to resize PTY: %w", err)
	}

	s.config.Logger.Debug("PTY resized", "sessionID", s.ID, "cols", size.Cols, "rows", size.Rows)
	return nil
}

// SendKey encodes ev and queues it for the child. It blocks while the input
// queue is full. Keys without an encoding are ignored.
func (s *Session) SendKey(ctx context.Context, ev KeyEvent) error {
	data := EncodeKey(ev)
	if len(data) == 0 {
		return nil
	}
	return s.enqueue(ctx, inputChunk{data: data, mirror: true})
}

// SendBytes queues raw input for the child, for example pasted text.
func (s *Session) SendBytes(ctx context.Context, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	owned := append([]byte(nil), data...)
	return s.enqueue(ctx, inputChunk{data: owned, mirror: true})
}

func (s *Session) enqueue(ctx context.Context, chunk inputChunk) error {
	if s.finished() {
		return ErrSessionClosed
	}

	select {
	case s.input <- chunk:
		return nil
	case <-s.done:
		return ErrSessionClosed
	case <-s.ctx.Done():
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the child and releases the PTY. It is safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()

		if s.cmd != nil && s.cmd.Process != nil {
			select {
			case <-s.procWaitDone:
			default:
				if err := s.cmd.Process.Signal(syscall.SIGTERM); err != nil {
					s.config.Logger.Debug("Failed to send SIGTERM", "sessionID", s.ID, "error", err)
				}
				select {
				case <-s.procWaitDone:
				case <-time.After(2 * time.Second):
					s.config.Logger.Debug("Force killing process", "sessionID", s.ID)
					_ = s.cmd.Process.Kill()
					select {
					case <-s.procWaitDone:
					case <-time.After(2 * time.Second):
					}
				}
			}
		}

		s.closePTY()
		s.finish()
		s.config.Logger.Info("Closed session", "sessionID", s.ID)
	})
	return nil
}

func (s *Session) closePTY() {
	s.ptyCloseOnce.Do(func() {
		s.closing.Store(true)
		if s.ptmx != nil {
			_ = s.ptmx.Close()
		}
	})
}

// finish marks the session as ended. Only the first call has an effect.
func (s *Session) finish() {
	s.finishOnce.Do(func() {
		stats := s.transcript.Stats()
		s.config.Logger.Debug("Session ended", "sessionID", s.ID,
			"transcriptBytes", stats.Bytes, "transcriptAppends", stats.Appends, "droppedBytes", stats.DroppedBytes)
		close(s.done)
	})
}

// fail records err as the session error, unless the session already ended,
// and ends the session.
func (s *Session) fail(err error) {
	select {
	case <-s.done:
		s.config.Logger.Debug("Ignoring error after session end", "sessionID", s.ID, "error", err)
		return
	default:
	}

	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.mu.Unlock()

	s.config.Logger.Error("Session failed", "sessionID", s.ID, "error", err)
	s.finish()
}

func (s *Session) isEndOfStream(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, os.ErrClosed) ||
		isEIO(err) ||
		s.closing.Load()
}

// Done is closed once the session has ended.
func (s *Session) Done() <-chan struct{} { return s.done }

// Err returns the fatal error that ended the session, if any.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// ExitErr returns the child's exit error once it has been reaped.
func (s *Session) ExitErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.exitErr
}

// Screen returns the emulated screen.
func (s *Session) Screen() *Screen { return s.screen }

// Transcript returns the bounded session transcript.
func (s *Session) Transcript() *Transcript { return s.transcript }

// PasswordOutcome reports what happened to the candidate password so far.
func (s *Session) PasswordOutcome() CaptureOutcome {
	return CaptureOutcome(s.outcome.Load())
}

// CapturedPassword extracts a typed password from the transcript, or "".
func (s *Session) CapturedPassword() string {
	return ExtractPassword(s.transcript.String(), s.config.Markers, s.config.TranscriptFilter)
}

func decodeLossy(data []byte) string {
	return strings.ToValidUTF8(string(data), "�")
}
