package terminal

import (
	"context"
	"errors"
	"fmt"
)

// Run is the foreground render loop. It draws the screen onto surface,
// forwards key and paste events to the child and applies resizes until the session
// ends or ctx is cancelled.
//
// On a normal end it returns the password the user typed at the last prompt
// before a successful login, or "" when none was captured. A fatal
// background error is returned instead.
func (s *Session) Run(ctx context.Context, surface Surface) (string, error) {
	size, err := surface.Size()
	if err != nil {
		return "", fmt.Errorf("failed to read surface size: %w", err)
	}
	viewport := Rect{Width: int(size.Cols), Height: int(size.Rows)}
	if clampTerminalSize(size) != s.screen.Size() {
		if err := s.Resize(size); err != nil && !errors.Is(err, ErrSessionClosed) {
			return "", err
		}
	}

	render := func(frame Frame) {
		s.screen.Render(frame, viewport)
	}

	for {
		select {
		case <-s.done:
			return s.result()
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		if err := surface.Draw(render); err != nil {
			return "", fmt.Errorf("failed to draw: %w", err)
		}

		ev, err := surface.PollEvent(s.config.PollInterval)
		if err != nil {
			return "", fmt.Errorf("failed to poll events: %w", err)
		}

		switch ev := ev.(type) {
		case KeyEvent:
			if err := s.SendKey(ctx, ev); err != nil && !errors.Is(err, ErrSessionClosed) {
				return "", err
			}
		case PasteEvent:
			if err := s.SendBytes(ctx, []byte(ev.Text)); err != nil && !errors.Is(err, ErrSessionClosed) {
				return "", err
			}
		case ResizeEvent:
			viewport = Rect{Width: int(ev.Size.Cols), Height: int(ev.Size.Rows)}
			if err := s.Resize(ev.Size); err != nil && !errors.Is(err, ErrSessionClosed) && !s.finished() {
				return "", err
			}
		}
	}
}

func (s *Session) result() (string, error) {
	if err := s.Err(); err != nil {
		return "", err
	}
	return s.CapturedPassword(), nil
}

func (s *Session) finished() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
