// Package tui implements terminal.Surface on top of tcell.
package tui

import (
	"errors"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/floegence/fssh/terminal"
)

// ErrClosed is returned by PollEvent once the screen has been finalized.
var ErrClosed = errors.New("tui surface is closed")

// Surface draws terminal frames on a tcell screen and converts its events.
// tcell puts the terminal into raw mode and the alternate screen on Init and
// restores both on Fini.
type Surface struct {
	screen tcell.Screen
	events chan tcell.Event
	quit   chan struct{}

	closeOnce sync.Once
	mu        sync.Mutex

	// Keys between paste start and end are collected here. Only PollEvent
	// touches them.
	pasting bool
	paste   []byte
}

// New opens the controlling terminal.
func New() (*Surface, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewWithScreen(screen)
}

// NewWithScreen initializes screen and starts forwarding its events.
func NewWithScreen(screen tcell.Screen) (*Surface, error) {
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnablePaste()

	s := &Surface{
		screen: screen,
		events: make(chan tcell.Event, 64),
		quit:   make(chan struct{}),
	}
	go s.pump()
	return s, nil
}

func (s *Surface) pump() {
	defer close(s.events)
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case s.events <- ev:
		case <-s.quit:
			return
		}
	}
}

// Size returns the screen size in cells.
func (s *Surface) Size() (terminal.Size, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, h := s.screen.Size()
	return terminal.NewSize(clampDim(h), clampDim(w)), nil
}

// Draw clears the back buffer, lets render fill it, and shows the result.
func (s *Surface) Draw(render func(terminal.Frame)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.quit:
		return ErrClosed
	default:
	}

	s.screen.Clear()
	render(&frame{screen: s.screen})
	s.screen.Show()
	return nil
}

// PollEvent waits up to timeout for the next event it can translate.
func (s *Surface) PollEvent(timeout time.Duration) (terminal.Event, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case ev, ok := <-s.events:
			if !ok {
				return nil, ErrClosed
			}
			if converted := s.translate(ev); converted != nil {
				return converted, nil
			}
		case <-timer.C:
			return nil, nil
		}
	}
}

// translate converts ev, folding the keys of a bracketed paste into a single
// PasteEvent delivered when the paste ends.
func (s *Surface) translate(ev tcell.Event) terminal.Event {
	switch e := ev.(type) {
	case *tcell.EventPaste:
		if e.Start() {
			s.pasting = true
			s.paste = s.paste[:0]
			return nil
		}
		if !s.pasting {
			return nil
		}
		s.pasting = false
		if len(s.paste) == 0 {
			return nil
		}
		text := string(s.paste)
		s.paste = s.paste[:0]
		return terminal.PasteEvent{Text: text}
	case *tcell.EventKey:
		if s.pasting {
			if key, ok := convertKey(e); ok {
				s.paste = append(s.paste, terminal.EncodeKey(key)...)
			}
			return nil
		}
	}
	return convertEvent(ev)
}

// Close restores the terminal.
func (s *Surface) Close() {
	s.closeOnce.Do(func() {
		close(s.quit)
		s.mu.Lock()
		defer s.mu.Unlock()
		s.screen.Fini()
	})
}

// frame writes cells into the tcell back buffer. A wide rune covers the cell
// to its right, so the blank the emulator keeps there is not drawn.
type frame struct {
	screen tcell.Screen
	wideX  int
	wideY  int
	wide   bool
}

func (f *frame) SetCell(x, y int, ch rune, style terminal.CellStyle) {
	if f.wide && f.wideY == y && f.wideX+1 == x && (ch == ' ' || ch == 0) {
		f.wide = false
		return
	}
	f.wide = runewidth.RuneWidth(ch) == 2
	f.wideX, f.wideY = x, y
	f.screen.SetContent(x, y, ch, nil, convertStyle(style))
}

func (f *frame) SetCursor(x, y int, visible bool) {
	if !visible {
		f.screen.HideCursor()
		return
	}
	f.screen.ShowCursor(x, y)
}

func clampDim(v int) uint16 {
	switch {
	case v < 0:
		return 0
	case v > 0xffff:
		return 0xffff
	default:
		return uint16(v)
	}
}
