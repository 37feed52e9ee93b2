package selector

import (
	"errors"

	"github.com/gdamore/tcell/v2"

	"github.com/floegence/fssh/internal/sshconfig"
)

// ErrNoTargets is returned when there is nothing to choose from.
var ErrNoTargets = errors.New("no ssh hosts with a HostName found")

// Select shows targets on screen until the user picks one or quits. The
// screen must already be initialized; ok is false when the user quit.
func Select(screen tcell.Screen, targets []sshconfig.Target) (target sshconfig.Target, ok bool, err error) {
	if len(targets) == 0 {
		return sshconfig.Target{}, false, ErrNoTargets
	}

	m := NewModel(targets)
	for {
		Draw(screen, m)

		switch ev := screen.PollEvent().(type) {
		case nil:
			return sshconfig.Target{}, false, nil
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			switch m.HandleKey(ev.Key(), ev.Rune()) {
			case ActionSelect:
				target, ok := m.Selected()
				return target, ok, nil
			case ActionQuit:
				return sshconfig.Target{}, false, nil
			}
		}
	}
}

// HandleKey applies one key to the model.
func (m *Model) HandleKey(key tcell.Key, r rune) Action {
	switch key {
	case tcell.KeyUp:
		m.Up()
		return ActionNone
	case tcell.KeyDown:
		m.Down()
		return ActionNone
	case tcell.KeyEnter:
		if _, ok := m.Selected(); ok {
			return ActionSelect
		}
		return ActionNone
	case tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyEscape:
		if m.mode == ModeSearch {
			m.CancelSearch()
			return ActionNone
		}
		return ActionQuit
	}

	if m.mode == ModeNormal {
		if key == tcell.KeyRune && r == '/' {
			m.StartSearch()
		}
		return ActionNone
	}

	switch key {
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		m.Backspace()
	case tcell.KeyRune:
		m.Type(r)
	}
	return ActionNone
}
