package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/floegence/fssh/terminal"
)

// convertEvent maps tcell events to terminal events. Events the session has no
// use for yield nil.
func convertEvent(ev tcell.Event) terminal.Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		key, ok := convertKey(e)
		if !ok {
			return nil
		}
		return key
	case *tcell.EventResize:
		w, h := e.Size()
		return terminal.ResizeEvent{Size: terminal.NewSize(clampDim(h), clampDim(w))}
	case *tcell.EventFocus:
		return terminal.FocusEvent{Focused: e.Focused}
	default:
		return nil
	}
}

var namedKeys = map[tcell.Key]terminal.KeyCode{
	tcell.KeyEnter:      terminal.KeyEnter,
	tcell.KeyTab:        terminal.KeyTab,
	tcell.KeyBacktab:    terminal.KeyBackTab,
	tcell.KeyBackspace:  terminal.KeyBackspace,
	tcell.KeyBackspace2: terminal.KeyBackspace,
	tcell.KeyEscape:     terminal.KeyEscape,
	tcell.KeyUp:         terminal.KeyUp,
	tcell.KeyDown:       terminal.KeyDown,
	tcell.KeyLeft:       terminal.KeyLeft,
	tcell.KeyRight:      terminal.KeyRight,
	tcell.KeyHome:       terminal.KeyHome,
	tcell.KeyEnd:        terminal.KeyEnd,
	tcell.KeyPgUp:       terminal.KeyPageUp,
	tcell.KeyPgDn:       terminal.KeyPageDown,
	tcell.KeyDelete:     terminal.KeyDelete,
	tcell.KeyInsert:     terminal.KeyInsert,
	tcell.KeyF1:         terminal.KeyF1,
	tcell.KeyF2:         terminal.KeyF2,
	tcell.KeyF3:         terminal.KeyF3,
	tcell.KeyF4:         terminal.KeyF4,
	tcell.KeyF5:         terminal.KeyF5,
	tcell.KeyF6:         terminal.KeyF6,
	tcell.KeyF7:         terminal.KeyF7,
	tcell.KeyF8:         terminal.KeyF8,
	tcell.KeyF9:         terminal.KeyF9,
	tcell.KeyF10:        terminal.KeyF10,
	tcell.KeyF11:        terminal.KeyF11,
	tcell.KeyF12:        terminal.KeyF12,
}

// convertKey maps a tcell key event. Control keys become the letter or symbol
// they were typed with plus ModCtrl, so the encoder produces the control byte.
func convertKey(e *tcell.EventKey) (terminal.KeyEvent, bool) {
	mod := convertMod(e.Modifiers())
	k := e.Key()

	if k == tcell.KeyRune {
		return terminal.KeyEvent{Code: terminal.KeyRune, Rune: e.Rune(), Mod: mod}, true
	}
	if code, ok := namedKeys[k]; ok {
		// tcell reports Ctrl on keys that are themselves control characters.
		if k == tcell.KeyBackspace || k == tcell.KeyTab || k == tcell.KeyEnter || k == tcell.KeyEscape {
			mod &^= terminal.ModCtrl
		}
		return terminal.KeyEvent{Code: code, Mod: mod}, true
	}

	ctrl := mod | terminal.ModCtrl
	switch {
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return terminal.KeyEvent{Code: terminal.KeyRune, Rune: 'a' + rune(k-tcell.KeyCtrlA), Mod: ctrl}, true
	case k == tcell.KeyCtrlSpace:
		return terminal.KeyEvent{Code: terminal.KeyRune, Rune: ' ', Mod: ctrl}, true
	case k == tcell.KeyCtrlBackslash:
		return terminal.KeyEvent{Code: terminal.KeyRune, Rune: '\\', Mod: ctrl}, true
	case k == tcell.KeyCtrlRightSq:
		return terminal.KeyEvent{Code: terminal.KeyRune, Rune: ']', Mod: ctrl}, true
	case k == tcell.KeyCtrlCarat:
		return terminal.KeyEvent{Code: terminal.KeyRune, Rune: '^', Mod: ctrl}, true
	case k == tcell.KeyCtrlUnderscore:
		return terminal.KeyEvent{Code: terminal.KeyRune, Rune: '_', Mod: ctrl}, true
	default:
		return terminal.KeyEvent{}, false
	}
}

func convertMod(m tcell.ModMask) terminal.Modifiers {
	var result terminal.Modifiers
	if m&tcell.ModShift != 0 {
		result |= terminal.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= terminal.ModCtrl
	}
	if m&(tcell.ModAlt|tcell.ModMeta) != 0 {
		result |= terminal.ModAlt
	}
	return result
}

func convertStyle(s terminal.CellStyle) tcell.Style {
	style := tcell.StyleDefault.
		Foreground(convertColor(s.FG)).
		Background(convertColor(s.BG))

	if s.Attrs&terminal.AttrBold != 0 {
		style = style.Bold(true)
	}
	if s.Attrs&terminal.AttrUnderline != 0 {
		style = style.Underline(true)
	}
	if s.Attrs&terminal.AttrReverse != 0 {
		style = style.Reverse(true)
	}
	if s.Attrs&terminal.AttrItalic != 0 {
		style = style.Italic(true)
	}
	if s.Attrs&terminal.AttrBlink != 0 {
		style = style.Blink(true)
	}
	return style
}

func convertColor(c terminal.Color) tcell.Color {
	switch {
	case c.IsDefault():
		return tcell.ColorDefault
	case c.IsRGB():
		r, g, b := c.RGB()
		return tcell.NewRGBColor(int32(r), int32(g), int32(b))
	default:
		return tcell.PaletteColor(int(c.Index()))
	}
}
