package terminal

// KeyCode identifies a key independent of any terminal library.
type KeyCode int

const (
	KeyUnknown KeyCode = iota
	KeyRune
	KeyEnter
	KeyBackspace
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyTab
	KeyBackTab
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyDelete
	KeyInsert
	KeyEscape
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// Modifiers is a bit set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
)

// KeyEvent is a key press. Rune is only meaningful for KeyRune.
type KeyEvent struct {
	Code KeyCode
	Rune rune
	Mod  Modifiers
}

var namedKeySequences = map[KeyCode][]byte{
	KeyBackspace: {8},
	KeyLeft:      []byte("\x1b[D"),
	KeyRight:     []byte("\x1b[C"),
	KeyUp:        []byte("\x1b[A"),
	KeyDown:      []byte("\x1b[B"),
	KeyTab:       {9},
	KeyHome:      []byte("\x1b[H"),
	KeyEnd:       []byte("\x1b[F"),
	KeyPageUp:    []byte("\x1b[5~"),
	KeyPageDown:  []byte("\x1b[6~"),
	KeyBackTab:   []byte("\x1b[Z"),
	KeyDelete:    []byte("\x1b[3~"),
	KeyInsert:    []byte("\x1b[2~"),
	KeyEscape:    {27},
	KeyF1:        []byte("\x1bOP"),
	KeyF2:        []byte("\x1bOQ"),
	KeyF3:        []byte("\x1bOR"),
	KeyF4:        []byte("\x1bOS"),
	KeyF5:        []byte("\x1b[15~"),
	KeyF6:        []byte("\x1b[17~"),
	KeyF7:        []byte("\x1b[18~"),
	KeyF8:        []byte("\x1b[19~"),
	KeyF9:        []byte("\x1b[20~"),
	KeyF10:       []byte("\x1b[21~"),
	KeyF11:       []byte("\x1b[23~"),
	KeyF12:       []byte("\x1b[24~"),
}

// EncodeKey maps a key press to the bytes a terminal program expects.
// Unrecognized keys encode to nil.
func EncodeKey(ev KeyEvent) []byte {
	var out []byte
	switch ev.Code {
	case KeyRune:
		if ev.Mod&ModCtrl != 0 {
			if b, ok := controlByte(ev.Rune); ok {
				out = []byte{b}
				break
			}
		}
		out = []byte(string(ev.Rune))
	case KeyEnter:
		out = append([]byte(nil), enterSequence...)
	default:
		seq, ok := namedKeySequences[ev.Code]
		if !ok {
			return nil
		}
		out = append([]byte(nil), seq...)
	}

	if ev.Mod&ModAlt != 0 && len(out) > 0 && out[0] != 27 {
		out = append([]byte{27}, out...)
	}
	return out
}

// controlByte returns the C0 control code produced by Ctrl+r.
func controlByte(r rune) (byte, bool) {
	if r >= 'a' && r <= 'z' {
		r -= 'a' - 'A'
	}
	switch r {
	case '2', '@', ' ':
		return 0, true
	case '3', '[':
		return 27, true
	case '4', '\\':
		return 28, true
	case '5', ']':
		return 29, true
	case '6', '^':
		return 30, true
	case '7', '-', '_':
		return 31, true
	case '8', '?':
		return 127, true
	}
	if r >= 'A' && r <= '_' {
		return byte(r) - 64, true
	}
	return 0, false
}
