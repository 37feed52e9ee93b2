package terminal

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/hinshun/vt10x"
)

// Color is a cell color: the terminal default, a palette index, or RGB.
type Color uint32

const (
	// ColorDefault selects the surface's default color.
	ColorDefault Color = 1 << 31
	colorRGBFlag Color = 1 << 30
)

// PaletteColor returns the 256-color palette entry i.
func PaletteColor(i uint8) Color { return Color(i) }

// RGBColor returns a true color.
func RGBColor(r, g, b uint8) Color {
	return colorRGBFlag | Color(r)<<16 | Color(g)<<8 | Color(b)
}

func (c Color) IsDefault() bool { return c == ColorDefault }
func (c Color) IsRGB() bool     { return c != ColorDefault && c&colorRGBFlag != 0 }

// Index returns the palette index of a non-RGB color.
func (c Color) Index() uint8 { return uint8(c) }

// RGB returns the components of a true color.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// CellAttrs is a bit set of text attributes.
type CellAttrs uint8

const (
	AttrBold CellAttrs = 1 << iota
	AttrUnderline
	AttrReverse
	AttrItalic
	AttrBlink
)

// CellStyle is the visual style of one cell.
type CellStyle struct {
	FG    Color
	BG    Color
	Attrs CellAttrs
}

// Glyph mode bits as defined by vt10x, which does not export them.
const (
	vtAttrReverse int16 = 1 << iota
	vtAttrUnderline
	vtAttrBold
	vtAttrGfx
	vtAttrItalic
	vtAttrBlink
)

// Screen is the emulated terminal the PTY output is written into.
// Output ingestion and resizes take the write lock; rendering takes the read lock.
type Screen struct {
	mu   sync.RWMutex
	vt   vt10x.Terminal
	size Size
	// partial holds an incomplete UTF-8 sequence from the end of the last write.
	partial []byte
}

// NewScreen creates an emulated screen with the given size.
func NewScreen(size Size) *Screen {
	size = clampTerminalSize(size)
	return &Screen{
		vt:   vt10x.New(vt10x.WithSize(int(size.Cols), int(size.Rows))),
		size: size,
	}
}

// Write feeds raw child output through the emulator. It implements io.Writer.
// A multi-byte character split across writes is held back until the rest
// arrives.
func (s *Screen) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := p
	if len(s.partial) > 0 {
		data = append(s.partial, p...)
		s.partial = nil
	}

	cut := incompleteTail(data)
	if cut < len(data) {
		s.partial = append([]byte(nil), data[cut:]...)
	}
	if _, err := s.vt.Write(data[:cut]); err != nil {
		return 0, err
	}
	return len(p), nil
}

// incompleteTail returns the offset of a trailing UTF-8 sequence that is
// missing bytes, or len(data) when the data ends on a rune boundary.
func incompleteTail(data []byte) int {
	for i := len(data) - 1; i >= 0 && i >= len(data)-utf8.UTFMax+1; i-- {
		if !utf8.RuneStart(data[i]) {
			continue
		}
		if !utf8.FullRune(data[i:]) {
			return i
		}
		break
	}
	return len(data)
}

// Resize changes the emulated dimensions.
func (s *Screen) Resize(size Size) {
	size = clampTerminalSize(size)

	s.mu.Lock()
	defer s.mu.Unlock()
	if size == s.size {
		return
	}
	s.size = size
	s.vt.Resize(int(size.Cols), int(size.Rows))
}

// Size returns the emulated dimensions.
func (s *Screen) Size() Size {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

// Render draws the screen into frame, clipped to rect.
func (s *Screen) Render(frame Frame, rect Rect) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cols := min(int(s.size.Cols), rect.Width)
	rows := min(int(s.size.Rows), rect.Height)

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			g := s.vt.Cell(x, y)
			ch := g.Char
			if ch == 0 {
				ch = ' '
			}
			frame.SetCell(rect.X+x, rect.Y+y, ch, glyphStyle(g))
		}
	}

	cur := s.vt.Cursor()
	visible := s.vt.CursorVisible() && cur.X < cols && cur.Y < rows
	frame.SetCursor(rect.X+cur.X, rect.Y+cur.Y, visible)
}

// Text returns the screen content with trailing blanks trimmed from each line
// and trailing empty lines removed.
func (s *Screen) Text() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines := make([]string, 0, s.size.Rows)
	for y := 0; y < int(s.size.Rows); y++ {
		var row strings.Builder
		for x := 0; x < int(s.size.Cols); x++ {
			ch := s.vt.Cell(x, y).Char
			if ch == 0 {
				ch = ' '
			}
			row.WriteRune(ch)
		}
		lines = append(lines, strings.TrimRight(row.String(), " "))
	}

	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func glyphStyle(g vt10x.Glyph) CellStyle {
	style := CellStyle{
		FG: convertColor(g.FG),
		BG: convertColor(g.BG),
	}
	if g.Mode&vtAttrBold != 0 {
		style.Attrs |= AttrBold
	}
	if g.Mode&vtAttrUnderline != 0 {
		style.Attrs |= AttrUnderline
	}
	// vt10x already swaps colors for reverse video; only default-on-default
	// cells still need the surface to reverse them.
	if g.Mode&vtAttrReverse != 0 && style.FG.IsDefault() && style.BG.IsDefault() {
		style.Attrs |= AttrReverse
	}
	if g.Mode&vtAttrItalic != 0 {
		style.Attrs |= AttrItalic
	}
	if g.Mode&vtAttrBlink != 0 {
		style.Attrs |= AttrBlink
	}
	return style
}

// convertColor maps vt10x colors: palette indexes below 256, packed RGB below
// 1<<24, and the default markers above.
func convertColor(c vt10x.Color) Color {
	switch {
	case c >= vt10x.DefaultFG:
		return ColorDefault
	case c < 256:
		return PaletteColor(uint8(c))
	default:
		return RGBColor(uint8(c>>16), uint8(c>>8), uint8(c))
	}
}
