package selector

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

const (
	infoNormal = "(Esc) quit | (↑) move up | (↓) move down | (Enter) connect | (/) search"
	infoSearch = "(Esc) quit search | (↑) move up | (↓) move down | (Enter) connect"
	searchIcon = "/ "
)

var (
	headerStyle    = tcell.StyleDefault.Bold(true).Underline(true)
	selectedStyle  = tcell.StyleDefault.Reverse(true)
	highlightStyle = tcell.StyleDefault.Foreground(tcell.NewRGBColor(250, 0, 0)).Background(tcell.NewRGBColor(0xff, 0xfc, 0x67)).Bold(true)
	queryStyle     = tcell.StyleDefault.Foreground(tcell.ColorTeal)
)

// Draw renders m onto screen: the table, the search line in search mode,
// and the key help on the last row.
func Draw(screen tcell.Screen, m *Model) {
	screen.Clear()
	width, height := screen.Size()

	widths := columnWidths(m)
	headers := [columnCount]string{"Host", "User", "Hostname"}
	x := 0
	for col, title := range headers {
		drawText(screen, x, 0, width, title, headerStyle)
		x += widths[col] + 1
	}

	rows := m.Rows()
	tableRows := height - 2
	if m.Mode() == ModeSearch {
		tableRows--
	}
	first := 0
	if m.Cursor() >= tableRows && tableRows > 0 {
		first = m.Cursor() - tableRows + 1
	}

	for i := first; i < len(rows) && i-first < tableRows; i++ {
		y := i - first + 1
		base := tcell.StyleDefault
		if i == m.Cursor() {
			base = selectedStyle
			for cx := 0; cx < width; cx++ {
				screen.SetContent(cx, y, ' ', nil, base)
			}
		}
		values := [columnCount]string{rows[i].Target.Host, rows[i].Target.User, rows[i].Target.HostName}
		x := 0
		for col, value := range values {
			drawHighlighted(screen, x, y, width, value, rows[i].Matches[col], base)
			x += widths[col] + 1
		}
	}

	info := infoNormal
	if m.Mode() == ModeSearch {
		info = infoSearch
		line := searchIcon + m.Query()
		end := drawText(screen, 0, height-2, width, line, queryStyle)
		screen.ShowCursor(end, height-2)
	} else {
		screen.HideCursor()
	}
	drawText(screen, max(0, (width-runewidth.StringWidth(info))/2), height-1, width, info, tcell.StyleDefault)

	screen.Show()
}

func columnWidths(m *Model) [columnCount]int {
	widths := [columnCount]int{
		runewidth.StringWidth("Host"),
		runewidth.StringWidth("User"),
		runewidth.StringWidth("Hostname"),
	}
	for _, t := range m.targets {
		widths[ColumnHost] = max(widths[ColumnHost], runewidth.StringWidth(t.Host))
		widths[ColumnUser] = max(widths[ColumnUser], runewidth.StringWidth(t.User))
		widths[ColumnHostName] = max(widths[ColumnHostName], runewidth.StringWidth(t.HostName))
	}
	return widths
}

// drawText writes s from x and returns the column after the last rune.
func drawText(screen tcell.Screen, x, y, limit int, s string, style tcell.Style) int {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if x+w > limit {
			break
		}
		screen.SetContent(x, y, r, nil, style)
		x += w
	}
	return x
}

func drawHighlighted(screen tcell.Screen, x, y, limit int, s string, matches []int, style tcell.Style) {
	hit := make(map[int]struct{}, len(matches))
	for _, idx := range matches {
		hit[idx] = struct{}{}
	}
	for i, r := range s {
		w := runewidth.RuneWidth(r)
		if x+w > limit {
			return
		}
		cellStyle := style
		if _, ok := hit[i]; ok {
			cellStyle = highlightStyle
		}
		screen.SetContent(x, y, r, nil, cellStyle)
		x += w
	}
}
