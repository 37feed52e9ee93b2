// Package selector lets the user pick an ssh target from a fuzzy-filtered table.
package selector

import (
	"sort"

	"github.com/sahilm/fuzzy"

	"github.com/floegence/fssh/internal/sshconfig"
)

// Action is the outcome of handling one key.
type Action int

const (
	ActionNone Action = iota
	ActionSelect
	ActionQuit
)

// Mode is the input mode of the selector.
type Mode int

const (
	// ModeNormal navigates the table.
	ModeNormal Mode = iota
	// ModeSearch edits the filter query.
	ModeSearch
)

// Column indexes into Row.Matches.
const (
	ColumnHost = iota
	ColumnUser
	ColumnHostName
	columnCount
)

// Row is one visible table row with the byte offsets the query matched per column.
type Row struct {
	Target  sshconfig.Target
	Matches [columnCount][]int
}

// Model holds the selector state independent of any screen.
type Model struct {
	targets []sshconfig.Target
	rows    []Row
	query   []rune
	mode    Mode
	cursor  int
}

// NewModel returns a model listing targets in order.
func NewModel(targets []sshconfig.Target) *Model {
	m := &Model{targets: targets}
	m.refilter()
	return m
}

// Rows returns the visible rows.
func (m *Model) Rows() []Row { return m.rows }

// Cursor returns the index of the highlighted row.
func (m *Model) Cursor() int { return m.cursor }

// Mode returns the current input mode.
func (m *Model) Mode() Mode { return m.mode }

// Query returns the current filter text.
func (m *Model) Query() string { return string(m.query) }

// Selected returns the highlighted target.
func (m *Model) Selected() (sshconfig.Target, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return sshconfig.Target{}, false
	}
	return m.rows[m.cursor].Target, true
}

// Up moves the highlight up, wrapping to the last row.
func (m *Model) Up() {
	if len(m.rows) == 0 {
		return
	}
	if m.cursor == 0 {
		m.cursor = len(m.rows) - 1
		return
	}
	m.cursor--
}

// Down moves the highlight down, wrapping to the first row.
func (m *Model) Down() {
	if len(m.rows) == 0 {
		return
	}
	m.cursor = (m.cursor + 1) % len(m.rows)
}

// StartSearch enters search mode with an empty query.
func (m *Model) StartSearch() {
	m.mode = ModeSearch
	m.setQuery(nil)
}

// CancelSearch leaves search mode and shows every target again.
func (m *Model) CancelSearch() {
	m.mode = ModeNormal
	m.setQuery(nil)
}

// Type appends r to the query.
func (m *Model) Type(r rune) {
	m.setQuery(append(m.query, r))
}

// Backspace removes the last rune of the query.
func (m *Model) Backspace() {
	if len(m.query) == 0 {
		return
	}
	m.setQuery(m.query[:len(m.query)-1])
}

func (m *Model) setQuery(q []rune) {
	m.query = q
	m.cursor = 0
	m.refilter()
}

// refilter matches the query against each column separately and keeps a
// target when any column matches, best score first.
func (m *Model) refilter() {
	m.rows = nil
	if len(m.query) == 0 {
		for _, t := range m.targets {
			m.rows = append(m.rows, Row{Target: t})
		}
		return
	}

	pattern := string(m.query)
	type scored struct {
		row   Row
		score int
	}
	var matched []scored
	for _, t := range m.targets {
		var row Row
		row.Target = t
		best, hit := 0, false
		for col, value := range [columnCount]string{t.Host, t.User, t.HostName} {
			found := fuzzy.Find(pattern, []string{value})
			if len(found) == 0 {
				continue
			}
			row.Matches[col] = found[0].MatchedIndexes
			if !hit || found[0].Score > best {
				best = found[0].Score
			}
			hit = true
		}
		if hit {
			matched = append(matched, scored{row: row, score: best})
		}
	}

	sort.SliceStable(matched, func(i, j int) bool { return matched[i].score > matched[j].score })
	for _, s := range matched {
		m.rows = append(m.rows, s.row)
	}
}
