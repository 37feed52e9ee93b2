package selector

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/floegence/fssh/internal/sshconfig"
)

var testTargets = []sshconfig.Target{
	{Host: "web", User: "deploy", HostName: "10.0.0.5"},
	{Host: "web-alias", User: "deploy", HostName: "10.0.0.5"},
	{Host: "db", User: "alice", HostName: "db.internal"},
}

func TestModelNavigationWraps(t *testing.T) {
	m := NewModel(testTargets)

	m.Up()
	if m.Cursor() != 2 {
		t.Fatalf("expected wrap to last row, got %d", m.Cursor())
	}
	m.Down()
	if m.Cursor() != 0 {
		t.Fatalf("expected wrap to first row, got %d", m.Cursor())
	}
	m.Down()
	if got, _ := m.Selected(); got.Host != "web-alias" {
		t.Fatalf("unexpected selection %+v", got)
	}
}

func TestModelSearchFiltersAndSelectsFilteredRow(t *testing.T) {
	m := NewModel(testTargets)

	m.HandleKey(tcell.KeyRune, '/')
	if m.Mode() != ModeSearch {
		t.Fatalf("expected search mode")
	}
	m.HandleKey(tcell.KeyRune, 'd')
	m.HandleKey(tcell.KeyRune, 'b')

	rows := m.Rows()
	if len(rows) != 1 || rows[0].Target.Host != "db" {
		t.Fatalf("unexpected rows %+v", rows)
	}
	if len(rows[0].Matches[ColumnHost]) != 2 {
		t.Fatalf("expected host matches, got %v", rows[0].Matches[ColumnHost])
	}

	if action := m.HandleKey(tcell.KeyEnter, 0); action != ActionSelect {
		t.Fatalf("expected select action, got %v", action)
	}
	if got, _ := m.Selected(); got.Host != "db" {
		t.Fatalf("enter must pick the filtered row, got %+v", got)
	}
}

func TestModelBackspaceAndCancel(t *testing.T) {
	m := NewModel(testTargets)
	m.StartSearch()
	m.Type('z')
	m.Type('z')

	if len(m.Rows()) != 0 {
		t.Fatalf("expected no rows for zz, got %+v", m.Rows())
	}
	if action := m.HandleKey(tcell.KeyEnter, 0); action != ActionNone {
		t.Fatalf("enter with no rows must do nothing, got %v", action)
	}

	m.HandleKey(tcell.KeyBackspace2, 0)
	if m.Query() != "z" {
		t.Fatalf("unexpected query %q", m.Query())
	}

	if action := m.HandleKey(tcell.KeyEscape, 0); action != ActionNone {
		t.Fatalf("escape in search should only leave search, got %v", action)
	}
	if m.Mode() != ModeNormal || len(m.Rows()) != 3 {
		t.Fatalf("expected all rows in normal mode")
	}
	if action := m.HandleKey(tcell.KeyEscape, 0); action != ActionQuit {
		t.Fatalf("escape in normal mode should quit, got %v", action)
	}
}

func TestModelIgnoresTypingInNormalMode(t *testing.T) {
	m := NewModel(testTargets)
	m.HandleKey(tcell.KeyRune, 'x')
	if m.Query() != "" || len(m.Rows()) != 3 {
		t.Fatalf("typing outside search must not filter")
	}
}
