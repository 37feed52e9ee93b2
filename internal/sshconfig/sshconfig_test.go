package sshconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sample = `
Host *
    ServerAliveInterval 30

Host web web-alias
    HostName 10.0.0.5
    User deploy

Host db
    HostName db.internal

Host nohostname
    User nobody

Host jump-*
    HostName bastion.example.com

Host web
    HostName 192.168.1.1
`

func TestParse(t *testing.T) {
	targets, err := Parse(strings.NewReader(sample), "alice")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	want := []Target{
		{Host: "web", User: "deploy", HostName: "10.0.0.5"},
		{Host: "web-alias", User: "deploy", HostName: "10.0.0.5"},
		{Host: "db", User: "alice", HostName: "db.internal"},
	}
	if len(targets) != len(want) {
		t.Fatalf("expected %d targets, got %+v", len(want), targets)
	}
	for i := range want {
		if targets[i] != want[i] {
			t.Fatalf("target %d: expected %+v, got %+v", i, want[i], targets[i])
		}
	}
}

func TestLoadFileMissing(t *testing.T) {
	targets, err := LoadFile(filepath.Join(t.TempDir(), "config"), "alice")
	if err != nil {
		t.Fatalf("missing config should not fail: %v", err)
	}
	if len(targets) != 0 {
		t.Fatalf("expected no targets, got %+v", targets)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	targets, err := LoadFile(path, "bob")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(targets) != 3 || targets[2].User != "bob" {
		t.Fatalf("unexpected targets %+v", targets)
	}
}

func TestTargetString(t *testing.T) {
	target := Target{Host: "web", User: "deploy", HostName: "10.0.0.5"}
	if got := target.String(); got != "deploy@web (10.0.0.5)" {
		t.Fatalf("unexpected string %q", got)
	}
}
