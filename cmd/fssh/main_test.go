package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pkt.systems/pslog"

	"github.com/floegence/fssh/internal/appconfig"
	"github.com/floegence/fssh/internal/credstore"
	"github.com/floegence/fssh/internal/sshconfig"
)

const testSSHConfig = `
Host web
    HostName 10.0.0.5
    User deploy

Host db
    HostName db.internal
    User alice
`

// setupEnv writes a config pointing at a temp ssh config and store.
func setupEnv(t *testing.T) (cfgPath, storeDir string) {
	t.Helper()
	dir := t.TempDir()
	sshPath := filepath.Join(dir, "ssh_config")
	if err := os.WriteFile(sshPath, []byte(testSSHConfig), 0o600); err != nil {
		t.Fatalf("write ssh config: %v", err)
	}
	storeDir = filepath.Join(dir, "store")
	cfgPath = filepath.Join(dir, "config.yaml")
	content := "config_version: 1\n" +
		"ssh:\n  config_path: " + sshPath + "\n" +
		"store:\n  dir: " + storeDir + "\n" +
		"logging:\n  file: " + filepath.Join(dir, "fssh.log") + "\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return cfgPath, storeDir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	ctx := pslog.ContextWithLogger(context.Background(), pslog.NewWithOptions(&bytes.Buffer{}, pslog.Options{
		Mode:    pslog.ModeStructured,
		NoColor: true,
	}))
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func TestListMarksStoredPasswords(t *testing.T) {
	cfgPath, storeDir := setupEnv(t)

	store, err := credstore.Open(storeDir)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.Put(sshconfig.Target{Host: "db", User: "alice", HostName: "db.internal"}, "pw"); err != nil {
		t.Fatalf("put: %v", err)
	}
	_ = store.Close()

	out, err := execute(t, "-c", cfgPath, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and two hosts, got:\n%s", out)
	}
	if !strings.HasPrefix(lines[1], "web") || !strings.HasSuffix(lines[1], "-") {
		t.Fatalf("unexpected web line %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "db") || !strings.HasSuffix(lines[2], "stored") {
		t.Fatalf("unexpected db line %q", lines[2])
	}
}

func TestForget(t *testing.T) {
	cfgPath, storeDir := setupEnv(t)

	store, err := credstore.Open(storeDir)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.Put(sshconfig.Target{Host: "web", User: "deploy", HostName: "10.0.0.5"}, "pw"); err != nil {
		t.Fatalf("put: %v", err)
	}
	_ = store.Close()

	out, err := execute(t, "-c", cfgPath, "forget", "web")
	if err != nil {
		t.Fatalf("forget: %v", err)
	}
	if !strings.Contains(out, "forgot 1 password(s) for web") {
		t.Fatalf("unexpected output %q", out)
	}

	if _, err := execute(t, "-c", cfgPath, "forget", "web"); err == nil {
		t.Fatalf("expected error when nothing is stored")
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	out, err := execute(t, "-c", path, "config", "init")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if strings.TrimSpace(out) != path {
		t.Fatalf("unexpected output %q", out)
	}
	if _, err := appconfig.Load(path); err != nil {
		t.Fatalf("written config should load: %v", err)
	}

	if _, err := execute(t, "-c", path, "config", "init"); err == nil {
		t.Fatalf("expected error for existing config")
	}
	if _, err := execute(t, "-c", path, "config", "init", "--force"); err != nil {
		t.Fatalf("force overwrite: %v", err)
	}
}

func TestConnectRequiresArgument(t *testing.T) {
	if _, err := execute(t, "connect"); err == nil {
		t.Fatalf("expected argument error")
	}
}
