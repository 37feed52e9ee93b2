package appconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def, err := DefaultConfig()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	if cfg.SSH.Binary != "ssh" || cfg.Session.InputQueueSize != 32 || cfg.Store.Dir != def.Store.Dir {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadOverridesAndExpandsEnv(t *testing.T) {
	t.Setenv("FSSH_TEST_DIR", "/tmp/fssh-test")
	path := writeConfig(t, `
config_version: 1
ssh:
  binary: /usr/bin/ssh
  args: ["-o", "ServerAliveInterval=30"]
  env: ["SSH_ASKPASS_REQUIRE=never"]
store:
  dir: $FSSH_TEST_DIR/store
markers:
  prompt: "Passwort: "
session:
  input_queue_size: 8
logging:
  level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SSH.Binary != "/usr/bin/ssh" {
		t.Fatalf("unexpected binary %q", cfg.SSH.Binary)
	}
	if len(cfg.SSH.Args) != 2 || cfg.SSH.Args[1] != "ServerAliveInterval=30" {
		t.Fatalf("unexpected args %v", cfg.SSH.Args)
	}
	if len(cfg.SSH.Env) != 1 || cfg.SSH.Env[0] != "SSH_ASKPASS_REQUIRE=never" {
		t.Fatalf("unexpected env %v", cfg.SSH.Env)
	}
	if cfg.Store.Dir != "/tmp/fssh-test/store" {
		t.Fatalf("expected env expansion, got %q", cfg.Store.Dir)
	}
	if cfg.Markers.Prompt != "Passwort: " || cfg.Markers.Denied != "" {
		t.Fatalf("unexpected markers %+v", cfg.Markers)
	}
	if cfg.Session.InputQueueSize != 8 || cfg.Session.ReadChunkSize != 1024 {
		t.Fatalf("unexpected session config %+v", cfg.Session)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected level %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsUnsupportedConfigVersion(t *testing.T) {
	path := writeConfig(t, `
config_version: 9
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "unsupported config_version") {
		t.Fatalf("expected config_version error, got %v", err)
	}
}

func TestLoadRequiresConfigVersion(t *testing.T) {
	path := writeConfig(t, `
ssh:
  binary: ssh
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "config_version is required") {
		t.Fatalf("expected missing config_version error, got %v", err)
	}
}

func TestLoadRejectsUnknownLogLevel(t *testing.T) {
	path := writeConfig(t, `
config_version: 1
logging:
  level: loud
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "logging.level") {
		t.Fatalf("expected logging.level error, got %v", err)
	}
}

func TestLoadRejectsNegativeSessionValues(t *testing.T) {
	path := writeConfig(t, `
config_version: 1
session:
  read_chunk_size: -1
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadRejectsMalformedSSHEnv(t *testing.T) {
	path := writeConfig(t, `
config_version: 1
ssh:
  env: ["NOEQUALS"]
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "ssh.env") {
		t.Fatalf("expected ssh.env error, got %v", err)
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("FOO", "bar")
	value := expandEnv("$FOO/$MISSING_FSSH_VAR")
	if value != "bar/$MISSING_FSSH_VAR" {
		t.Fatalf("unexpected expansion %q", value)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	if got := expandEnv("~/x"); got != filepath.Join(home, "x") {
		t.Fatalf("expected home expansion, got %q", got)
	}
}

func TestWriteDefaultRespectsOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	written, err := WriteDefault(path, false)
	if err != nil {
		t.Fatalf("write default: %v", err)
	}
	if written != path {
		t.Fatalf("expected path %q, got %q", path, written)
	}
	if _, err := WriteDefault(path, false); err == nil {
		t.Fatalf("expected error when config exists")
	}
	if _, err := WriteDefault(path, true); err != nil {
		t.Fatalf("expected overwrite to succeed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("written default should load: %v", err)
	}
	if cfg.ConfigVersion != CurrentConfigVersion {
		t.Fatalf("unexpected version %d", cfg.ConfigVersion)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(strings.TrimSpace(content)+"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
