package credstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fernet/fernet-go"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/floegence/fssh/internal/sshconfig"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	// Every new connection to :memory: is a fresh database.
	sqlDB.SetMaxOpenConns(1)

	var key fernet.Key
	if err := key.Generate(); err != nil {
		t.Fatalf("generate key: %v", err)
	}

	store, err := New(db, &key)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

var web = sshconfig.Target{Host: "web", User: "deploy", HostName: "10.0.0.5"}

func TestPutGetRoundTrip(t *testing.T) {
	store := setupTestStore(t)

	if _, ok, err := store.Get(web); err != nil || ok {
		t.Fatalf("expected empty store, got ok=%v err=%v", ok, err)
	}

	if err := store.Put(web, "s3cret"); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok, err := store.Get(web)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got != "s3cret" {
		t.Fatalf("expected stored password, got %q", got)
	}

	var cred Credential
	if err := store.db.First(&cred).Error; err != nil {
		t.Fatalf("load raw credential: %v", err)
	}
	if cred.Secret == "s3cret" {
		t.Fatalf("secret must be stored encrypted")
	}
}

func TestPutReplacesPassword(t *testing.T) {
	store := setupTestStore(t)

	if err := store.Put(web, "old"); err != nil {
		t.Fatalf("put old: %v", err)
	}
	if err := store.Put(web, "new"); err != nil {
		t.Fatalf("put new: %v", err)
	}

	got, _, err := store.Get(web)
	if err != nil || got != "new" {
		t.Fatalf("expected replaced password, got %q err=%v", got, err)
	}

	var count int64
	store.db.Model(&Credential{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected a single row, got %d", count)
	}
}

func TestTargetsAreDistinct(t *testing.T) {
	store := setupTestStore(t)

	other := web
	other.User = "root"
	if err := store.Put(web, "a"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(other, "b"); err != nil {
		t.Fatalf("put: %v", err)
	}

	if got, _, _ := store.Get(other); got != "b" {
		t.Fatalf("expected per-user password, got %q", got)
	}
	entries, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %+v", entries)
	}
}

func TestDelete(t *testing.T) {
	store := setupTestStore(t)

	if err := store.Put(web, "a"); err != nil {
		t.Fatalf("put: %v", err)
	}
	removed, err := store.Delete(web)
	if err != nil || !removed {
		t.Fatalf("delete: removed=%v err=%v", removed, err)
	}
	removed, err = store.Delete(web)
	if err != nil || removed {
		t.Fatalf("second delete: removed=%v err=%v", removed, err)
	}

	if err := store.Put(web, "a"); err != nil {
		t.Fatalf("put: %v", err)
	}
	n, err := store.DeleteHost("web")
	if err != nil || n != 1 {
		t.Fatalf("delete host: n=%d err=%v", n, err)
	}
}

func TestGetWithWrongKey(t *testing.T) {
	store := setupTestStore(t)
	if err := store.Put(web, "a"); err != nil {
		t.Fatalf("put: %v", err)
	}

	var other fernet.Key
	if err := other.Generate(); err != nil {
		t.Fatalf("generate key: %v", err)
	}
	store.key = &other

	if _, _, err := store.Get(web); !errors.Is(err, ErrDecrypt) {
		t.Fatalf("expected ErrDecrypt, got %v", err)
	}
}

func TestOpenCreatesKeyAndReopens(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")

	store, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Put(web, "persisted"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, KeyFile))
	if err != nil {
		t.Fatalf("stat key: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected key mode 0600, got %v", info.Mode().Perm())
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, ok, err := reopened.Get(web)
	if err != nil || !ok || got != "persisted" {
		t.Fatalf("expected persisted password, got %q ok=%v err=%v", got, ok, err)
	}
}

func TestLoadOrCreateKeyRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), KeyFile)
	if err := os.WriteFile(path, []byte("not a key"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadOrCreateKey(path); err == nil {
		t.Fatalf("expected decode error")
	}
}
