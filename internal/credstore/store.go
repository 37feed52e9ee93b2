// Package credstore keeps ssh passwords encrypted in a local sqlite database.
package credstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fernet/fernet-go"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/floegence/fssh/internal/sshconfig"
)

const (
	// KeyFile is the fernet key file name inside the store directory.
	KeyFile = "key"
	// DBFile is the sqlite database file name inside the store directory.
	DBFile = "credentials.db"
)

// ErrDecrypt is returned when a stored secret cannot be decrypted with the key.
var ErrDecrypt = errors.New("stored password cannot be decrypted")

// Entry describes a stored credential without its secret.
type Entry struct {
	Target    sshconfig.Target
	UpdatedAt time.Time
}

// Store reads and writes encrypted credentials keyed by ssh target.
type Store struct {
	db  *gorm.DB
	key *fernet.Key
}

// Open opens or creates the store in dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	key, err := LoadOrCreateKey(filepath.Join(dir, KeyFile))
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(sqlite.Open(filepath.Join(dir, DBFile)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return New(db, key)
}

// New wraps an open database, migrating the schema if needed.
func New(db *gorm.DB, key *fernet.Key) (*Store, error) {
	if err := db.AutoMigrate(&Credential{}); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	return &Store{db: db, key: key}, nil
}

// Get returns the password stored for target. ok is false when none is stored.
func (s *Store) Get(target sshconfig.Target) (password string, ok bool, err error) {
	var cred Credential
	err = s.db.Where("host = ? AND user = ? AND host_name = ?", target.Host, target.User, target.HostName).
		First(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load credential: %w", err)
	}

	msg := fernet.VerifyAndDecrypt([]byte(cred.Secret), 0, []*fernet.Key{s.key})
	if msg == nil {
		return "", false, ErrDecrypt
	}
	return string(msg), true, nil
}

// Put stores password for target, replacing any previous one.
func (s *Store) Put(target sshconfig.Target, password string) error {
	tok, err := fernet.EncryptAndSign([]byte(password), s.key)
	if err != nil {
		return fmt.Errorf("encrypt: %w", err)
	}

	cred := Credential{
		Host:     target.Host,
		User:     target.User,
		HostName: target.HostName,
		Secret:   string(tok),
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "host"}, {Name: "user"}, {Name: "host_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"secret", "updated_at"}),
	}).Create(&cred).Error
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

// Delete removes the password stored for target. It reports whether one existed.
func (s *Store) Delete(target sshconfig.Target) (bool, error) {
	res := s.db.Where("host = ? AND user = ? AND host_name = ?", target.Host, target.User, target.HostName).
		Delete(&Credential{})
	if res.Error != nil {
		return false, fmt.Errorf("delete credential: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// DeleteHost removes every password stored under the host alias.
func (s *Store) DeleteHost(host string) (int64, error) {
	res := s.db.Where("host = ?", host).Delete(&Credential{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete credentials: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// List returns the stored targets ordered by host alias.
func (s *Store) List() ([]Entry, error) {
	var creds []Credential
	if err := s.db.Order("host, user").Find(&creds).Error; err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}

	entries := make([]Entry, 0, len(creds))
	for _, c := range creds {
		entries = append(entries, Entry{
			Target:    sshconfig.Target{Host: c.Host, User: c.User, HostName: c.HostName},
			UpdatedAt: c.UpdatedAt,
		})
	}
	return entries, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	return sqlDB.Close()
}
