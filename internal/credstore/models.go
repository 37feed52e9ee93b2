package credstore

import "time"

// Credential is one remembered password. Secret holds a fernet token.
type Credential struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Host      string    `gorm:"not null;uniqueIndex:idx_credential_target"`
	User      string    `gorm:"not null;uniqueIndex:idx_credential_target"`
	HostName  string    `gorm:"not null;uniqueIndex:idx_credential_target"`
	Secret    string    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
