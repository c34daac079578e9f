package models

import "time"

// Identity is the principal of the current app session. A nil/absent Identity
// means the app is sitting on the login screen.
type Identity struct {
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// User is a locally persisted credential record. Passwords are stored as
// entered: this reproduces the original client-side credential list for
// behavioral parity and is explicitly not a security mechanism. Swapping in a
// real identity provider only requires replacing CredentialRepository.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	CreatedAt time.Time `json:"-"`
}
