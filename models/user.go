package models

import (
	"errors"
	"time"

	"questlog/auth"
)

// ErrPasswordUnreadable is returned by User.Password. Only the hash is stored.
var ErrPasswordUnreadable = errors.New("password hashes may not be viewed")

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:30;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:128;not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relationships
	Games   []Game   `json:"games,omitempty" gorm:"foreignKey:UserID"`
	Players []Player `json:"players,omitempty" gorm:"foreignKey:UserID"`
}

// Password always fails: the plaintext is never kept.
func (u *User) Password() (string, error) {
	return "", ErrPasswordUnreadable
}

// SetPassword replaces the stored hash with a fresh salted hash of plain.
func (u *User) SetPassword(plain string) error {
	hash, err := auth.HashPassword(plain)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) Authenticate(plain string) bool {
	return auth.VerifyPassword(u.PasswordHash, plain)
}
