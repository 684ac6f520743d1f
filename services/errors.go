package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("not authorized to modify this resource")
	ErrConflict           = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// NotFoundError names the kind of record that was missing.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found."
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func notFound(entity string) error {
	return &NotFoundError{Entity: entity}
}

// isDuplicateKey reports a unique-index violation. gorm translates it when
// TranslateError is on; the message checks cover drivers that do not.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}
