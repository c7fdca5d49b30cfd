package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrDuplicateKey a unique constraint rejected the write.
var ErrDuplicateKey = errors.New("duplicate key")

// IsDuplicateKey reports whether err is a unique-constraint violation.
// gorm translates driver errors when TranslateError is enabled; the string
// checks cover drivers or wrappers that bypass the translator.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, ErrDuplicateKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
