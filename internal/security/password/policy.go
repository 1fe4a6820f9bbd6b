package password

import (
	"errors"
	"unicode/utf8"
)

const MinLen = 8

var ErrTooShort = errors.New("password must be at least 8 characters")

// Validate enforces the length policy. Passwords are used exactly as typed.
func Validate(pwd string) error {
	if utf8.RuneCountInString(pwd) < MinLen {
		return ErrTooShort
	}
	return nil
}
