package entity

import (
	"fmt"

	"newswire/internal/utils/text"
)

const (
	// minPasswordLength / maxPasswordLength bound registration passwords.
	minPasswordLength = 4
	maxPasswordLength = 10
)

// ValidateUsername checks that a username is present.
// Returns a ValidationError if the username is empty.
func ValidateUsername(username string) error {
	if username == "" {
		return &ValidationError{Field: "username", Message: "is required"}
	}
	return nil
}

// ValidatePassword checks that a plaintext password satisfies the length policy.
// Returns a ValidationError if the password is out of bounds.
func ValidatePassword(password string) error {
	// バイト数ではなく文字数で判定する
	n := text.CountRunes(password)
	if n < minPasswordLength || n > maxPasswordLength {
		return &ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("must be between %d and %d characters", minPasswordLength, maxPasswordLength),
		}
	}
	return nil
}
