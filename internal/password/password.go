// Package password verifies student credentials stored either as
// bcrypt hashes or, for rows predating the migration, plaintext.
package password

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// hashCost matches the cost the original account importer used.
const hashCost = 12

// IsHashed reports whether stored looks like a bcrypt hash.
func IsHashed(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") ||
		strings.HasPrefix(stored, "$2b$") ||
		strings.HasPrefix(stored, "$2y$")
}

// Verify compares supplied against the stored credential. legacy is
// true when the stored value is plaintext, signalling the caller that
// an upgrade write is possible.
//
// A bcrypt failure other than a plain mismatch propagates as an error;
// it must never degrade into a plaintext comparison.
func Verify(stored, supplied string) (ok bool, legacy bool, err error) {
	if IsHashed(stored) {
		err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied))
		switch {
		case err == nil:
			return true, false, nil
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, false, nil
		default:
			return false, false, fmt.Errorf("compare password hash: %w", err)
		}
	}

	match := subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
	return match, true, nil
}

// Hash produces a bcrypt hash for storage.
func Hash(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}
