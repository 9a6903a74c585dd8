// Package otp implements issuance and single-use verification of
// 6-digit email login codes.
package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	// TTL is how long an issued code stays valid.
	TTL = 10 * time.Minute

	// MaxAttempts is the number of failed verifies that burns a code.
	MaxAttempts = 5
)

// Record is the live state of one issued code, keyed by email.
type Record struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
	Attempts  int       `json:"attempts"`
	CreatedAt time.Time `json:"created_at"`
}

type Status int

const (
	StatusNotFound Status = iota
	StatusExpired
	StatusMismatch
	StatusExhausted
	StatusOK
)

// VerifyResult is the outcome of a verify call. Remaining is only
// meaningful for StatusMismatch.
type VerifyResult struct {
	Status    Status
	Remaining int
}

// Store holds at most one live Record per identifier. Implementations
// must serialize mutation per identifier so that attempt counting and
// single-use deletion stay atomic under concurrent verifies.
type Store interface {
	// Issue creates a fresh record for identifier, unconditionally
	// replacing any prior one. Only the newest code is ever valid.
	Issue(ctx context.Context, identifier, code string) error

	// Verify checks code against the stored record. Side effects:
	// expired and exhausted records are deleted, a mismatch increments
	// the attempt counter, success consumes the record.
	Verify(ctx context.Context, identifier, code string) (VerifyResult, error)

	// Sweep deletes expired records and returns how many it reclaimed.
	Sweep(ctx context.Context) (int, error)

	// Size returns the number of live records.
	Size(ctx context.Context) (int, error)
}

// GenerateCode draws a 6-digit code uniformly from 100000-999999 using
// the platform CSPRNG.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
