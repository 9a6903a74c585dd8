package domain

import (
	"errors"
	"fmt"
)

var (
	ErrStudentNotFound    = errors.New("student not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordNotSet     = errors.New("password login not available")
	ErrRateLimited        = errors.New("rate limited")

	ErrOTPNotFound  = errors.New("otp not found")
	ErrOTPExpired   = errors.New("otp expired")
	ErrOTPExhausted = errors.New("otp attempts exhausted")

	ErrTokenInvalid = errors.New("token is invalid or expired")

	// ErrServerConfig marks a missing or broken server-side setting
	// (signing secret, mailer key). Never exposed to clients verbatim.
	ErrServerConfig = errors.New("server configuration error")

	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrDocumentsNotFound  = errors.New("no documents found")
	ErrTrackCodeNotFound  = errors.New("track code not found")
)

// OTPMismatchError is a failed verify that still leaves attempts on the
// record. Remaining is 5 - attempts after the increment.
type OTPMismatchError struct {
	Remaining int
}

func (e *OTPMismatchError) Error() string {
	return fmt.Sprintf("invalid otp, %d attempts remaining", e.Remaining)
}
