package repository

import (
	"context"

	"github.com/southville8b/student-portal/internal/domain"
)

// StudentRepository is the user directory: lookups by email/LRN plus
// the credential reads and upgrade-writes the auth flows need.
type StudentRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Student, error)
	FindByLRN(ctx context.Context, lrn string) (*domain.Student, error)

	// CredentialByEmail returns the stored password (hash or legacy
	// plaintext) alongside the identifiers.
	CredentialByEmail(ctx context.Context, email string) (*domain.Credential, error)
	CredentialByLRN(ctx context.Context, lrn string) (*domain.Credential, error)

	// UpdatePassword stores a new (always hashed) credential.
	UpdatePassword(ctx context.Context, lrn, hashed string) error

	UpdateProfile(ctx context.Context, lrn string, upd domain.ProfileUpdate) (*domain.Student, error)
	StatusByLRN(ctx context.Context, lrn string) (string, error)
}
