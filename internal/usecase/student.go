package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/southville8b/student-portal/internal/domain"
	"github.com/southville8b/student-portal/internal/password"
	"github.com/southville8b/student-portal/internal/repository"
)

type StudentUsecase struct {
	students repository.StudentRepository
	logger   *slog.Logger
}

func NewStudentUsecase(students repository.StudentRepository, logger *slog.Logger) *StudentUsecase {
	return &StudentUsecase{
		students: students,
		logger:   logger.With("component", "student_usecase"),
	}
}

func (u *StudentUsecase) Profile(ctx context.Context, lrn string) (*domain.Student, error) {
	return u.students.FindByLRN(ctx, lrn)
}

func (u *StudentUsecase) UpdateProfile(ctx context.Context, lrn string, upd domain.ProfileUpdate) (*domain.Student, error) {
	return u.students.UpdateProfile(ctx, lrn, upd)
}

func (u *StudentUsecase) Status(ctx context.Context, lrn string) (string, error) {
	return u.students.StatusByLRN(ctx, lrn)
}

// ChangePassword verifies the current credential of the authenticated
// student and stores the new one, always hashed.
func (u *StudentUsecase) ChangePassword(ctx context.Context, lrn, current, next string) error {
	cred, err := u.students.CredentialByLRN(ctx, lrn)
	if err != nil {
		if errors.Is(err, domain.ErrStudentNotFound) {
			return domain.ErrStudentNotFound
		}
		return fmt.Errorf("look up credential: %w", err)
	}

	if cred.Password == "" {
		return domain.ErrPasswordNotSet
	}

	ok, _, err := password.Verify(cred.Password, current)
	if err != nil {
		return fmt.Errorf("verify current password: %w", err)
	}
	if !ok {
		return domain.ErrInvalidCredentials
	}

	hashed, err := password.Hash(next)
	if err != nil {
		return err
	}
	if err := u.students.UpdatePassword(ctx, lrn, hashed); err != nil {
		return fmt.Errorf("store new password: %w", err)
	}

	u.logger.InfoContext(ctx, "password changed", "lrn", lrn)
	return nil
}
