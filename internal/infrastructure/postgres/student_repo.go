package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/southville8b/student-portal/internal/domain"
)

const studentColumns = `lrn, email, firstname, middlename, lastname, suffix,
	strand, yearlevel, student_status, created_at, updated_at`

type StudentRepository struct {
	pool *pgxpool.Pool
}

func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM student_details WHERE email = $1 LIMIT 1`
	return scanStudent(r.pool.QueryRow(ctx, query, email))
}

func (r *StudentRepository) FindByLRN(ctx context.Context, lrn string) (*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM student_details WHERE lrn = $1`
	return scanStudent(r.pool.QueryRow(ctx, query, lrn))
}

func (r *StudentRepository) CredentialByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	query := `
		SELECT sd.lrn, sd.email, COALESCE(sa.password, '')
		FROM student_details sd
		INNER JOIN student_accounts sa ON sd.lrn = sa.lrn
		WHERE sd.email = $1
		LIMIT 1`
	return scanCredential(r.pool.QueryRow(ctx, query, email))
}

func (r *StudentRepository) CredentialByLRN(ctx context.Context, lrn string) (*domain.Credential, error) {
	query := `
		SELECT sd.lrn, sd.email, COALESCE(sa.password, '')
		FROM student_details sd
		INNER JOIN student_accounts sa ON sd.lrn = sa.lrn
		WHERE sd.lrn = $1`
	return scanCredential(r.pool.QueryRow(ctx, query, lrn))
}

func (r *StudentRepository) UpdatePassword(ctx context.Context, lrn, hashed string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE student_accounts SET password = $1, updated_at = now() WHERE lrn = $2`,
		hashed, lrn,
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStudentNotFound
	}
	return nil
}

func (r *StudentRepository) UpdateProfile(ctx context.Context, lrn string, upd domain.ProfileUpdate) (*domain.Student, error) {
	query := `
		UPDATE student_details SET
			firstname  = COALESCE($2, firstname),
			middlename = COALESCE($3, middlename),
			lastname   = COALESCE($4, lastname),
			suffix     = COALESCE($5, suffix),
			updated_at = now()
		WHERE lrn = $1
		RETURNING ` + studentColumns

	return scanStudent(r.pool.QueryRow(ctx, query, lrn,
		upd.FirstName, upd.MiddleName, upd.LastName, upd.Suffix))
}

func (r *StudentRepository) StatusByLRN(ctx context.Context, lrn string) (string, error) {
	var status string
	err := r.pool.QueryRow(ctx,
		`SELECT student_status FROM student_details WHERE lrn = $1`, lrn,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrStudentNotFound
		}
		return "", fmt.Errorf("query student status: %w", err)
	}
	return status, nil
}

func scanStudent(row pgx.Row) (*domain.Student, error) {
	var s domain.Student
	err := row.Scan(&s.LRN, &s.Email, &s.FirstName, &s.MiddleName, &s.LastName,
		&s.Suffix, &s.Strand, &s.YearLevel, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStudentNotFound
		}
		return nil, fmt.Errorf("scan student: %w", err)
	}
	return &s, nil
}

func scanCredential(row pgx.Row) (*domain.Credential, error) {
	var c domain.Credential
	err := row.Scan(&c.LRN, &c.Email, &c.Password)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStudentNotFound
		}
		return nil, fmt.Errorf("scan credential: %w", err)
	}
	return &c, nil
}
