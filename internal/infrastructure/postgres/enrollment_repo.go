package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/southville8b/student-portal/internal/domain"
)

type EnrollmentRepository struct {
	pool *pgxpool.Pool
}

func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

func (r *EnrollmentRepository) UpsertSecondSem(ctx context.Context, lrn, schoolYear, gradeSlipURL string) error {
	query := `
		INSERT INTO student_enrollments
			(lrn, school_year, semester, grade_slip, status, enrollment_type)
		VALUES ($1, $2, '2nd', $3, 'pending', 'continuing')
		ON CONFLICT (lrn, school_year, semester) DO UPDATE SET
			grade_slip = EXCLUDED.grade_slip,
			status = 'pending',
			enrollment_type = 'continuing',
			submitted_at = now()`

	if _, err := r.pool.Exec(ctx, query, lrn, schoolYear, gradeSlipURL); err != nil {
		return fmt.Errorf("upsert enrollment: %w", err)
	}
	return nil
}

func (r *EnrollmentRepository) SecondSemByLRN(ctx context.Context, lrn string) (*domain.Enrollment, error) {
	query := `
		SELECT id, lrn, school_year, semester, grade_slip, status,
			enrollment_type, submitted_at
		FROM student_enrollments
		WHERE lrn = $1 AND semester = '2nd'
		ORDER BY submitted_at DESC
		LIMIT 1`

	var e domain.Enrollment
	err := r.pool.QueryRow(ctx, query, lrn).Scan(&e.ID, &e.LRN, &e.SchoolYear,
		&e.Semester, &e.GradeSlipURL, &e.Status, &e.EnrollmentType, &e.SubmittedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("query enrollment: %w", err)
	}
	return &e, nil
}

func (r *EnrollmentRepository) StatusByTrackCode(ctx context.Context, trackCode string) (string, error) {
	query := `
		SELECT sd.enrollment_status
		FROM student_accounts sa
		INNER JOIN student_details sd ON sa.lrn = sd.lrn
		WHERE sa.track_code = $1
		LIMIT 1`

	var status string
	err := r.pool.QueryRow(ctx, query, trackCode).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrTrackCodeNotFound
		}
		return "", fmt.Errorf("query enrollment status: %w", err)
	}
	return status, nil
}
