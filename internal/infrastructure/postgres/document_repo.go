package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/southville8b/student-portal/internal/domain"
	"github.com/southville8b/student-portal/internal/repository"
)

// documentColumn maps a document type to its column. Only values from
// this map ever reach the SQL below.
var documentColumn = map[repository.DocumentType]string{
	repository.DocBirthCert:          "birth_cert",
	repository.DocForm137:            "form137",
	repository.DocGoodMoral:          "good_moral",
	repository.DocReportCard:         "report_card",
	repository.DocPicture:            "picture",
	repository.DocTranscriptRecords:  "transcript_records",
	repository.DocHonorableDismissal: "honorable_dismissal",
}

type DocumentRepository struct {
	pool *pgxpool.Pool
}

func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

func (r *DocumentRepository) SetDocumentURL(ctx context.Context, lrn string, docType repository.DocumentType, url string) error {
	col, ok := documentColumn[docType]
	if !ok {
		return fmt.Errorf("unknown document type %q", docType)
	}

	query := fmt.Sprintf(`
		INSERT INTO student_documents (lrn, %s) VALUES ($1, $2)
		ON CONFLICT (lrn) DO UPDATE SET %s = EXCLUDED.%s, updated_at = now()`,
		col, col, col)

	if _, err := r.pool.Exec(ctx, query, lrn, url); err != nil {
		return fmt.Errorf("set document url: %w", err)
	}
	return nil
}

func (r *DocumentRepository) FindByLRN(ctx context.Context, lrn string) (*domain.Documents, error) {
	query := `
		SELECT lrn, COALESCE(birth_cert, ''), COALESCE(form137, ''),
			COALESCE(good_moral, ''), COALESCE(report_card, ''),
			COALESCE(picture, ''), COALESCE(transcript_records, ''),
			COALESCE(honorable_dismissal, '')
		FROM student_documents WHERE lrn = $1`

	var d domain.Documents
	err := r.pool.QueryRow(ctx, query, lrn).Scan(&d.LRN, &d.BirthCert, &d.Form137,
		&d.GoodMoral, &d.ReportCard, &d.Picture, &d.TranscriptRecords, &d.HonorableDismissal)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDocumentsNotFound
		}
		return nil, fmt.Errorf("query documents: %w", err)
	}
	return &d, nil
}
