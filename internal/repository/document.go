package repository

import (
	"context"

	"github.com/southville8b/student-portal/internal/domain"
)

// DocumentType names one uploadable paperwork slot. Values map 1:1 to
// columns of student_documents.
type DocumentType string

const (
	DocBirthCert          DocumentType = "birth_cert"
	DocForm137            DocumentType = "form137"
	DocGoodMoral          DocumentType = "good_moral"
	DocReportCard         DocumentType = "report_card"
	DocPicture            DocumentType = "picture"
	DocTranscriptRecords  DocumentType = "transcript_records"
	DocHonorableDismissal DocumentType = "honorable_dismissal"
)

// ValidDocumentType reports whether t names a known slot.
func ValidDocumentType(t DocumentType) bool {
	switch t {
	case DocBirthCert, DocForm137, DocGoodMoral, DocReportCard,
		DocPicture, DocTranscriptRecords, DocHonorableDismissal:
		return true
	}
	return false
}

type DocumentRepository interface {
	// SetDocumentURL records the storage URL for one slot, creating the
	// student's documents row if needed.
	SetDocumentURL(ctx context.Context, lrn string, docType DocumentType, url string) error

	FindByLRN(ctx context.Context, lrn string) (*domain.Documents, error)
}

type EnrollmentRepository interface {
	// UpsertSecondSem records (or replaces) a second-semester enrollment
	// submission, resetting its status to pending.
	UpsertSecondSem(ctx context.Context, lrn, schoolYear, gradeSlipURL string) error

	SecondSemByLRN(ctx context.Context, lrn string) (*domain.Enrollment, error)

	// StatusByTrackCode resolves an enrollment status from a track code
	// (the pre-account lookup used by applicants).
	StatusByTrackCode(ctx context.Context, trackCode string) (string, error)
}
