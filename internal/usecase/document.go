package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/southville8b/student-portal/internal/domain"
	"github.com/southville8b/student-portal/internal/metrics"
	"github.com/southville8b/student-portal/internal/repository"
	"github.com/southville8b/student-portal/internal/storage"
)

// MaxUploadSize caps document uploads at 10MB.
const MaxUploadSize = 10 << 20

// allowedUploadTypes are the accepted document content types.
var allowedUploadTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"application/pdf": true,
}

// AllowedUploadType reports whether contentType may be uploaded.
func AllowedUploadType(contentType string) bool {
	return allowedUploadTypes[contentType]
}

type DocumentUsecase struct {
	documents   repository.DocumentRepository
	enrollments repository.EnrollmentRepository
	uploader    storage.Uploader
	logger      *slog.Logger
}

func NewDocumentUsecase(
	documents repository.DocumentRepository,
	enrollments repository.EnrollmentRepository,
	uploader storage.Uploader,
	logger *slog.Logger,
) *DocumentUsecase {
	return &DocumentUsecase{
		documents:   documents,
		enrollments: enrollments,
		uploader:    uploader,
		logger:      logger.With("component", "document_usecase"),
	}
}

// UploadDocument stores one paperwork file and records its URL under
// the matching document slot.
func (u *DocumentUsecase) UploadDocument(
	ctx context.Context,
	lrn, lastName string,
	docType repository.DocumentType,
	fileName, contentType string,
	file io.Reader,
) (string, error) {
	if !repository.ValidDocumentType(docType) {
		return "", fmt.Errorf("invalid document type %q", docType)
	}

	resourceType := "image"
	if contentType == "application/pdf" {
		resourceType = "raw"
	}

	url, err := u.uploader.Upload(ctx, file, storage.UploadOptions{
		Folder:       fmt.Sprintf("documents/%s_%s", lrn, strings.ToUpper(lastName)),
		PublicID:     trimExtension(fileName),
		ResourceType: resourceType,
		Overwrite:    false,
	})
	if err != nil {
		metrics.DocumentUploadsTotal.WithLabelValues("upload_failed").Inc()
		return "", err
	}

	if err := u.documents.SetDocumentURL(ctx, lrn, docType, url); err != nil {
		metrics.DocumentUploadsTotal.WithLabelValues("record_failed").Inc()
		return "", err
	}

	metrics.DocumentUploadsTotal.WithLabelValues("success").Inc()
	u.logger.InfoContext(ctx, "document uploaded", "lrn", lrn, "type", string(docType))
	return url, nil
}

func (u *DocumentUsecase) Documents(ctx context.Context, lrn string) (*domain.Documents, error) {
	return u.documents.FindByLRN(ctx, lrn)
}

// SubmitSecondSemEnrollment uploads the grade slip (replacing any
// previous one for the school year) and upserts the enrollment row.
func (u *DocumentUsecase) SubmitSecondSemEnrollment(
	ctx context.Context,
	lrn, lastName, schoolYear string,
	file io.Reader,
) error {
	url, err := u.uploader.Upload(ctx, file, storage.UploadOptions{
		Folder:       fmt.Sprintf("enrollments/%s_%s", lrn, strings.ToUpper(lastName)),
		PublicID:     "grade_slip_2nd_sem_" + schoolYear,
		ResourceType: "image",
		Overwrite:    true,
	})
	if err != nil {
		return err
	}

	if err := u.enrollments.UpsertSecondSem(ctx, lrn, schoolYear, url); err != nil {
		return err
	}

	u.logger.InfoContext(ctx, "second semester enrollment submitted", "lrn", lrn, "school_year", schoolYear)
	return nil
}

func (u *DocumentUsecase) SecondSemEnrollment(ctx context.Context, lrn string) (*domain.Enrollment, error) {
	return u.enrollments.SecondSemByLRN(ctx, lrn)
}

func (u *DocumentUsecase) EnrollmentStatusByTrackCode(ctx context.Context, trackCode string) (string, error) {
	return u.enrollments.StatusByTrackCode(ctx, trackCode)
}

func trimExtension(fileName string) string {
	if idx := strings.LastIndex(fileName, "."); idx > 0 {
		return fileName[:idx]
	}
	return fileName
}
