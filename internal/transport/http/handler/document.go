package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/southville8b/student-portal/internal/domain"
	"github.com/southville8b/student-portal/internal/repository"
	"github.com/southville8b/student-portal/internal/usecase"
)

type documentUsecaser interface {
	UploadDocument(ctx context.Context, lrn, lastName string, docType repository.DocumentType, fileName, contentType string, file io.Reader) (string, error)
	Documents(ctx context.Context, lrn string) (*domain.Documents, error)
	SubmitSecondSemEnrollment(ctx context.Context, lrn, lastName, schoolYear string, file io.Reader) error
	SecondSemEnrollment(ctx context.Context, lrn string) (*domain.Enrollment, error)
	EnrollmentStatusByTrackCode(ctx context.Context, trackCode string) (string, error)
}

type profileLookup interface {
	Profile(ctx context.Context, lrn string) (*domain.Student, error)
}

type DocumentHandler struct {
	documents documentUsecaser
	profiles  profileLookup
	logger    *slog.Logger
}

func NewDocumentHandler(documents documentUsecaser, profiles profileLookup, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		documents: documents,
		profiles:  profiles,
		logger:    logger.With("component", "document_handler"),
	}
}

// POST /api/documents (multipart: document_type + document file)
func (h *DocumentHandler) Upload(c *gin.Context) {
	lrn := c.GetString("lrn")

	docType := repository.DocumentType(c.PostForm("document_type"))
	if !repository.ValidDocumentType(docType) {
		fail(c, http.StatusBadRequest, msgInvalidDocumentType)
		return
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		fail(c, http.StatusBadRequest, msgNoFileUploaded)
		return
	}
	if fileHeader.Size > usecase.MaxUploadSize {
		fail(c, http.StatusBadRequest, msgFileTooLarge)
		return
	}
	if !usecase.AllowedUploadType(fileHeader.Header.Get("Content-Type")) {
		fail(c, http.StatusBadRequest, msgInvalidFileType)
		return
	}

	student, err := h.profiles.Profile(c.Request.Context(), lrn)
	if err != nil {
		if errors.Is(err, domain.ErrStudentNotFound) {
			fail(c, http.StatusNotFound, msgStudentNotFound)
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "upload document lookup", "error", err)
		fail(c, http.StatusInternalServerError, errInternalServer)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "open upload", "error", err)
		fail(c, http.StatusInternalServerError, errInternalServer)
		return
	}
	defer file.Close()

	url, err := h.documents.UploadDocument(
		c.Request.Context(),
		lrn, student.LastName,
		docType,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "upload document", "error", err, "type", string(docType))
		fail(c, http.StatusInternalServerError, "Failed to upload document. Please try again.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       msgDocumentUploaded,
		"document_type": string(docType),
		"url":           url,
	})
}

// GET /api/documents
func (h *DocumentHandler) Documents(c *gin.Context) {
	lrn := c.GetString("lrn")

	docs, err := h.documents.Documents(c.Request.Context(), lrn)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentsNotFound) {
			fail(c, http.StatusNotFound, msgDocumentsNotFound)
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "fetch documents", "error", err)
		fail(c, http.StatusInternalServerError, errInternalServer)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"documents": gin.H{
			"birth_cert":          docs.BirthCert,
			"form137":             docs.Form137,
			"good_moral":          docs.GoodMoral,
			"report_card":         docs.ReportCard,
			"picture":             docs.Picture,
			"transcript_records":  docs.TranscriptRecords,
			"honorable_dismissal": docs.HonorableDismissal,
		},
	})
}

// POST /api/enrollments/second-semester (multipart: grade_slip file, optional school_year)
func (h *DocumentHandler) SubmitSecondSem(c *gin.Context) {
	lrn := c.GetString("lrn")

	fileHeader, err := c.FormFile("grade_slip")
	if err != nil {
		fail(c, http.StatusBadRequest, msgNoFileUploaded)
		return
	}
	if fileHeader.Size > usecase.MaxUploadSize {
		fail(c, http.StatusBadRequest, msgFileTooLarge)
		return
	}
	if !usecase.AllowedUploadType(fileHeader.Header.Get("Content-Type")) {
		fail(c, http.StatusBadRequest, msgInvalidFileType)
		return
	}

	schoolYear := c.PostForm("school_year")
	if schoolYear == "" {
		schoolYear = currentSchoolYear(time.Now())
	}

	student, err := h.profiles.Profile(c.Request.Context(), lrn)
	if err != nil {
		if errors.Is(err, domain.ErrStudentNotFound) {
			fail(c, http.StatusNotFound, msgStudentNotFound)
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "enrollment lookup", "error", err)
		fail(c, http.StatusInternalServerError, errInternalServer)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "open grade slip", "error", err)
		fail(c, http.StatusInternalServerError, errInternalServer)
		return
	}
	defer file.Close()

	if err := h.documents.SubmitSecondSemEnrollment(c.Request.Context(), lrn, student.LastName, schoolYear, file); err != nil {
		h.logger.ErrorContext(c.Request.Context(), "submit enrollment", "error", err)
		fail(c, http.StatusInternalServerError, "Failed to submit enrollment. Please try again.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": msgEnrollmentSubmitted})
}

// GET /api/enrollments/second-semester
func (h *DocumentHandler) SecondSemStatus(c *gin.Context) {
	lrn := c.GetString("lrn")

	enrollment, err := h.documents.SecondSemEnrollment(c.Request.Context(), lrn)
	if err != nil {
		if errors.Is(err, domain.ErrEnrollmentNotFound) {
			fail(c, http.StatusNotFound, msgEnrollmentNotFound)
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "fetch enrollment", "error", err)
		fail(c, http.StatusInternalServerError, errInternalServer)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"enrollment": gin.H{
			"school_year":     enrollment.SchoolYear,
			"semester":        enrollment.Semester,
			"grade_slip_url":  enrollment.GradeSlipURL,
			"status":          enrollment.Status,
			"enrollment_type": enrollment.EnrollmentType,
			"submitted_at":    enrollment.SubmittedAt.UTC().Format(time.RFC3339),
		},
	})
}

// GET /api/enrollment/:track_code (public, pre-account applicant lookup)
func (h *DocumentHandler) StatusByTrackCode(c *gin.Context) {
	trackCode := c.Param("track_code")

	status, err := h.documents.EnrollmentStatusByTrackCode(c.Request.Context(), trackCode)
	if err != nil {
		if errors.Is(err, domain.ErrTrackCodeNotFound) {
			fail(c, http.StatusNotFound, msgTrackCodeNotFound)
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "track code lookup", "error", err)
		fail(c, http.StatusInternalServerError, errInternalServer)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "enrollment_status": status})
}

// currentSchoolYear formats the PH school year containing t, e.g.
// "2025-2026" for any date from June 2025 through May 2026.
func currentSchoolYear(t time.Time) string {
	year := t.Year()
	if t.Month() < time.June {
		year--
	}
	return fmt.Sprintf("%d-%d", year, year+1)
}
