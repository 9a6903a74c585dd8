package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/southville8b/student-portal/internal/domain"
)

type studentUsecaser interface {
	Profile(ctx context.Context, lrn string) (*domain.Student, error)
	UpdateProfile(ctx context.Context, lrn string, upd domain.ProfileUpdate) (*domain.Student, error)
	Status(ctx context.Context, lrn string) (string, error)
	ChangePassword(ctx context.Context, lrn, current, next string) error
}

type StudentHandler struct {
	students studentUsecaser
	logger   *slog.Logger
}

func NewStudentHandler(students studentUsecaser, logger *slog.Logger) *StudentHandler {
	return &StudentHandler{
		students: students,
		logger:   logger.With("component", "student_handler"),
	}
}

type profilePayload struct {
	LRN        string `json:"STD_ID"` // legacy field name the app still reads
	LRNNew     string `json:"LRN"`
	FirstName  string `json:"firstname"`
	MiddleName string `json:"middlename"`
	LastName   string `json:"lastname"`
	Suffix     string `json:"suffix"`
	Email      string `json:"email"`
	Strand     string `json:"strand"`
	YearLevel  string `json:"yearlevel"`
}

func newProfilePayload(s *domain.Student) profilePayload {
	return profilePayload{
		LRN:        s.LRN,
		LRNNew:     s.LRN,
		FirstName:  s.FirstName,
		MiddleName: s.MiddleName,
		LastName:   s.LastName,
		Suffix:     s.Suffix,
		Email:      s.Email,
		Strand:     s.Strand,
		YearLevel:  s.YearLevel,
	}
}

// GET /api/student-profile
func (h *StudentHandler) Profile(c *gin.Context) {
	lrn := c.GetString("lrn")

	student, err := h.students.Profile(c.Request.Context(), lrn)
	if err != nil {
		if errors.Is(err, domain.ErrStudentNotFound) {
			fail(c, http.StatusNotFound, msgStudentNotFound)
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "student profile", "error", err)
		fail(c, http.StatusInternalServerError, errInternalServer)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "student": newProfilePayload(student)})
}

type updateProfileRequest struct {
	FirstName  *string `json:"firstname"`
	MiddleName *string `json:"middlename"`
	LastName   *string `json:"lastname"`
	Suffix     *string `json:"suffix"`
}

// PUT /api/student-profile
func (h *StudentHandler) UpdateProfile(c *gin.Context) {
	lrn := c.GetString("lrn")

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid profile payload")
		return
	}

	student, err := h.students.UpdateProfile(c.Request.Context(), lrn, domain.ProfileUpdate{
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		Suffix:     req.Suffix,
	})
	if err != nil {
		if errors.Is(err, domain.ErrStudentNotFound) {
			fail(c, http.StatusNotFound, msgStudentNotFound)
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "update profile", "error", err)
		fail(c, http.StatusInternalServerError, errInternalServer)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "student": newProfilePayload(student)})
}

// GET /api/student-status
func (h *StudentHandler) Status(c *gin.Context) {
	lrn := c.GetString("lrn")

	status, err := h.students.Status(c.Request.Context(), lrn)
	if err != nil {
		if errors.Is(err, domain.ErrStudentNotFound) {
			fail(c, http.StatusNotFound, msgStudentNotFound)
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "student status", "error", err)
		fail(c, http.StatusInternalServerError, errInternalServer)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "student_status": status})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// POST /api/change-password
func (h *StudentHandler) ChangePassword(c *gin.Context) {
	lrn := c.GetString("lrn")

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, msgPasswordFieldsReqd)
		return
	}

	err := h.students.ChangePassword(c.Request.Context(), lrn, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrPasswordNotSet):
			fail(c, http.StatusUnauthorized, msgCurrentPasswordBad)
		case errors.Is(err, domain.ErrStudentNotFound):
			fail(c, http.StatusNotFound, msgStudentNotFound)
		default:
			h.logger.ErrorContext(c.Request.Context(), "change password", "error", err)
			fail(c, http.StatusInternalServerError, errInternalServer)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": msgPasswordChanged})
}
