package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/southville8b/student-portal/internal/domain"
	"github.com/southville8b/student-portal/internal/usecase"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Login(ctx context.Context, email, password string) (*usecase.LoginResult, error)
	RequestOTP(ctx context.Context, email string) (string, error)
	VerifyOTP(ctx context.Context, email, code string) (*usecase.LoginResult, error)
	ResendOTP(ctx context.Context, email string) (string, error)
	StoreSizes(ctx context.Context) (otpSize, rateSize int)
}

type AuthHandler struct {
	auth   authUsecaser
	logger *slog.Logger
}

func NewAuthHandler(auth authUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger.With("component", "auth_handler"),
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, loginBindMessage(c, &req))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRateLimited):
			fail(c, http.StatusTooManyRequests, msgTooManyLogins)
		case errors.Is(err, domain.ErrStudentNotFound):
			fail(c, http.StatusNotFound, msgInvalidCredentials)
		case errors.Is(err, domain.ErrPasswordNotSet):
			fail(c, http.StatusUnauthorized, msgPasswordLoginOff)
		case errors.Is(err, domain.ErrInvalidCredentials):
			fail(c, http.StatusUnauthorized, msgInvalidCredentials)
		case errors.Is(err, domain.ErrServerConfig):
			h.logger.ErrorContext(c.Request.Context(), "login config error", "error", err)
			fail(c, http.StatusInternalServerError, errServerConfig)
		default:
			h.logger.ErrorContext(c.Request.Context(), "login", "error", err)
			fail(c, http.StatusInternalServerError, "Login failed. Please try again.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": msgLoginSuccess,
		"token":   result.Token,
		"user":    newUserPayload(result.Student),
	})
}

type otpRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// POST /api/request-otp
func (h *AuthHandler) RequestOTP(c *gin.Context) {
	var req otpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if req.Email == "" {
			fail(c, http.StatusBadRequest, msgMissingEmail)
		} else {
			fail(c, http.StatusBadRequest, msgInvalidEmail)
		}
		return
	}

	debugCode, err := h.auth.RequestOTP(c.Request.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRateLimited):
			fail(c, http.StatusTooManyRequests, msgTooManyOTPReqs)
		case errors.Is(err, domain.ErrStudentNotFound):
			fail(c, http.StatusNotFound, msgEmailNotFound)
		default:
			h.logger.ErrorContext(c.Request.Context(), "request otp", "error", err)
			fail(c, http.StatusInternalServerError, msgOTPSendFailed)
		}
		return
	}

	if debugCode != "" {
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   msgOTPDebugIssued,
			"debug_otp": debugCode,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": msgOTPSent})
}

type verifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6,numeric"`
}

// POST /api/verify-otp
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if req.Email == "" || req.OTP == "" {
			fail(c, http.StatusBadRequest, msgMissingEmailOTP)
		} else {
			fail(c, http.StatusBadRequest, msgOTPFormat)
		}
		return
	}

	result, err := h.auth.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		var mismatch *domain.OTPMismatchError
		switch {
		case errors.Is(err, domain.ErrRateLimited):
			fail(c, http.StatusTooManyRequests, msgTooManyVerifies)
		case errors.Is(err, domain.ErrOTPNotFound):
			fail(c, http.StatusNotFound, msgOTPNotFound)
		case errors.Is(err, domain.ErrOTPExpired):
			fail(c, http.StatusGone, msgOTPExpired)
		case errors.Is(err, domain.ErrOTPExhausted):
			fail(c, http.StatusTooManyRequests, msgOTPExhausted)
		case errors.As(err, &mismatch):
			fail(c, http.StatusUnauthorized,
				formatMismatch(mismatch.Remaining))
		case errors.Is(err, domain.ErrStudentNotFound):
			fail(c, http.StatusNotFound, msgStudentNotFound)
		case errors.Is(err, domain.ErrServerConfig):
			h.logger.ErrorContext(c.Request.Context(), "verify otp config error", "error", err)
			fail(c, http.StatusInternalServerError, errServerConfig)
		default:
			h.logger.ErrorContext(c.Request.Context(), "verify otp", "error", err)
			fail(c, http.StatusInternalServerError, msgVerifyFailed)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": msgLoginSuccess,
		"token":   result.Token,
		"user":    newUserPayload(result.Student),
	})
}

// POST /api/resend-otp
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req otpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Email address is required.")
		return
	}

	debugCode, err := h.auth.ResendOTP(c.Request.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRateLimited):
			fail(c, http.StatusTooManyRequests, msgTooManyResends)
		case errors.Is(err, domain.ErrStudentNotFound):
			fail(c, http.StatusNotFound, msgEmailNotFound)
		default:
			h.logger.ErrorContext(c.Request.Context(), "resend otp", "error", err)
			fail(c, http.StatusInternalServerError, msgResendFailed)
		}
		return
	}

	if debugCode != "" {
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   msgNewOTPDebug,
			"debug_otp": debugCode,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": msgNewOTPSent})
}

// GET /api/health
func (h *AuthHandler) Health(c *gin.Context) {
	otpSize, rateSize := h.auth.StoreSizes(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"success":               true,
		"message":               "Auth service is running",
		"timestamp":             time.Now().UTC().Format(time.RFC3339),
		"otp_store_size":        otpSize,
		"rate_limit_store_size": rateSize,
	})
}

// loginBindMessage distinguishes "field missing" from "email malformed"
// so the client messages match what users expect.
func loginBindMessage(_ *gin.Context, req *loginRequest) string {
	if req.Email == "" || req.Password == "" {
		return msgMissingEmailPassword
	}
	return msgInvalidEmail
}
