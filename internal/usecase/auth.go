package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/southville8b/student-portal/internal/domain"
	"github.com/southville8b/student-portal/internal/email"
	"github.com/southville8b/student-portal/internal/metrics"
	"github.com/southville8b/student-portal/internal/otp"
	"github.com/southville8b/student-portal/internal/password"
	"github.com/southville8b/student-portal/internal/repository"
	"github.com/southville8b/student-portal/internal/token"
)

// Per-operation budgets within the 15-minute window.
const (
	rateWindow      = 15 * time.Minute
	loginLimit      = 5
	otpRequestLimit = 3
	otpVerifyLimit  = 10
	otpResendLimit  = 2
)

// rateLimiter is the slice of ratelimit.Limiter the usecase needs.
type rateLimiter interface {
	Allow(identifier string, limit int, window time.Duration) bool
	Size() int
}

// tokenIssuer is the slice of token.Issuer the usecase needs.
type tokenIssuer interface {
	Issue(lrn, email, role string) (string, error)
}

type AuthUsecase struct {
	students repository.StudentRepository
	otps     otp.Store
	limiter  rateLimiter
	mailer   email.Sender
	tokens   tokenIssuer
	logger   *slog.Logger

	// autoHashPasswords enables transparent re-hashing of legacy
	// plaintext credentials on successful login.
	autoHashPasswords bool

	// echoOTP surfaces freshly issued codes in the API response. Only
	// ever true outside production, when no mailer is configured.
	echoOTP bool
}

func NewAuthUsecase(
	students repository.StudentRepository,
	otps otp.Store,
	limiter rateLimiter,
	mailer email.Sender,
	tokens tokenIssuer,
	logger *slog.Logger,
	autoHashPasswords bool,
	echoOTP bool,
) *AuthUsecase {
	return &AuthUsecase{
		students:          students,
		otps:              otps,
		limiter:           limiter,
		mailer:            mailer,
		tokens:            tokens,
		logger:            logger.With("component", "auth_usecase"),
		autoHashPasswords: autoHashPasswords,
		echoOTP:           echoOTP,
	}
}

// LoginResult is a verified identity plus its fresh session token.
type LoginResult struct {
	Token   string
	Student *domain.Student
}

// Login authenticates email+password and issues a session token.
func (u *AuthUsecase) Login(ctx context.Context, emailAddr, pass string) (*LoginResult, error) {
	if !u.limiter.Allow("login:"+emailAddr, loginLimit, rateWindow) {
		metrics.RateLimitRejectionsTotal.WithLabelValues("login").Inc()
		return nil, domain.ErrRateLimited
	}

	cred, err := u.students.CredentialByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrStudentNotFound) {
			metrics.LoginAttemptsTotal.WithLabelValues("unknown_email").Inc()
			return nil, domain.ErrStudentNotFound
		}
		return nil, fmt.Errorf("look up credential: %w", err)
	}

	if cred.Password == "" {
		metrics.LoginAttemptsTotal.WithLabelValues("no_password").Inc()
		return nil, domain.ErrPasswordNotSet
	}

	ok, legacy, err := password.Verify(cred.Password, pass)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		metrics.LoginAttemptsTotal.WithLabelValues("wrong_password").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	if legacy && u.autoHashPasswords {
		u.upgradePassword(ctx, cred.LRN, pass)
	}

	return u.issueSession(ctx, cred.LRN)
}

// RequestOTP issues a fresh code for the email and dispatches it via
// the mailer. The returned debug code is non-empty only when echoOTP
// is on.
func (u *AuthUsecase) RequestOTP(ctx context.Context, emailAddr string) (string, error) {
	if !u.limiter.Allow("otp:"+emailAddr, otpRequestLimit, rateWindow) {
		metrics.RateLimitRejectionsTotal.WithLabelValues("otp_request").Inc()
		return "", domain.ErrRateLimited
	}
	return u.issueOTP(ctx, emailAddr, "request")
}

// ResendOTP re-issues a code, invalidating the previous one. Tighter
// rate limit than the initial request.
func (u *AuthUsecase) ResendOTP(ctx context.Context, emailAddr string) (string, error) {
	if !u.limiter.Allow("resend:"+emailAddr, otpResendLimit, rateWindow) {
		metrics.RateLimitRejectionsTotal.WithLabelValues("otp_resend").Inc()
		return "", domain.ErrRateLimited
	}
	return u.issueOTP(ctx, emailAddr, "resend")
}

// VerifyOTP consumes a valid code and issues a session token.
func (u *AuthUsecase) VerifyOTP(ctx context.Context, emailAddr, code string) (*LoginResult, error) {
	if !u.limiter.Allow("verify:"+emailAddr, otpVerifyLimit, rateWindow) {
		metrics.RateLimitRejectionsTotal.WithLabelValues("otp_verify").Inc()
		return nil, domain.ErrRateLimited
	}

	result, err := u.otps.Verify(ctx, emailAddr, code)
	if err != nil {
		return nil, fmt.Errorf("verify otp: %w", err)
	}

	switch result.Status {
	case otp.StatusNotFound:
		metrics.OTPVerifyTotal.WithLabelValues("not_found").Inc()
		return nil, domain.ErrOTPNotFound
	case otp.StatusExpired:
		metrics.OTPVerifyTotal.WithLabelValues("expired").Inc()
		return nil, domain.ErrOTPExpired
	case otp.StatusExhausted:
		metrics.OTPVerifyTotal.WithLabelValues("exhausted").Inc()
		return nil, domain.ErrOTPExhausted
	case otp.StatusMismatch:
		metrics.OTPVerifyTotal.WithLabelValues("mismatch").Inc()
		return nil, &domain.OTPMismatchError{Remaining: result.Remaining}
	}

	metrics.OTPVerifyTotal.WithLabelValues("success").Inc()

	student, err := u.students.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrStudentNotFound) {
			return nil, domain.ErrStudentNotFound
		}
		return nil, fmt.Errorf("look up student: %w", err)
	}

	tok, err := u.tokens.Issue(student.LRN, student.Email, token.RoleStudent)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: tok, Student: student}, nil
}

// StoreSizes reports the live OTP and rate-limit entry counts for the
// health endpoint.
func (u *AuthUsecase) StoreSizes(ctx context.Context) (otpSize, rateSize int) {
	n, err := u.otps.Size(ctx)
	if err != nil {
		u.logger.WarnContext(ctx, "otp store size", "error", err)
	}
	return n, u.limiter.Size()
}

func (u *AuthUsecase) issueOTP(ctx context.Context, emailAddr, trigger string) (string, error) {
	student, err := u.students.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrStudentNotFound) {
			return "", domain.ErrStudentNotFound
		}
		return "", fmt.Errorf("look up student: %w", err)
	}

	code, err := otp.GenerateCode()
	if err != nil {
		return "", err
	}

	if err := u.otps.Issue(ctx, emailAddr, code); err != nil {
		return "", fmt.Errorf("issue otp: %w", err)
	}
	metrics.OTPIssuedTotal.WithLabelValues(trigger).Inc()

	// A mailer failure does not invalidate the stored code: the student
	// can still be given it out-of-band.
	if err := u.mailer.SendOTP(ctx, emailAddr, student.FirstName, code); err != nil {
		return "", fmt.Errorf("dispatch otp: %w", err)
	}

	if u.echoOTP {
		return code, nil
	}
	return "", nil
}

func (u *AuthUsecase) issueSession(ctx context.Context, lrn string) (*LoginResult, error) {
	student, err := u.students.FindByLRN(ctx, lrn)
	if err != nil {
		return nil, fmt.Errorf("look up student: %w", err)
	}

	tok, err := u.tokens.Issue(student.LRN, student.Email, token.RoleStudent)
	if err != nil {
		return nil, err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return &LoginResult{Token: tok, Student: student}, nil
}

// upgradePassword opportunistically replaces a plaintext credential
// with its hash. Best effort: the login already succeeded.
func (u *AuthUsecase) upgradePassword(ctx context.Context, lrn, plaintext string) {
	hashed, err := password.Hash(plaintext)
	if err != nil {
		u.logger.WarnContext(ctx, "hash legacy password", "error", err)
		return
	}
	if err := u.students.UpdatePassword(ctx, lrn, hashed); err != nil {
		u.logger.WarnContext(ctx, "upgrade legacy password", "error", err)
		return
	}
	u.logger.InfoContext(ctx, "upgraded legacy password to hash", "lrn", lrn)
}
