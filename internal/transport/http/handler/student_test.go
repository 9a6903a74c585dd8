package handler_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/southville8b/student-portal/internal/domain"
	"github.com/southville8b/student-portal/internal/transport/http/handler"
)

type fakeStudentUsecase struct {
	profile        func(ctx context.Context, lrn string) (*domain.Student, error)
	updateProfile  func(ctx context.Context, lrn string, upd domain.ProfileUpdate) (*domain.Student, error)
	status         func(ctx context.Context, lrn string) (string, error)
	changePassword func(ctx context.Context, lrn, current, next string) error
}

func (f *fakeStudentUsecase) Profile(ctx context.Context, lrn string) (*domain.Student, error) {
	return f.profile(ctx, lrn)
}

func (f *fakeStudentUsecase) UpdateProfile(ctx context.Context, lrn string, upd domain.ProfileUpdate) (*domain.Student, error) {
	return f.updateProfile(ctx, lrn, upd)
}

func (f *fakeStudentUsecase) Status(ctx context.Context, lrn string) (string, error) {
	return f.status(ctx, lrn)
}

func (f *fakeStudentUsecase) ChangePassword(ctx context.Context, lrn, current, next string) error {
	return f.changePassword(ctx, lrn, current, next)
}

// newStudentEngine wires the handler behind a stub of the auth middleware
// that injects the authenticated LRN.
func newStudentEngine(uc *fakeStudentUsecase) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	h := handler.NewStudentHandler(uc, logger)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("lrn", testStudent.LRN)
		c.Set("email", testStudent.Email)
	})
	r.GET("/api/student-profile", h.Profile)
	r.PUT("/api/student-profile", h.UpdateProfile)
	r.GET("/api/student-status", h.Status)
	r.POST("/api/change-password", h.ChangePassword)
	return r
}

func TestProfile_Success(t *testing.T) {
	uc := &fakeStudentUsecase{
		profile: func(_ context.Context, lrn string) (*domain.Student, error) {
			if lrn != testStudent.LRN {
				t.Errorf("lrn = %q, want %q", lrn, testStudent.LRN)
			}
			return testStudent, nil
		},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/student-profile", nil)
	newStudentEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), testStudent.LRN) {
		t.Errorf("body %q missing LRN", w.Body.String())
	}
}

func TestProfile_UnknownStudent_Returns404(t *testing.T) {
	uc := &fakeStudentUsecase{
		profile: func(_ context.Context, _ string) (*domain.Student, error) {
			return nil, domain.ErrStudentNotFound
		},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/student-profile", nil)
	newStudentEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestUpdateProfile_PassesOnlyProvidedFields(t *testing.T) {
	var got domain.ProfileUpdate
	uc := &fakeStudentUsecase{
		updateProfile: func(_ context.Context, _ string, upd domain.ProfileUpdate) (*domain.Student, error) {
			got = upd
			return testStudent, nil
		},
	}
	w := postJSONTo(newStudentEngine(uc), http.MethodPut, "/api/student-profile",
		`{"firstname":"Juana"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got.FirstName == nil || *got.FirstName != "Juana" {
		t.Errorf("FirstName = %v, want Juana", got.FirstName)
	}
	if got.LastName != nil {
		t.Errorf("LastName = %v, want nil (not provided)", got.LastName)
	}
}

func TestChangePassword_MissingFields_Returns400(t *testing.T) {
	w := postJSONTo(newStudentEngine(&fakeStudentUsecase{}), http.MethodPost,
		"/api/change-password", `{"currentPassword":"old"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestChangePassword_WrongCurrent_Returns401(t *testing.T) {
	uc := &fakeStudentUsecase{
		changePassword: func(_ context.Context, _, _, _ string) error {
			return domain.ErrInvalidCredentials
		},
	}
	w := postJSONTo(newStudentEngine(uc), http.MethodPost, "/api/change-password",
		`{"currentPassword":"wrong","newPassword":"long-enough-pw"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestChangePassword_Success_Returns200(t *testing.T) {
	uc := &fakeStudentUsecase{
		changePassword: func(_ context.Context, _, _, _ string) error { return nil },
	}
	w := postJSONTo(newStudentEngine(uc), http.MethodPost, "/api/change-password",
		`{"currentPassword":"old-pw","newPassword":"long-enough-pw"}`)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func postJSONTo(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}
