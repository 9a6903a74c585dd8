package usecase_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/southville8b/student-portal/internal/domain"
	"github.com/southville8b/student-portal/internal/otp"
	"github.com/southville8b/student-portal/internal/password"
	"github.com/southville8b/student-portal/internal/ratelimit"
	"github.com/southville8b/student-portal/internal/repository"
	"github.com/southville8b/student-portal/internal/usecase"
)

// ---- fakes ----

type fakeStudentRepo struct {
	findByEmail       func(ctx context.Context, email string) (*domain.Student, error)
	findByLRN         func(ctx context.Context, lrn string) (*domain.Student, error)
	credentialByEmail func(ctx context.Context, email string) (*domain.Credential, error)
	credentialByLRN   func(ctx context.Context, lrn string) (*domain.Credential, error)
	updatePassword    func(ctx context.Context, lrn, hashed string) error
}

var _ repository.StudentRepository = (*fakeStudentRepo)(nil)

func (r *fakeStudentRepo) FindByEmail(ctx context.Context, email string) (*domain.Student, error) {
	return r.findByEmail(ctx, email)
}

func (r *fakeStudentRepo) FindByLRN(ctx context.Context, lrn string) (*domain.Student, error) {
	return r.findByLRN(ctx, lrn)
}

func (r *fakeStudentRepo) CredentialByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	return r.credentialByEmail(ctx, email)
}

func (r *fakeStudentRepo) CredentialByLRN(ctx context.Context, lrn string) (*domain.Credential, error) {
	return r.credentialByLRN(ctx, lrn)
}

func (r *fakeStudentRepo) UpdatePassword(ctx context.Context, lrn, hashed string) error {
	return r.updatePassword(ctx, lrn, hashed)
}

func (r *fakeStudentRepo) UpdateProfile(_ context.Context, _ string, _ domain.ProfileUpdate) (*domain.Student, error) {
	return nil, errors.New("not implemented")
}

func (r *fakeStudentRepo) StatusByLRN(_ context.Context, _ string) (string, error) {
	return "", errors.New("not implemented")
}

type fakeMailer struct {
	sent []string // codes, in order
	err  error
}

func (m *fakeMailer) SendOTP(_ context.Context, _, _, code string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, code)
	return nil
}

type fakeTokens struct {
	err error
}

func (t *fakeTokens) Issue(lrn, email, role string) (string, error) {
	if t.err != nil {
		return "", t.err
	}
	return "token-for-" + lrn, nil
}

var testStudent = &domain.Student{
	LRN:       "123456789012",
	Email:     "a@x.com",
	FirstName: "Juan",
	LastName:  "Dela Cruz",
}

func studentDirectory(cred *domain.Credential) *fakeStudentRepo {
	return &fakeStudentRepo{
		findByEmail: func(_ context.Context, email string) (*domain.Student, error) {
			if email != testStudent.Email {
				return nil, domain.ErrStudentNotFound
			}
			return testStudent, nil
		},
		findByLRN: func(_ context.Context, lrn string) (*domain.Student, error) {
			if lrn != testStudent.LRN {
				return nil, domain.ErrStudentNotFound
			}
			return testStudent, nil
		},
		credentialByEmail: func(_ context.Context, email string) (*domain.Credential, error) {
			if cred == nil || email != cred.Email {
				return nil, domain.ErrStudentNotFound
			}
			return cred, nil
		},
		updatePassword: func(_ context.Context, _, _ string) error { return nil },
	}
}

func newAuth(repo *fakeStudentRepo, store otp.Store, mailer *fakeMailer, opts ...func(*authOpts)) *usecase.AuthUsecase {
	o := &authOpts{}
	for _, fn := range opts {
		fn(o)
	}
	return usecase.NewAuthUsecase(repo, store, ratelimit.New(), mailer, &fakeTokens{},
		slog.Default(), o.autoHash, o.echoOTP)
}

type authOpts struct {
	autoHash bool
	echoOTP  bool
}

func withAutoHash() func(*authOpts) { return func(o *authOpts) { o.autoHash = true } }
func withEchoOTP() func(*authOpts)  { return func(o *authOpts) { o.echoOTP = true } }

// ---- Login ----

func TestLogin_UnknownEmail(t *testing.T) {
	u := newAuth(studentDirectory(nil), otp.NewMemoryStore(), &fakeMailer{})

	_, err := u.Login(context.Background(), "nobody@x.com", "pw")
	if !errors.Is(err, domain.ErrStudentNotFound) {
		t.Errorf("err = %v, want ErrStudentNotFound", err)
	}
}

func TestLogin_NoPasswordSet(t *testing.T) {
	repo := studentDirectory(&domain.Credential{LRN: testStudent.LRN, Email: "a@x.com", Password: ""})
	u := newAuth(repo, otp.NewMemoryStore(), &fakeMailer{})

	_, err := u.Login(context.Background(), "a@x.com", "pw")
	if !errors.Is(err, domain.ErrPasswordNotSet) {
		t.Errorf("err = %v, want ErrPasswordNotSet", err)
	}
}

func TestLogin_HashedCredential(t *testing.T) {
	hash, err := password.Hash("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo := studentDirectory(&domain.Credential{LRN: testStudent.LRN, Email: "a@x.com", Password: hash})
	u := newAuth(repo, otp.NewMemoryStore(), &fakeMailer{})

	res, err := u.Login(context.Background(), "a@x.com", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Token != "token-for-"+testStudent.LRN {
		t.Errorf("token = %q", res.Token)
	}
	if res.Student.Email != "a@x.com" {
		t.Errorf("student = %+v", res.Student)
	}

	_, err = u.Login(context.Background(), "a@x.com", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogin_LegacyPlaintext_AutoUpgrades(t *testing.T) {
	repo := studentDirectory(&domain.Credential{LRN: testStudent.LRN, Email: "a@x.com", Password: "legacy-pw"})

	var storedHash string
	repo.updatePassword = func(_ context.Context, lrn, hashed string) error {
		if lrn != testStudent.LRN {
			t.Errorf("upgrade lrn = %q", lrn)
		}
		storedHash = hashed
		return nil
	}

	u := newAuth(repo, otp.NewMemoryStore(), &fakeMailer{}, withAutoHash())

	if _, err := u.Login(context.Background(), "a@x.com", "legacy-pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	if storedHash == "" {
		t.Fatal("legacy password was not upgraded")
	}
	if !password.IsHashed(storedHash) {
		t.Errorf("upgraded credential %q is not a hash", storedHash)
	}
	if ok, _, _ := password.Verify(storedHash, "legacy-pw"); !ok {
		t.Error("upgraded hash does not verify against the original password")
	}
}

func TestLogin_LegacyPlaintext_NoUpgradeWithoutFlag(t *testing.T) {
	repo := studentDirectory(&domain.Credential{LRN: testStudent.LRN, Email: "a@x.com", Password: "legacy-pw"})
	repo.updatePassword = func(_ context.Context, _, _ string) error {
		t.Error("upgrade write attempted with AUTO_HASH_PASSWORDS off")
		return nil
	}

	u := newAuth(repo, otp.NewMemoryStore(), &fakeMailer{})

	if _, err := u.Login(context.Background(), "a@x.com", "legacy-pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func TestLogin_RateLimited(t *testing.T) {
	hash, _ := password.Hash("s3cret")
	repo := studentDirectory(&domain.Credential{LRN: testStudent.LRN, Email: "a@x.com", Password: hash})
	u := newAuth(repo, otp.NewMemoryStore(), &fakeMailer{})

	for i := 0; i < 5; i++ {
		u.Login(context.Background(), "a@x.com", "wrong")
	}

	_, err := u.Login(context.Background(), "a@x.com", "s3cret")
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Errorf("6th login err = %v, want ErrRateLimited", err)
	}
}

// ---- OTP flows ----

func TestRequestOTP_IssuesAndMails(t *testing.T) {
	store := otp.NewMemoryStore()
	mailer := &fakeMailer{}
	u := newAuth(studentDirectory(nil), store, mailer)

	debug, err := u.RequestOTP(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("request otp: %v", err)
	}
	if debug != "" {
		t.Errorf("debug code %q leaked without echo mode", debug)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("sent %d mails, want 1", len(mailer.sent))
	}

	// The mailed code verifies.
	res, err := store.Verify(context.Background(), "a@x.com", mailer.sent[0])
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if res.Status != otp.StatusOK {
		t.Errorf("mailed code status = %v, want StatusOK", res.Status)
	}
}

func TestRequestOTP_UnknownEmail(t *testing.T) {
	u := newAuth(studentDirectory(nil), otp.NewMemoryStore(), &fakeMailer{})

	_, err := u.RequestOTP(context.Background(), "nobody@x.com")
	if !errors.Is(err, domain.ErrStudentNotFound) {
		t.Errorf("err = %v, want ErrStudentNotFound", err)
	}
}

func TestRequestOTP_EchoMode_ReturnsCode(t *testing.T) {
	store := otp.NewMemoryStore()
	u := newAuth(studentDirectory(nil), store, &fakeMailer{}, withEchoOTP())

	code, err := u.RequestOTP(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("request otp: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("debug code = %q, want 6 digits", code)
	}
}

func TestRequestOTP_RateLimitAfterThree(t *testing.T) {
	u := newAuth(studentDirectory(nil), otp.NewMemoryStore(), &fakeMailer{})
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		if _, err := u.RequestOTP(ctx, "a@x.com"); err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
	}
	for i := 4; i <= 6; i++ {
		if _, err := u.RequestOTP(ctx, "a@x.com"); !errors.Is(err, domain.ErrRateLimited) {
			t.Errorf("request %d err = %v, want ErrRateLimited", i, err)
		}
	}
}

func TestRequestOTP_MailerFailure_KeepsCodeValid(t *testing.T) {
	store := otp.NewMemoryStore()
	mailer := &fakeMailer{err: errors.New("resend is down")}
	u := newAuth(studentDirectory(nil), store, mailer)

	_, err := u.RequestOTP(context.Background(), "a@x.com")
	if err == nil {
		t.Fatal("mailer failure not surfaced")
	}

	// The issued record must survive so the code can be delivered
	// out-of-band.
	if size, _ := store.Size(context.Background()); size != 1 {
		t.Errorf("store size = %d, want 1 (otp rolled back?)", size)
	}
}

func TestResendOTP_InvalidatesPreviousCode(t *testing.T) {
	store := otp.NewMemoryStore()
	mailer := &fakeMailer{}
	u := newAuth(studentDirectory(nil), store, mailer)
	ctx := context.Background()

	u.RequestOTP(ctx, "a@x.com")
	if _, err := u.ResendOTP(ctx, "a@x.com"); err != nil {
		t.Fatalf("resend: %v", err)
	}

	first, second := mailer.sent[0], mailer.sent[1]
	if first == second {
		// Unlikely but possible with random codes; the real assertion
		// is below on the store contents.
		t.Logf("resend produced identical code %q", first)
	}

	res, _ := store.Verify(ctx, "a@x.com", second)
	if res.Status != otp.StatusOK {
		t.Errorf("latest code status = %v, want StatusOK", res.Status)
	}
}

func TestResendOTP_TighterLimit(t *testing.T) {
	u := newAuth(studentDirectory(nil), otp.NewMemoryStore(), &fakeMailer{})
	ctx := context.Background()

	u.ResendOTP(ctx, "a@x.com")
	u.ResendOTP(ctx, "a@x.com")

	if _, err := u.ResendOTP(ctx, "a@x.com"); !errors.Is(err, domain.ErrRateLimited) {
		t.Errorf("3rd resend err = %v, want ErrRateLimited", err)
	}
}

func TestVerifyOTP_FullScenario(t *testing.T) {
	store := otp.NewMemoryStore()
	u := newAuth(studentDirectory(nil), store, &fakeMailer{})
	ctx := context.Background()

	store.Issue(ctx, "a@x.com", "123456")

	// Wrong code: mismatch with 4 attempts remaining.
	_, err := u.VerifyOTP(ctx, "a@x.com", "000000")
	var mismatch *domain.OTPMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("err = %v, want OTPMismatchError", err)
	}
	if mismatch.Remaining != 4 {
		t.Errorf("remaining = %d, want 4", mismatch.Remaining)
	}

	// Correct code: session issued.
	res, err := u.VerifyOTP(ctx, "a@x.com", "123456")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if res.Token == "" || res.Student.LRN != testStudent.LRN {
		t.Errorf("result = %+v", res)
	}

	// Replay: the code is gone.
	_, err = u.VerifyOTP(ctx, "a@x.com", "123456")
	if !errors.Is(err, domain.ErrOTPNotFound) {
		t.Errorf("replay err = %v, want ErrOTPNotFound", err)
	}
}

// stubStore returns a fixed verify result; used to pin the mapping of
// store statuses to domain errors.
type stubStore struct {
	otp.Store
	result otp.VerifyResult
}

func (s *stubStore) Verify(_ context.Context, _, _ string) (otp.VerifyResult, error) {
	return s.result, nil
}

func TestVerifyOTP_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		status otp.Status
		want   error
	}{
		{"not found", otp.StatusNotFound, domain.ErrOTPNotFound},
		{"expired", otp.StatusExpired, domain.ErrOTPExpired},
		{"exhausted", otp.StatusExhausted, domain.ErrOTPExhausted},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &stubStore{result: otp.VerifyResult{Status: tc.status}}
			u := newAuth(studentDirectory(nil), store, &fakeMailer{})

			_, err := u.VerifyOTP(context.Background(), "a@x.com", "123456")
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestVerifyOTP_Exhaustion(t *testing.T) {
	store := otp.NewMemoryStore()
	u := newAuth(studentDirectory(nil), store, &fakeMailer{})
	ctx := context.Background()

	store.Issue(ctx, "a@x.com", "123456")

	for i := 1; i <= 4; i++ {
		_, err := u.VerifyOTP(ctx, "a@x.com", "000000")
		var mismatch *domain.OTPMismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("attempt %d err = %v, want OTPMismatchError", i, err)
		}
	}

	_, err := u.VerifyOTP(ctx, "a@x.com", "000000")
	if !errors.Is(err, domain.ErrOTPExhausted) {
		t.Fatalf("5th attempt err = %v, want ErrOTPExhausted", err)
	}

	_, err = u.VerifyOTP(ctx, "a@x.com", "123456")
	if !errors.Is(err, domain.ErrOTPNotFound) {
		t.Errorf("6th attempt err = %v, want ErrOTPNotFound", err)
	}
}

func TestVerifyOTP_TokenConfigError(t *testing.T) {
	store := otp.NewMemoryStore()
	repo := studentDirectory(nil)
	tokens := &fakeTokens{err: domain.ErrServerConfig}
	u := usecase.NewAuthUsecase(repo, store, ratelimit.New(), &fakeMailer{}, tokens,
		slog.Default(), false, false)
	ctx := context.Background()

	store.Issue(ctx, "a@x.com", "123456")

	_, err := u.VerifyOTP(ctx, "a@x.com", "123456")
	if !errors.Is(err, domain.ErrServerConfig) {
		t.Errorf("err = %v, want ErrServerConfig", err)
	}
}
