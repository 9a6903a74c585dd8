package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/southville8b/student-portal/internal/domain"
)

const testSecret = "token-test-secret-at-least-32-chars!"

func TestIssueVerify_RoundTrip(t *testing.T) {
	i := NewIssuer([]byte(testSecret))

	raw, err := i.Issue("123456789012", "a@x.com", RoleStudent)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	id, err := i.Verify(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.LRN != "123456789012" || id.Email != "a@x.com" || id.Role != RoleStudent {
		t.Errorf("identity = %+v, want original subject/email/role", id)
	}
}

func TestVerify_Expired(t *testing.T) {
	i := NewIssuer([]byte(testSecret))

	raw, err := i.Issue("123456789012", "a@x.com", RoleStudent)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	i.now = func() time.Time { return time.Now().Add(TTL + time.Hour) }

	if _, err := i.Verify(raw); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("verify after expiry: err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerify_TamperedSignature(t *testing.T) {
	i := NewIssuer([]byte(testSecret))

	raw, _ := i.Issue("123456789012", "a@x.com", RoleStudent)

	parts := strings.Split(raw, ".")
	tampered := parts[0] + "." + parts[1] + "." + "AAAA" + parts[2][4:]

	if _, err := i.Verify(tampered); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("verify tampered: err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerify_WrongKey(t *testing.T) {
	a := NewIssuer([]byte(testSecret))
	b := NewIssuer([]byte("a-completely-different-32-char-key!!"))

	raw, _ := a.Issue("123456789012", "a@x.com", RoleStudent)

	if _, err := b.Verify(raw); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("verify with wrong key: err = %v, want ErrTokenInvalid", err)
	}
}

func TestMissingSecret_FailsClosed(t *testing.T) {
	i := NewIssuer(nil)

	if _, err := i.Issue("123456789012", "a@x.com", RoleStudent); !errors.Is(err, domain.ErrServerConfig) {
		t.Errorf("issue without secret: err = %v, want ErrServerConfig", err)
	}
	if _, err := i.Verify("x.y.z"); !errors.Is(err, domain.ErrServerConfig) {
		t.Errorf("verify without secret: err = %v, want ErrServerConfig", err)
	}
}
