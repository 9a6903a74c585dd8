// Package token issues and verifies the signed session tokens handed
// out after a successful login.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/southville8b/student-portal/internal/domain"
)

// TTL is the absolute session lifetime.
const TTL = 7 * 24 * time.Hour

// RoleStudent is the only role this service issues today.
const RoleStudent = "student"

// Identity is what a verified token proves.
type Identity struct {
	LRN   string
	Email string
	Role  string
}

// Issuer signs and verifies HS256 session tokens. A missing secret is
// a server configuration error for both directions; it degrades the
// request, never silently accepts unsigned tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration

	now func() time.Time
}

func NewIssuer(secret []byte) *Issuer {
	return &Issuer{
		secret: secret,
		ttl:    TTL,
		now:    time.Now,
	}
}

func (i *Issuer) Issue(lrn, email, role string) (string, error) {
	if len(i.secret) == 0 {
		return "", fmt.Errorf("%w: signing secret not set", domain.ErrServerConfig)
	}

	now := i.now()
	claims := jwt.MapClaims{
		"sub":   lrn,
		"email": email,
		"type":  role,
		"iat":   now.Unix(),
		"exp":   now.Add(i.ttl).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (i *Issuer) Verify(raw string) (*Identity, error) {
	if len(i.secret) == 0 {
		return nil, fmt.Errorf("%w: signing secret not set", domain.ErrServerConfig)
	}

	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil || !parsed.Valid {
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}

	lrn, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["type"].(string)
	if lrn == "" {
		return nil, domain.ErrTokenInvalid
	}

	return &Identity{LRN: lrn, Email: email, Role: role}, nil
}
