package authstub

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func issuer(secret string, ttl time.Duration, now time.Time) tokenIssuer {
	return tokenIssuer{secret: []byte(secret), ttl: ttl, now: func() time.Time { return now }}
}

func TestIssueAndParse_Success(t *testing.T) {
	t.Parallel()

	ti := issuer("super-secret", time.Hour, time.Now())
	tok, err := ti.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	got, err := ti.UserID(tok)
	if err != nil {
		t.Fatalf("UserID error: %v", err)
	}
	if got != "user-123" {
		t.Fatalf("userID mismatch: got %q want %q", got, "user-123")
	}
}

func TestUserID_Expired(t *testing.T) {
	t.Parallel()

	issued := time.Now()
	tok, err := issuer("secret", time.Minute, issued).Issue("u1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = issuer("secret", time.Minute, issued.Add(2*time.Minute)).UserID(tok)
	if !errors.Is(err, errTokenExpired) {
		t.Fatalf("expected errTokenExpired, got %v", err)
	}
}

func TestUserID_WrongSecret(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tok, err := issuer("right-secret", time.Hour, now).Issue("u2")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = issuer("wrong-secret", time.Hour, now).UserID(tok)
	if !errors.Is(err, errInvalidToken) {
		t.Fatalf("expected errInvalidToken, got %v", err)
	}
}

func TestUserID_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{Subject: "u3"}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = issuer("secret", time.Hour, time.Now()).UserID(tok)
	if !errors.Is(err, errInvalidToken) {
		t.Fatalf("expected errInvalidToken, got %v", err)
	}
}

func TestUserID_Garbage(t *testing.T) {
	t.Parallel()

	if _, err := issuer("secret", time.Hour, time.Now()).UserID("not-a-jwt"); !errors.Is(err, errInvalidToken) {
		t.Fatalf("expected errInvalidToken, got %v", err)
	}
}
