package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spendtrack/spendtrack/internal/apperr"
)

func TestIssueAndResolve(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	token, exp, err := issuer.Issue("account-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !exp.After(time.Now()) {
		t.Fatalf("expiry should be in the future, got %s", exp)
	}

	id, err := issuer.Resolve(token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if id != "account-1" {
		t.Fatalf("expected account-1, got %s", id)
	}

	// Resolution is deterministic for a valid token.
	again, err := issuer.Resolve(token)
	if err != nil || again != id {
		t.Fatalf("expected stable resolution, got %s, %v", again, err)
	}
}

func TestResolveExpiredToken(t *testing.T) {
	current := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewIssuer("test-secret", time.Hour).WithClock(func() time.Time { return current })

	token, _, err := issuer.Issue("account-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	current = current.Add(30 * time.Minute)
	if _, err := issuer.Resolve(token); err != nil {
		t.Fatalf("token should resolve before expiry: %v", err)
	}

	current = current.Add(31 * time.Minute)
	if _, err := issuer.Resolve(token); !errors.Is(err, apperr.ErrAuth) {
		t.Fatalf("expected auth error after expiry, got %v", err)
	}
}

func TestResolveTamperedToken(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	token, _, err := issuer.Issue("account-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape")
	}
	// Flip the payload; the signature no longer matches.
	tampered := parts[0] + "." + strings.Repeat("A", len(parts[1])) + "." + parts[2]

	if _, err := issuer.Resolve(tampered); !errors.Is(err, apperr.ErrAuth) {
		t.Fatalf("expected auth error for tampered token, got %v", err)
	}
}

func TestResolveWrongSecret(t *testing.T) {
	token, _, err := NewIssuer("secret-a", time.Hour).Issue("account-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := NewIssuer("secret-b", time.Hour).Resolve(token); !errors.Is(err, apperr.ErrAuth) {
		t.Fatalf("expected auth error for foreign signature, got %v", err)
	}
}

func TestResolveEmptyToken(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	if _, err := issuer.Resolve(""); !errors.Is(err, apperr.ErrAuth) {
		t.Fatalf("expected auth error for empty token, got %v", err)
	}
}
