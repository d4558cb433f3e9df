package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestIssuer(t *testing.T, opts ...IssuerOption) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer([]byte("access-secret"), []byte("refresh-secret"), opts...)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	return issuer
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	issuer := newTestIssuer(t)
	pair, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	access, err := issuer.Verify(pair.AccessToken, ScopeAccess)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if access.Subject != "user-1" {
		t.Fatalf("unexpected access subject: %s", access.Subject)
	}

	refresh, err := issuer.Verify(pair.RefreshToken, ScopeRefresh)
	if err != nil {
		t.Fatalf("verify refresh: %v", err)
	}
	if refresh.Subject != "user-1" {
		t.Fatalf("unexpected refresh subject: %s", refresh.Subject)
	}

	if !pair.RefreshExpiresAt.After(pair.AccessExpiresAt) {
		t.Fatal("refresh token must outlive access token")
	}
}

func TestVerifyRejectsCrossScope(t *testing.T) {
	issuer := newTestIssuer(t)
	pair, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := issuer.Verify(pair.AccessToken, ScopeRefresh); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("access token accepted under refresh scope: %v", err)
	}
	if _, err := issuer.Verify(pair.RefreshToken, ScopeAccess); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("refresh token accepted under access scope: %v", err)
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	issuer := newTestIssuer(t)
	pair, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	token := pair.AccessToken

	segments := strings.Split(token, ".")
	if len(segments) != 3 {
		t.Fatalf("expected three JWT segments, got %d", len(segments))
	}
	// Flip one character in each segment in turn.
	offset := 0
	for _, seg := range segments {
		idx := offset + len(seg)/2
		flipped := flipChar(token, idx)
		if _, err := issuer.Verify(flipped, ScopeAccess); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("tampered token at index %d verified: %v", idx, err)
		}
		offset += len(seg) + 1
	}
}

func flipChar(s string, idx int) string {
	b := []byte(s)
	if b[idx] == 'A' {
		b[idx] = 'B'
	} else {
		b[idx] = 'A'
	}
	return string(b)
}

func TestVerifyRejectsExpired(t *testing.T) {
	current := time.Now()
	clock := func() time.Time { return current }
	issuer := newTestIssuer(t, WithIssuerClock(clock), WithAccessTTL(time.Minute))

	pair, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	current = current.Add(2 * time.Minute)
	if _, err := issuer.Verify(pair.AccessToken, ScopeAccess); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	issuer := newTestIssuer(t)
	for _, token := range []string{"", "garbage", "garbage.token.value", "a.b"} {
		if _, err := issuer.Verify(token, ScopeAccess); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("token %q: expected ErrTokenInvalid, got %v", token, err)
		}
	}
}

func TestNewTokenIssuerRequiresDistinctSecrets(t *testing.T) {
	if _, err := NewTokenIssuer([]byte("same"), []byte("same")); err == nil {
		t.Fatal("expected error for identical secrets")
	}
	if _, err := NewTokenIssuer(nil, []byte("refresh")); err == nil {
		t.Fatal("expected error for missing access secret")
	}
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	issuer := newTestIssuer(t)
	other, err := NewTokenIssuer([]byte("other-access"), []byte("other-refresh"))
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	pair, err := other.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := issuer.Verify(pair.AccessToken, ScopeAccess); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for foreign signature, got %v", err)
	}
}
