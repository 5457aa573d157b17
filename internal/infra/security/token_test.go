package security

import (
	"errors"
	"testing"
	"time"
)

func newIssuer(now *time.Time) JWTIssuer {
	return JWTIssuer{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    30 * 24 * time.Hour,
		Now:           func() time.Time { return *now },
	}
}

func TestIssueAndParseRoundTrip(t *testing.T) {
	now := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	issuer := newIssuer(&now)

	access, err := issuer.IssueAccess("user-1")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	sub, err := issuer.ParseAccess(access)
	if err != nil {
		t.Fatalf("ParseAccess: %v", err)
	}
	if sub != "user-1" {
		t.Fatalf("sub = %q, want user-1", sub)
	}

	refresh, err := issuer.IssueRefresh("user-1")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	if sub, err := issuer.ParseRefresh(refresh); err != nil || sub != "user-1" {
		t.Fatalf("ParseRefresh = %q, %v", sub, err)
	}
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	now := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	issuer := newIssuer(&now)

	access, _ := issuer.IssueAccess("user-1")
	refresh, _ := issuer.IssueRefresh("user-1")

	if _, err := issuer.ParseRefresh(access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("access as refresh: err = %v, want ErrInvalidToken", err)
	}
	if _, err := issuer.ParseAccess(refresh); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh as access: err = %v, want ErrInvalidToken", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	now := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	issuer := newIssuer(&now)

	access, err := issuer.IssueAccess("user-1")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	now = now.Add(16 * time.Minute)
	if _, err := issuer.ParseAccess(access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken after expiry", err)
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	now := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	issuer := newIssuer(&now)

	if _, err := issuer.ParseAccess("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}
