package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"stayhub/internal/app/apperror"
	"stayhub/internal/infra/security"
	"stayhub/internal/infra/storage/memory"
)

var testNow = time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*Service, *memory.UserRepository) {
	t.Helper()
	users := memory.NewUserRepository()
	service := &Service{
		Users:     users,
		Passwords: security.BcryptHasher{Cost: 4},
		Tokens: security.JWTIssuer{
			AccessSecret:  []byte("access-secret"),
			RefreshSecret: []byte("refresh-secret"),
			AccessTTL:     15 * time.Minute,
			RefreshTTL:    30 * 24 * time.Hour,
			Now:           func() time.Time { return testNow },
		},
		Now: func() time.Time { return testNow },
	}
	return service, users
}

func register(t *testing.T, s *Service) *Result {
	t.Helper()
	result, err := s.Register(context.Background(), RegisterParams{
		Name:     "Ada",
		Email:    "Ada@Example.com",
		Password: "sekret1",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return result
}

func TestRegisterNormalizesEmailAndIssuesTokens(t *testing.T) {
	s, _ := newService(t)
	result := register(t, s)

	if result.User.Email != "ada@example.com" {
		t.Fatalf("email = %q, want lowercased", result.User.Email)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}
	if result.User.RefreshToken != result.RefreshToken {
		t.Fatal("refresh token not stored on user")
	}
	if !strings.Contains(result.User.Avatar, "ui-avatars.com") {
		t.Fatalf("avatar = %q, want generated URL", result.User.Avatar)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	s, _ := newService(t)
	_, err := s.Register(context.Background(), RegisterParams{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "short",
	})
	if !apperror.IsKind(err, apperror.KindBadRequest) {
		t.Fatalf("err = %v, want bad request", err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	s, _ := newService(t)
	register(t, s)

	_, err := s.Register(context.Background(), RegisterParams{
		Name:     "Other",
		Email:    "ADA@example.com",
		Password: "sekret1",
	})
	if !apperror.IsKind(err, apperror.KindConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestLogin(t *testing.T) {
	s, _ := newService(t)
	register(t, s)

	result, err := s.Login(context.Background(), LoginParams{Email: "ada@example.com", Password: "sekret1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.AccessToken == "" {
		t.Fatal("expected access token")
	}

	if _, err := s.Login(context.Background(), LoginParams{Email: "ada@example.com", Password: "wrong"}); !apperror.IsKind(err, apperror.KindUnauthorized) {
		t.Fatalf("wrong password: err = %v, want unauthorized", err)
	}
	if _, err := s.Login(context.Background(), LoginParams{Email: "nobody@example.com", Password: "sekret1"}); !apperror.IsKind(err, apperror.KindUnauthorized) {
		t.Fatalf("unknown email: err = %v, want unauthorized", err)
	}
}

func TestRefreshRotation(t *testing.T) {
	s, _ := newService(t)
	first := register(t, s)

	access, err := s.Refresh(context.Background(), first.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if access == "" {
		t.Fatal("expected new access token")
	}

	// A fresh login rotates the stored refresh token; the old one is dead.
	second, err := s.Login(context.Background(), LoginParams{Email: "ada@example.com", Password: "sekret1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Fatal("expected rotated refresh token")
	}
	if _, err := s.Refresh(context.Background(), first.RefreshToken); !apperror.IsKind(err, apperror.KindUnauthorized) {
		t.Fatalf("stale refresh: err = %v, want unauthorized", err)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	s, _ := newService(t)
	result := register(t, s)

	if _, err := s.Refresh(context.Background(), result.AccessToken); !apperror.IsKind(err, apperror.KindUnauthorized) {
		t.Fatalf("err = %v, want unauthorized for access token", err)
	}
}

func TestLogoutInvalidatesRefresh(t *testing.T) {
	s, _ := newService(t)
	result := register(t, s)

	if err := s.Logout(context.Background(), result.User.ID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := s.Refresh(context.Background(), result.RefreshToken); !apperror.IsKind(err, apperror.KindUnauthorized) {
		t.Fatalf("err = %v, want unauthorized after logout", err)
	}
}

func TestAuthenticate(t *testing.T) {
	s, _ := newService(t)
	result := register(t, s)

	u, err := s.Authenticate(context.Background(), result.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if u.ID != result.User.ID {
		t.Fatalf("user = %s, want %s", u.ID, result.User.ID)
	}

	if _, err := s.Authenticate(context.Background(), "garbage"); !apperror.IsKind(err, apperror.KindUnauthorized) {
		t.Fatalf("err = %v, want unauthorized", err)
	}
	if _, err := s.Authenticate(context.Background(), result.RefreshToken); !apperror.IsKind(err, apperror.KindUnauthorized) {
		t.Fatalf("refresh as access: err = %v, want unauthorized", err)
	}
}
