// Package auth implements registration, login and token refresh. Password
// hashing and token issuance live behind explicit interfaces so the flows
// invoke them deliberately instead of relying on persistence hooks.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"stayhub/internal/app/apperror"
	domainuser "stayhub/internal/domain/user"

	"github.com/google/uuid"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenIssuer interface {
	IssueAccess(userID string) (string, error)
	IssueRefresh(userID string) (string, error)
	ParseAccess(token string) (userID string, err error)
	ParseRefresh(token string) (userID string, err error)
}

type Service struct {
	Users     domainuser.Repository
	Passwords PasswordHasher
	Tokens    TokenIssuer
	Logger    *slog.Logger
	Now       func() time.Time
}

type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

type LoginParams struct {
	Email    string
	Password string
}

type Result struct {
	User         *domainuser.User
	AccessToken  string
	RefreshToken string
}

func (s *Service) Register(ctx context.Context, params RegisterParams) (*Result, error) {
	email := domainuser.NormalizeEmail(params.Email)
	if email == "" {
		return nil, apperror.BadRequest(domainuser.ErrEmailRequired.Error())
	}
	if len(params.Password) < 6 {
		return nil, apperror.BadRequest("Password must be at least 6 characters")
	}

	existing, err := s.Users.ByEmail(ctx, email)
	if err != nil && !errors.Is(err, domainuser.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("User already exists")
	}

	hash, err := s.Passwords.Hash(params.Password)
	if err != nil {
		return nil, err
	}
	u, err := domainuser.New(domainuser.CreateParams{
		ID:           domainuser.ID(uuid.NewString()),
		Email:        email,
		Name:         params.Name,
		PasswordHash: hash,
		Avatar:       generatedAvatarURL(params.Name),
		Now:          s.now(),
	})
	if err != nil {
		return nil, apperror.BadRequest(err.Error())
	}
	if err := s.Users.Insert(ctx, u); err != nil {
		if errors.Is(err, domainuser.ErrEmailAlreadyUsed) {
			return nil, apperror.Conflict("User already exists")
		}
		return nil, err
	}

	result, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("user registered", "user_id", u.ID, "email", u.Email)
	}
	return result, nil
}

func (s *Service) Login(ctx context.Context, params LoginParams) (*Result, error) {
	email := domainuser.NormalizeEmail(params.Email)
	u, err := s.Users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			return nil, apperror.Unauthorized("Invalid credentials")
		}
		return nil, err
	}
	if err := s.Passwords.Compare(u.PasswordHash, params.Password); err != nil {
		return nil, apperror.Unauthorized("Invalid credentials")
	}
	result, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("user authenticated", "user_id", u.ID)
	}
	return result, nil
}

// Refresh exchanges a valid refresh token for a new access token. The token
// must match the one stored on the user, so a rotated-out token is rejected.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.Tokens.ParseRefresh(refreshToken)
	if err != nil {
		return "", apperror.Unauthorized("Invalid refresh token")
	}
	u, err := s.Users.ByID(ctx, domainuser.ID(userID))
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			return "", apperror.Unauthorized("Invalid refresh token")
		}
		return "", err
	}
	if u.RefreshToken == "" || u.RefreshToken != refreshToken {
		return "", apperror.Unauthorized("Invalid refresh token")
	}
	return s.Tokens.IssueAccess(string(u.ID))
}

// Logout invalidates the stored refresh token.
func (s *Service) Logout(ctx context.Context, userID domainuser.ID) error {
	u, err := s.Users.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			return apperror.NotFound("User not found")
		}
		return err
	}
	u.RefreshToken = ""
	u.UpdatedAt = s.now()
	return s.Users.Update(ctx, u)
}

// Authenticate resolves an access token to its user.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*domainuser.User, error) {
	userID, err := s.Tokens.ParseAccess(accessToken)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid token")
	}
	u, err := s.Users.ByID(ctx, domainuser.ID(userID))
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			return nil, apperror.Unauthorized("Invalid token")
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) issueTokens(ctx context.Context, u *domainuser.User) (*Result, error) {
	access, err := s.Tokens.IssueAccess(string(u.ID))
	if err != nil {
		return nil, err
	}
	refresh, err := s.Tokens.IssueRefresh(string(u.ID))
	if err != nil {
		return nil, err
	}
	u.RefreshToken = refresh
	u.UpdatedAt = s.now()
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return &Result{User: u, AccessToken: access, RefreshToken: refresh}, nil
}

func generatedAvatarURL(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Guest"
	}
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
