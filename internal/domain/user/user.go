package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"stayhub/internal/domain/listing"
)

var (
	ErrNotFound         = errors.New("user: not found")
	ErrEmailRequired    = errors.New("user: email is required")
	ErrNameRequired     = errors.New("user: name is required")
	ErrEmailAlreadyUsed = errors.New("user: email already used")
)

type ID string

type User struct {
	ID           ID
	Email        string
	Name         string
	PasswordHash string
	Avatar       string
	RefreshToken string
	Favorites    []listing.ListingID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*User, error)
	ByEmail(ctx context.Context, email string) (*User, error)
	Insert(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
}

type CreateParams struct {
	ID           ID
	Email        string
	Name         string
	PasswordHash string
	Avatar       string
	Now          time.Time
}

func New(params CreateParams) (*User, error) {
	email := NormalizeEmail(params.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	now := params.Now.UTC()
	return &User{
		ID:           params.ID,
		Email:        email,
		Name:         name,
		PasswordHash: params.PasswordHash,
		Avatar:       params.Avatar,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (u *User) IsFavorite(id listing.ListingID) bool {
	for _, fav := range u.Favorites {
		if fav == id {
			return true
		}
	}
	return false
}

func (u *User) AddFavorite(id listing.ListingID, now time.Time) {
	if u.IsFavorite(id) {
		return
	}
	u.Favorites = append(u.Favorites, id)
	u.UpdatedAt = now.UTC()
}

func (u *User) RemoveFavorite(id listing.ListingID, now time.Time) {
	kept := u.Favorites[:0]
	for _, fav := range u.Favorites {
		if fav != id {
			kept = append(kept, fav)
		}
	}
	u.Favorites = kept
	u.UpdatedAt = now.UTC()
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
