package listing

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound        = errors.New("listing: not found")
	ErrTitleRequired   = errors.New("listing: title is required")
	ErrInvalidCategory = errors.New("listing: invalid category")
	ErrInvalidRate     = errors.New("listing: nightly rate must be non-negative")
	ErrGuestsLimit     = errors.New("listing: guest capacity must be at least 1")
)

type ListingID string

type Category string

const (
	CategoryBeach    Category = "beach"
	CategoryMountain Category = "mountain"
	CategoryCity     Category = "city"
	CategoryLuxury   Category = "luxury"
	CategoryTrending Category = "trending"
)

func ParseCategory(raw string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(raw))) {
	case CategoryBeach:
		return CategoryBeach, nil
	case CategoryMountain:
		return CategoryMountain, nil
	case CategoryCity:
		return CategoryCity, nil
	case CategoryLuxury:
		return CategoryLuxury, nil
	case CategoryTrending:
		return CategoryTrending, nil
	default:
		return "", ErrInvalidCategory
	}
}

type Host struct {
	Name     string
	Verified bool
}

// Listing is a rentable property. NightlyRate and booking totals are kept in
// minor currency units to avoid floating point drift.
type Listing struct {
	ID          ListingID
	Title       string
	Description string
	Location    string
	NightlyRate int64
	Image       string
	Images      []string
	Category    Category
	Rating      *float64
	ReviewCount int
	Bedrooms    int
	Bathrooms   int
	Guests      int
	Amenities   []string
	Host        Host
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Filter narrows catalog queries. Zero values mean "no constraint".
type Filter struct {
	Category Category
	Query    string
	Location string
	MinRate  int64
	MaxRate  int64
	Limit    int
	Offset   int
}

type Repository interface {
	ByID(ctx context.Context, id ListingID) (*Listing, error)
	Find(ctx context.Context, filter Filter) ([]*Listing, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	Insert(ctx context.Context, listing *Listing) error
	Update(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id ListingID) error
	// SetRating stores the recomputed denormalized rating; a nil rating
	// unsets the field entirely.
	SetRating(ctx context.Context, id ListingID, rating *float64, reviewCount int) error
}

type CreateParams struct {
	ID          ListingID
	Title       string
	Description string
	Location    string
	NightlyRate int64
	Image       string
	Images      []string
	Category    Category
	Bedrooms    int
	Bathrooms   int
	Guests      int
	Amenities   []string
	Host        Host
	Now         time.Time
}

func New(params CreateParams) (*Listing, error) {
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleRequired
	}
	if params.NightlyRate < 0 {
		return nil, ErrInvalidRate
	}
	if params.Guests < 1 {
		return nil, ErrGuestsLimit
	}
	if _, err := ParseCategory(string(params.Category)); err != nil {
		return nil, err
	}
	now := params.Now.UTC()
	return &Listing{
		ID:          params.ID,
		Title:       strings.TrimSpace(params.Title),
		Description: strings.TrimSpace(params.Description),
		Location:    strings.TrimSpace(params.Location),
		NightlyRate: params.NightlyRate,
		Image:       strings.TrimSpace(params.Image),
		Images:      append([]string(nil), params.Images...),
		Category:    params.Category,
		Bedrooms:    params.Bedrooms,
		Bathrooms:   params.Bathrooms,
		Guests:      params.Guests,
		Amenities:   append([]string(nil), params.Amenities...),
		Host:        params.Host,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
