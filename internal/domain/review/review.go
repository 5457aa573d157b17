package review

import (
	"context"
	"errors"
	"math"
	"time"

	"stayhub/internal/domain/listing"
	"stayhub/internal/domain/user"
)

var (
	ErrNotFound      = errors.New("review: not found")
	ErrInvalidRating = errors.New("review: rating must be between 1 and 5")
)

type ReviewID string

type Review struct {
	ID        ReviewID
	ListingID listing.ListingID
	UserID    user.ID
	Rating    int
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ReviewID) (*Review, error)
	// ByUserAndListing reports an existing review for the pair, if any.
	ByUserAndListing(ctx context.Context, userID user.ID, listingID listing.ListingID) (*Review, error)
	// ListByListing returns reviews newest first.
	ListByListing(ctx context.Context, listingID listing.ListingID) ([]*Review, error)
	Insert(ctx context.Context, r *Review) error
	Update(ctx context.Context, r *Review) error
	Delete(ctx context.Context, id ReviewID) error
}

func ValidRating(rating int) bool {
	return rating >= 1 && rating <= 5
}

// MeanRating computes the arithmetic mean of the ratings rounded to one
// decimal. The second return is false when there are no reviews, in which
// case the listing's rating must be unset rather than zeroed.
func MeanRating(reviews []*Review) (float64, bool) {
	if len(reviews) == 0 {
		return 0, false
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	mean := float64(sum) / float64(len(reviews))
	return math.Round(mean*10) / 10, true
}
