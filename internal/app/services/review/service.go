// Package review handles guest reviews and keeps the listing's denormalized
// rating in sync.
package review

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"stayhub/internal/app/apperror"
	"stayhub/internal/app/events"
	domainbooking "stayhub/internal/domain/booking"
	domainlisting "stayhub/internal/domain/listing"
	domainreview "stayhub/internal/domain/review"
	domainuser "stayhub/internal/domain/user"

	"github.com/google/uuid"
)

type Service struct {
	Reviews  domainreview.Repository
	Bookings domainbooking.Repository
	Listings domainlisting.Repository
	Notifier *events.Notifier
	Logger   *slog.Logger
	Now      func() time.Time
}

type CreateParams struct {
	UserID    domainuser.ID
	ListingID domainlisting.ListingID
	Rating    int
	Comment   string
}

// Create accepts a review only from a guest with a completed stay at the
// listing, at most once per (user, listing) pair, then recomputes the
// listing's rating.
func (s *Service) Create(ctx context.Context, params CreateParams) (*domainreview.Review, error) {
	if !domainreview.ValidRating(params.Rating) {
		return nil, apperror.BadRequest("Rating must be between 1 and 5")
	}
	if err := s.ensureCompletedStay(ctx, params.UserID, params.ListingID); err != nil {
		return nil, err
	}

	existing, err := s.Reviews.ByUserAndListing(ctx, params.UserID, params.ListingID)
	if err != nil && !errors.Is(err, domainreview.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("You have already reviewed this property")
	}

	now := s.now()
	r := &domainreview.Review{
		ID:        domainreview.ReviewID(uuid.NewString()),
		ListingID: params.ListingID,
		UserID:    params.UserID,
		Rating:    params.Rating,
		Comment:   strings.TrimSpace(params.Comment),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Reviews.Insert(ctx, r); err != nil {
		return nil, err
	}
	if err := s.recomputeRating(ctx, params.ListingID); err != nil {
		return nil, err
	}

	if s.Logger != nil {
		s.Logger.Info("review created", "review_id", r.ID, "listing_id", r.ListingID, "rating", r.Rating)
	}
	s.Notifier.ReviewSubmitted(ctx, events.ReviewEvent{
		ReviewID:  string(r.ID),
		ListingID: string(r.ListingID),
		UserID:    string(r.UserID),
		Rating:    r.Rating,
		At:        now,
	})
	return r, nil
}

type UpdateParams struct {
	Rating  *int
	Comment *string
}

func (s *Service) Update(ctx context.Context, id domainreview.ReviewID, params UpdateParams) (*domainreview.Review, error) {
	r, err := s.byID(ctx, id)
	if err != nil {
		return nil, err
	}
	if params.Rating != nil {
		if !domainreview.ValidRating(*params.Rating) {
			return nil, apperror.BadRequest("Rating must be between 1 and 5")
		}
		r.Rating = *params.Rating
	}
	if params.Comment != nil {
		r.Comment = strings.TrimSpace(*params.Comment)
	}
	r.UpdatedAt = s.now()
	if err := s.Reviews.Update(ctx, r); err != nil {
		return nil, err
	}
	if err := s.recomputeRating(ctx, r.ListingID); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) Delete(ctx context.Context, id domainreview.ReviewID) error {
	r, err := s.byID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Reviews.Delete(ctx, id); err != nil {
		return err
	}
	return s.recomputeRating(ctx, r.ListingID)
}

func (s *Service) ListByListing(ctx context.Context, listingID domainlisting.ListingID) ([]*domainreview.Review, error) {
	return s.Reviews.ListByListing(ctx, listingID)
}

func (s *Service) ensureCompletedStay(ctx context.Context, userID domainuser.ID, listingID domainlisting.ListingID) error {
	bookings, err := s.Bookings.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, b := range bookings {
		if b.ListingID == listingID && b.Status == domainbooking.StatusCompleted {
			return nil
		}
	}
	return apperror.Forbidden("You can only review properties you have stayed at")
}

// recomputeRating stores the mean of all remaining reviews on the listing.
// With no reviews left the rating is unset, not zeroed.
func (s *Service) recomputeRating(ctx context.Context, listingID domainlisting.ListingID) error {
	all, err := s.Reviews.ListByListing(ctx, listingID)
	if err != nil {
		return err
	}
	mean, ok := domainreview.MeanRating(all)
	var rating *float64
	if ok {
		rating = &mean
	}
	return s.Listings.SetRating(ctx, listingID, rating, len(all))
}

func (s *Service) byID(ctx context.Context, id domainreview.ReviewID) (*domainreview.Review, error) {
	r, err := s.Reviews.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainreview.ErrNotFound) {
			return nil, apperror.NotFound("Review not found")
		}
		return nil, err
	}
	return r, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
