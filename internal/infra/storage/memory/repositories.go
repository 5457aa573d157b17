// Package memory holds in-memory repository implementations backing the unit
// tests and local development without a MongoDB instance.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domainbooking "stayhub/internal/domain/booking"
	domainlisting "stayhub/internal/domain/listing"
	domainreview "stayhub/internal/domain/review"
	domainuser "stayhub/internal/domain/user"
)

type ListingRepository struct {
	mu    sync.RWMutex
	items map[domainlisting.ListingID]*domainlisting.Listing
}

func NewListingRepository() *ListingRepository {
	return &ListingRepository{items: make(map[domainlisting.ListingID]*domainlisting.Listing)}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlisting.ListingID) (*domainlisting.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lst, ok := r.items[id]
	if !ok {
		return nil, domainlisting.ErrNotFound
	}
	clone := *lst
	return &clone, nil
}

func (r *ListingRepository) Find(ctx context.Context, filter domainlisting.Filter) ([]*domainlisting.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainlisting.Listing, 0, len(r.items))
	for _, lst := range r.items {
		if !matchesFilter(lst, filter) {
			continue
		}
		clone := *lst
		matches = append(matches, &clone)
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	if filter.Offset > 0 {
		if filter.Offset >= len(matches) {
			return nil, nil
		}
		matches = matches[filter.Offset:]
	}
	if filter.Limit > 0 && len(matches) > filter.Limit {
		matches = matches[:filter.Limit]
	}
	return matches, nil
}

func (r *ListingRepository) Count(ctx context.Context, filter domainlisting.Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, lst := range r.items {
		if matchesFilter(lst, filter) {
			count++
		}
	}
	return count, nil
}

func (r *ListingRepository) Insert(ctx context.Context, lst *domainlisting.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *lst
	r.items[lst.ID] = &clone
	return nil
}

func (r *ListingRepository) Update(ctx context.Context, lst *domainlisting.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[lst.ID]; !ok {
		return domainlisting.ErrNotFound
	}
	clone := *lst
	r.items[lst.ID] = &clone
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id domainlisting.ListingID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainlisting.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *ListingRepository) SetRating(ctx context.Context, id domainlisting.ListingID, rating *float64, reviewCount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lst, ok := r.items[id]
	if !ok {
		return domainlisting.ErrNotFound
	}
	if rating != nil {
		value := *rating
		lst.Rating = &value
	} else {
		lst.Rating = nil
	}
	lst.ReviewCount = reviewCount
	return nil
}

func matchesFilter(lst *domainlisting.Listing, filter domainlisting.Filter) bool {
	if filter.Category != "" && lst.Category != filter.Category {
		return false
	}
	if filter.MinRate > 0 && lst.NightlyRate < filter.MinRate {
		return false
	}
	if filter.MaxRate > 0 && lst.NightlyRate > filter.MaxRate {
		return false
	}
	if filter.Location != "" && !containsFold(lst.Location, filter.Location) {
		return false
	}
	if filter.Query != "" {
		if !containsFold(lst.Title, filter.Query) &&
			!containsFold(lst.Description, filter.Query) &&
			!containsFold(lst.Location, filter.Query) {
			return false
		}
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID domainuser.ID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainbooking.Booking
	for _, b := range r.items {
		if b.UserID == userID {
			clone := *b
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *BookingRepository) FindOverlapping(ctx context.Context, listingID domainlisting.ListingID, checkIn, checkOut time.Time, excludeID domainbooking.BookingID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainbooking.Booking
	for _, b := range r.items {
		if b.ListingID != listingID || b.ID == excludeID {
			continue
		}
		if b.Status != domainbooking.StatusPending && b.Status != domainbooking.StatusConfirmed {
			continue
		}
		if domainbooking.Overlaps(b.CheckIn, b.CheckOut, checkIn, checkOut) {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *BookingRepository) Insert(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *b
	r.items[b.ID] = &clone
	return nil
}

func (r *BookingRepository) Update(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[b.ID]; !ok {
		return domainbooking.ErrNotFound
	}
	clone := *b
	r.items[b.ID] = &clone
	return nil
}

type ReviewRepository struct {
	mu    sync.RWMutex
	items map[domainreview.ReviewID]*domainreview.Review
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{items: make(map[domainreview.ReviewID]*domainreview.Review)}
}

func (r *ReviewRepository) ByID(ctx context.Context, id domainreview.ReviewID) (*domainreview.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rev, ok := r.items[id]
	if !ok {
		return nil, domainreview.ErrNotFound
	}
	clone := *rev
	return &clone, nil
}

func (r *ReviewRepository) ByUserAndListing(ctx context.Context, userID domainuser.ID, listingID domainlisting.ListingID) (*domainreview.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rev := range r.items {
		if rev.UserID == userID && rev.ListingID == listingID {
			clone := *rev
			return &clone, nil
		}
	}
	return nil, domainreview.ErrNotFound
}

func (r *ReviewRepository) ListByListing(ctx context.Context, listingID domainlisting.ListingID) ([]*domainreview.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainreview.Review
	for _, rev := range r.items {
		if rev.ListingID == listingID {
			clone := *rev
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *ReviewRepository) Insert(ctx context.Context, rev *domainreview.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *rev
	r.items[rev.ID] = &clone
	return nil
}

func (r *ReviewRepository) Update(ctx context.Context, rev *domainreview.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[rev.ID]; !ok {
		return domainreview.ErrNotFound
	}
	clone := *rev
	r.items[rev.ID] = &clone
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id domainreview.ReviewID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainreview.ErrNotFound
	}
	delete(r.items, id)
	return nil
}
