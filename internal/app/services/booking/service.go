// Package booking implements the availability and pricing rules for
// reservations: conflict detection, price calculation, capacity checks and
// the cancellation window.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"stayhub/internal/app/apperror"
	"stayhub/internal/app/events"
	domainbooking "stayhub/internal/domain/booking"
	domainlisting "stayhub/internal/domain/listing"
	domainuser "stayhub/internal/domain/user"

	"github.com/google/uuid"
)

// DefaultCancelNotice is the minimum lead time before check-in for a
// cancellation to be accepted.
const DefaultCancelNotice = 24 * time.Hour

type Deps struct {
	Bookings     domainbooking.Repository
	Listings     domainlisting.Repository
	Users        domainuser.Repository
	Notifier     *events.Notifier
	Logger       *slog.Logger
	CancelNotice time.Duration
	Now          func() time.Time
}

type Service struct {
	deps  Deps
	mu    sync.Mutex
	locks map[domainlisting.ListingID]*sync.Mutex
}

func NewService(deps Deps) *Service {
	if deps.CancelNotice <= 0 {
		deps.CancelNotice = DefaultCancelNotice
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Service{
		deps:  deps,
		locks: make(map[domainlisting.ListingID]*sync.Mutex),
	}
}

// lockListing serializes the check-then-write section per listing so that two
// concurrent reservations for the same dates cannot both pass the conflict
// check. The store itself gives no transactional guard here.
func (s *Service) lockListing(id domainlisting.ListingID) func() {
	s.mu.Lock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	s.mu.Unlock()
	lock.Lock()
	return lock.Unlock
}

type Availability struct {
	Available     bool
	ConflictCount int
}

// CheckAvailability reports whether [checkIn, checkOut) is free of
// pending/confirmed bookings for the listing. Pure read.
func (s *Service) CheckAvailability(ctx context.Context, listingID domainlisting.ListingID, checkIn, checkOut time.Time) (Availability, error) {
	conflicts, err := s.deps.Bookings.FindOverlapping(ctx, listingID, checkIn, checkOut, "")
	if err != nil {
		return Availability{}, err
	}
	return Availability{Available: len(conflicts) == 0, ConflictCount: len(conflicts)}, nil
}

type CreateParams struct {
	UserID     domainuser.ID
	ListingID  domainlisting.ListingID
	CheckIn    time.Time
	CheckOut   time.Time
	Guests     int
	TotalPrice int64 // optional; zero means "compute from nights x rate"
}

// Create validates the reservation request and persists it. Preconditions are
// checked in order and the first failure wins.
func (s *Service) Create(ctx context.Context, params CreateParams) (*domainbooking.Booking, error) {
	lst, err := s.deps.Listings.ByID(ctx, params.ListingID)
	if err != nil {
		if errors.Is(err, domainlisting.ErrNotFound) {
			return nil, apperror.NotFound("Listing not found")
		}
		return nil, err
	}

	now := s.deps.Now()
	if startOfDay(params.CheckIn).Before(startOfDay(now)) {
		return nil, apperror.InvalidDate("Check-in date cannot be in the past")
	}
	if !params.CheckOut.After(params.CheckIn) {
		return nil, apperror.InvalidDate("Check-out date must be after check-in date")
	}
	if params.Guests < 1 {
		return nil, apperror.BadRequest("Guest count must be at least 1")
	}
	if params.Guests > lst.Guests {
		return nil, apperror.CapacityExceeded(fmt.Sprintf("This property can accommodate maximum %d guests", lst.Guests))
	}

	unlock := s.lockListing(params.ListingID)
	defer unlock()

	conflicts, err := s.deps.Bookings.FindOverlapping(ctx, params.ListingID, params.CheckIn, params.CheckOut, "")
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, apperror.Conflict("Property is not available for selected dates")
	}

	total := params.TotalPrice
	if total <= 0 {
		total = domainbooking.Nights(params.CheckIn, params.CheckOut) * lst.NightlyRate
	}

	b := &domainbooking.Booking{
		ID:         domainbooking.BookingID(uuid.NewString()),
		ListingID:  params.ListingID,
		UserID:     params.UserID,
		CheckIn:    params.CheckIn.UTC(),
		CheckOut:   params.CheckOut.UTC(),
		Guests:     params.Guests,
		TotalPrice: total,
		// Reservations are auto-confirmed; the pending status only appears
		// for bookings created through other channels.
		Status:    domainbooking.StatusConfirmed,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	if err := s.deps.Bookings.Insert(ctx, b); err != nil {
		return nil, err
	}

	if s.deps.Logger != nil {
		s.deps.Logger.Info("booking created", "booking_id", b.ID, "listing_id", b.ListingID, "user_id", b.UserID, "total_price", b.TotalPrice)
	}
	s.deps.Notifier.BookingCreated(ctx, bookingEvent(b, now))
	return b, nil
}

type UpdateParams struct {
	CheckIn    *time.Time
	CheckOut   *time.Time
	Guests     *int
	TotalPrice *int64
}

// Update applies a partial change to a non-terminal booking. Date changes are
// re-validated against the other active bookings for the listing; unless the
// patch supplies an explicit total, the price is recomputed from the new
// range.
func (s *Service) Update(ctx context.Context, id domainbooking.BookingID, params UpdateParams) (*domainbooking.Booking, error) {
	b, err := s.byID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status.Terminal() {
		return nil, apperror.Forbidden(fmt.Sprintf("Cannot update %s booking", b.Status))
	}

	lst, err := s.deps.Listings.ByID(ctx, b.ListingID)
	if err != nil {
		if errors.Is(err, domainlisting.ErrNotFound) {
			return nil, apperror.NotFound("Listing not found")
		}
		return nil, err
	}

	datesChanged := params.CheckIn != nil || params.CheckOut != nil
	checkIn, checkOut := b.CheckIn, b.CheckOut
	if params.CheckIn != nil {
		checkIn = params.CheckIn.UTC()
	}
	if params.CheckOut != nil {
		checkOut = params.CheckOut.UTC()
	}

	if datesChanged {
		if !checkOut.After(checkIn) {
			return nil, apperror.InvalidDate("Check-out date must be after check-in date")
		}
	}
	if params.Guests != nil {
		if *params.Guests < 1 {
			return nil, apperror.BadRequest("Guest count must be at least 1")
		}
		if *params.Guests > lst.Guests {
			return nil, apperror.CapacityExceeded(fmt.Sprintf("This property can accommodate maximum %d guests", lst.Guests))
		}
	}
	if params.TotalPrice != nil && *params.TotalPrice < 0 {
		return nil, apperror.BadRequest("Total price must be non-negative")
	}

	unlock := s.lockListing(b.ListingID)
	defer unlock()

	if datesChanged {
		conflicts, err := s.deps.Bookings.FindOverlapping(ctx, b.ListingID, checkIn, checkOut, b.ID)
		if err != nil {
			return nil, err
		}
		if len(conflicts) > 0 {
			return nil, apperror.Conflict("Property is not available for selected dates")
		}
	}

	b.CheckIn = checkIn
	b.CheckOut = checkOut
	if params.Guests != nil {
		b.Guests = *params.Guests
	}
	switch {
	case params.TotalPrice != nil:
		b.TotalPrice = *params.TotalPrice
	case datesChanged:
		b.TotalPrice = domainbooking.Nights(checkIn, checkOut) * lst.NightlyRate
	}
	b.UpdatedAt = s.deps.Now().UTC()

	if err := s.deps.Bookings.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Cancel flips a booking to cancelled. The booking must not already be in a
// terminal state and check-in must be at least the notice period away.
func (s *Service) Cancel(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	b, err := s.byID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status == domainbooking.StatusCancelled {
		return nil, apperror.Conflict("Booking is already cancelled")
	}
	if b.Status == domainbooking.StatusCompleted {
		return nil, apperror.Forbidden("Cannot cancel completed booking")
	}

	now := s.deps.Now()
	if b.CheckIn.Sub(now) < s.deps.CancelNotice {
		return nil, apperror.Forbidden(fmt.Sprintf("Cancellation must be made at least %s before check-in", formatNotice(s.deps.CancelNotice)))
	}

	b.Status = domainbooking.StatusCancelled
	b.UpdatedAt = now.UTC()
	if err := s.deps.Bookings.Update(ctx, b); err != nil {
		return nil, err
	}

	if s.deps.Logger != nil {
		s.deps.Logger.Info("booking cancelled", "booking_id", b.ID, "listing_id", b.ListingID)
	}
	s.deps.Notifier.BookingCancelled(ctx, bookingEvent(b, now))
	return b, nil
}

func (s *Service) Get(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	return s.byID(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, userID domainuser.ID) ([]*domainbooking.Booking, error) {
	return s.deps.Bookings.ListByUser(ctx, userID)
}

type Stats struct {
	TotalBookings     int   `json:"totalBookings"`
	ConfirmedBookings int   `json:"confirmedBookings"`
	CancelledBookings int   `json:"cancelledBookings"`
	CompletedBookings int   `json:"completedBookings"`
	UpcomingBookings  int   `json:"upcomingBookings"`
	TotalSpent        int64 `json:"totalSpent"`
}

// StatsByUser aggregates the user's booking history in a single pass.
func (s *Service) StatsByUser(ctx context.Context, userID domainuser.ID) (Stats, error) {
	all, err := s.deps.Bookings.ListByUser(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	now := s.deps.Now()
	var stats Stats
	for _, b := range all {
		stats.TotalBookings++
		switch b.Status {
		case domainbooking.StatusConfirmed:
			stats.ConfirmedBookings++
			if !b.CheckIn.Before(now) {
				stats.UpcomingBookings++
			}
		case domainbooking.StatusCancelled:
			stats.CancelledBookings++
		case domainbooking.StatusCompleted:
			stats.CompletedBookings++
		}
		if b.Status != domainbooking.StatusCancelled {
			stats.TotalSpent += b.TotalPrice
		}
	}
	return stats, nil
}

// Detailed is a booking with its listing and user references expanded for
// API responses.
type Detailed struct {
	Booking *domainbooking.Booking
	Listing *domainlisting.Listing
	User    *domainuser.User
}

// Expand resolves the booking's references. A dangling reference leaves the
// corresponding field nil rather than failing the response.
func (s *Service) Expand(ctx context.Context, b *domainbooking.Booking) (Detailed, error) {
	d := Detailed{Booking: b}
	lst, err := s.deps.Listings.ByID(ctx, b.ListingID)
	if err != nil && !errors.Is(err, domainlisting.ErrNotFound) {
		return Detailed{}, err
	}
	d.Listing = lst
	u, err := s.deps.Users.ByID(ctx, b.UserID)
	if err != nil && !errors.Is(err, domainuser.ErrNotFound) {
		return Detailed{}, err
	}
	d.User = u
	return d, nil
}

func (s *Service) byID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	b, err := s.deps.Bookings.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainbooking.ErrNotFound) {
			return nil, apperror.NotFound("Booking not found")
		}
		return nil, err
	}
	return b, nil
}

func bookingEvent(b *domainbooking.Booking, at time.Time) events.BookingEvent {
	return events.BookingEvent{
		BookingID:  string(b.ID),
		ListingID:  string(b.ListingID),
		UserID:     string(b.UserID),
		CheckIn:    b.CheckIn,
		CheckOut:   b.CheckOut,
		TotalPrice: b.TotalPrice,
		Status:     string(b.Status),
		At:         at.UTC(),
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// formatNotice renders the cancellation notice for error messages, preferring
// whole hours over Duration syntax.
func formatNotice(d time.Duration) string {
	if d%time.Hour == 0 {
		hours := int64(d / time.Hour)
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	return d.String()
}
