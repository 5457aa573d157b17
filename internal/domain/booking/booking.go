package booking

import (
	"context"
	"errors"
	"time"

	"stayhub/internal/domain/listing"
	"stayhub/internal/domain/user"
)

var ErrNotFound = errors.New("booking: not found")

type BookingID string

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Terminal reports whether the status can never change again.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// ActiveStatuses are the statuses that block a listing's dates.
var ActiveStatuses = []Status{StatusPending, StatusConfirmed}

type Booking struct {
	ID         BookingID
	ListingID  listing.ListingID
	UserID     user.ID
	CheckIn    time.Time
	CheckOut   time.Time
	Guests     int
	TotalPrice int64
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	// ListByUser returns the user's bookings newest first.
	ListByUser(ctx context.Context, userID user.ID) ([]*Booking, error)
	// FindOverlapping returns pending/confirmed bookings for the listing whose
	// date range overlaps [checkIn, checkOut) under the inclusive three-clause
	// test. excludeID, when non-empty, is left out of the result.
	FindOverlapping(ctx context.Context, listingID listing.ListingID, checkIn, checkOut time.Time, excludeID BookingID) ([]*Booking, error)
	Insert(ctx context.Context, b *Booking) error
	Update(ctx context.Context, b *Booking) error
}

// Overlaps applies the three-clause interval test with inclusive bounds:
// any shared day counts as a conflict, including back-to-back stays where
// one range's checkout lands on the other's check-in.
func Overlaps(existingIn, existingOut, checkIn, checkOut time.Time) bool {
	if !existingIn.After(checkIn) && !existingOut.Before(checkIn) {
		return true
	}
	if !existingIn.After(checkOut) && !existingOut.Before(checkOut) {
		return true
	}
	return !checkIn.After(existingIn) && !existingOut.After(checkOut)
}

// Nights counts billable nights, rounding any partial day up.
func Nights(checkIn, checkOut time.Time) int64 {
	d := checkOut.Sub(checkIn)
	nights := int64(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		nights++
	}
	return nights
}
