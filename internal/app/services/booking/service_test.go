package booking

import (
	"context"
	"strings"
	"testing"
	"time"

	"stayhub/internal/app/apperror"
	domainbooking "stayhub/internal/domain/booking"
	domainlisting "stayhub/internal/domain/listing"
	domainuser "stayhub/internal/domain/user"
	"stayhub/internal/infra/storage/memory"
)

var testNow = time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2026, time.June, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	service  *Service
	bookings *memory.BookingRepository
	listings *memory.ListingRepository
	users    *memory.UserRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	bookings := memory.NewBookingRepository()
	listings := memory.NewListingRepository()
	users := memory.NewUserRepository()
	service := NewService(Deps{
		Bookings: bookings,
		Listings: listings,
		Users:    users,
		Now:      func() time.Time { return testNow },
	})
	return fixture{service: service, bookings: bookings, listings: listings, users: users}
}

func (f fixture) seedListing(t *testing.T, id string, rate int64, guests int) {
	t.Helper()
	err := f.listings.Insert(context.Background(), &domainlisting.Listing{
		ID:          domainlisting.ListingID(id),
		Title:       "Seaside Cottage",
		NightlyRate: rate,
		Guests:      guests,
		Category:    domainlisting.CategoryBeach,
		CreatedAt:   testNow,
		UpdatedAt:   testNow,
	})
	if err != nil {
		t.Fatalf("seed listing: %v", err)
	}
}

func (f fixture) seedBooking(t *testing.T, id string, listingID string, checkIn, checkOut time.Time, status domainbooking.Status) {
	t.Helper()
	err := f.bookings.Insert(context.Background(), &domainbooking.Booking{
		ID:        domainbooking.BookingID(id),
		ListingID: domainlisting.ListingID(listingID),
		UserID:    "guest-1",
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests:    2,
		Status:    status,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	})
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}
}

func TestCreateComputesPriceFromNights(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "l1", 10000, 4)

	b, err := f.service.Create(context.Background(), CreateParams{
		UserID:    "guest-1",
		ListingID: "l1",
		CheckIn:   day(10),
		CheckOut:  day(13),
		Guests:    2,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.TotalPrice != 30000 {
		t.Fatalf("TotalPrice = %d, want 30000", b.TotalPrice)
	}
	if b.Status != domainbooking.StatusConfirmed {
		t.Fatalf("Status = %s, want confirmed", b.Status)
	}
	if b.ID == "" {
		t.Fatal("expected generated booking id")
	}
}

func TestCreateKeepsSuppliedTotal(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "l1", 10000, 4)

	b, err := f.service.Create(context.Background(), CreateParams{
		UserID:     "guest-1",
		ListingID:  "l1",
		CheckIn:    day(10),
		CheckOut:   day(13),
		Guests:     2,
		TotalPrice: 25000,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.TotalPrice != 25000 {
		t.Fatalf("TotalPrice = %d, want supplied 25000", b.TotalPrice)
	}
}

func TestCreateRejectsUnknownListing(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), CreateParams{
		UserID:    "guest-1",
		ListingID: "missing",
		CheckIn:   day(10),
		CheckOut:  day(12),
		Guests:    2,
	})
	if !apperror.IsKind(err, apperror.KindNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestCreateRejectsPastCheckIn(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "l1", 10000, 4)

	_, err := f.service.Create(context.Background(), CreateParams{
		UserID:    "guest-1",
		ListingID: "l1",
		CheckIn:   day(1).AddDate(0, 0, -2),
		CheckOut:  day(12),
		Guests:    2,
	})
	if !apperror.IsKind(err, apperror.KindInvalidDate) {
		t.Fatalf("err = %v, want invalid date", err)
	}
}

func TestCreateAllowsSameDayCheckIn(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "l1", 10000, 4)

	// Check-in earlier today is fine; only earlier calendar days are past.
	_, err := f.service.Create(context.Background(), CreateParams{
		UserID:    "guest-1",
		ListingID: "l1",
		CheckIn:   day(1),
		CheckOut:  day(3),
		Guests:    2,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
}

func TestCreateRejectsInvertedDates(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "l1", 10000, 4)

	for _, checkOut := range []time.Time{day(10), day(9)} {
		_, err := f.service.Create(context.Background(), CreateParams{
			UserID:    "guest-1",
			ListingID: "l1",
			CheckIn:   day(10),
			CheckOut:  checkOut,
			Guests:    2,
		})
		if !apperror.IsKind(err, apperror.KindInvalidDate) {
			t.Fatalf("checkOut %v: err = %v, want invalid date", checkOut, err)
		}
	}
}

func TestCreateRejectsNonPositiveGuests(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "l1", 10000, 4)

	for _, guests := range []int{0, -3} {
		_, err := f.service.Create(context.Background(), CreateParams{
			UserID:    "guest-1",
			ListingID: "l1",
			CheckIn:   day(10),
			CheckOut:  day(12),
			Guests:    guests,
		})
		if !apperror.IsKind(err, apperror.KindBadRequest) {
			t.Fatalf("guests %d: err = %v, want bad request", guests, err)
		}
	}
}

func TestCreateRejectsOverCapacity(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "l1", 10000, 4)

	_, err := f.service.Create(context.Background(), CreateParams{
		UserID:    "guest-1",
		ListingID: "l1",
		CheckIn:   day(10),
		CheckOut:  day(12),
		Guests:    5,
	})
	if !apperror.IsKind(err, apperror.KindCapacityExceeded) {
		t.Fatalf("err = %v, want capacity exceeded", err)
	}
	if !strings.Contains(err.Error(), "4") {
		t.Fatalf("message %q should name the capacity", err.Error())
	}
}

func TestCreateRejectsOverlappingDates(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "l1", 10000, 4)
	f.seedBooking(t, "b1", "l1", day(10), day(15), domainbooking.StatusConfirmed)

	_, err := f.service.Create(context.Background(), CreateParams{
		UserID:    "guest-2",
		ListingID: "l1",
		CheckIn:   day(12),
		CheckOut:  day(20),
		Guests:    2,
	})
	if !apperror.IsKind(err, apperror.KindConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestCreateIgnoresTerminalBookings(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "l1", 10000, 4)
	f.seedBooking(t, "b1", "l1", day(10), day(15), domainbooking.StatusCancelled)
	f.seedBooking(t, "b2", "l1", day(10), day(15), domainbooking.StatusCompleted)

	if _, err := f.service.Create(context.Background(), CreateParams{
		UserID:    "guest-2",
		ListingID: "l1",
		CheckIn:   day(12),
		CheckOut:  day(14),
		Guests:    2,
	}); err != nil {
		t.Fatalf("Create over terminal bookings: %v", err)
	}
}

func TestCheckAvailability(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "l1", 10000, 4)

	got, err := f.service.CheckAvailability(context.Background(), "l1", day(10), day(15))
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if !got.Available || got.ConflictCount != 0 {
		t.Fatalf("got %+v, want available with no conflicts", got)
	}

	f.seedBooking(t, "b1", "l1", day(12), day(14), domainbooking.StatusConfirmed)
	got, err = f.service.CheckAvailability(context.Background(), "l1", day(10), day(15))
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if got.Available || got.ConflictCount != 1 {
		t.Fatalf("got %+v, want unavailable with one conflict", got)
	}
}

func TestUpdateRecomputesPriceOnDateChange(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "l1", 10000, 4)
	f.seedBooking(t, "b1", "l1", day(10), day(13), domainbooking.StatusConfirmed)

	newOut := day(15)
	b, err := f.service.Update(context.Background(), "b1", UpdateParams{CheckOut: &newOut})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if b.TotalPrice != 50000 {
		t.Fatalf("TotalPrice = %d, want 50000 after extending to five nights", b.TotalPrice)
	}
}

func TestUpdateKeepsExplicitTotal(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "l1", 10000, 4)
	f.seedBooking(t, "b1", "l1", day(10), day(13), domainbooking.StatusConfirmed)

	newOut := day(15)
	total := int64(42000)
	b, err := f.service.Update(context.Background(), "b1", UpdateParams{CheckOut: &newOut, TotalPrice: &total})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if b.TotalPrice != 42000 {
		t.Fatalf("TotalPrice = %d, want explicit 42000", b.TotalPrice)
	}
}

func TestUpdateRejectsNonPositiveGuests(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "l1", 10000, 4)
	f.seedBooking(t, "b1", "l1", day(10), day(13), domainbooking.StatusConfirmed)

	for _, guests := range []int{0, -1} {
		g := guests
		_, err := f.service.Update(context.Background(), "b1", UpdateParams{Guests: &g})
		if !apperror.IsKind(err, apperror.KindBadRequest) {
			t.Fatalf("guests %d: err = %v, want bad request", guests, err)
		}
	}

	b, err := f.service.Get(context.Background(), "b1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if b.Guests != 2 {
		t.Fatalf("Guests = %d, rejected patch should not persist", b.Guests)
	}
}

func TestUpdateRejectsNegativeTotal(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "l1", 10000, 4)
	f.seedBooking(t, "b1", "l1", day(10), day(13), domainbooking.StatusConfirmed)

	total := int64(-500)
	_, err := f.service.Update(context.Background(), "b1", UpdateParams{TotalPrice: &total})
	if !apperror.IsKind(err, apperror.KindBadRequest) {
		t.Fatalf("err = %v, want bad request", err)
	}
}

func TestUpdateRejectsTerminalBooking(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "l1", 10000, 4)
	f.seedBooking(t, "b1", "l1", day(10), day(13), domainbooking.StatusCompleted)

	guests := 3
	_, err := f.service.Update(context.Background(), "b1", UpdateParams{Guests: &guests})
	if !apperror.IsKind(err, apperror.KindForbidden) {
		t.Fatalf("err = %v, want forbidden", err)
	}
}

func TestUpdateExcludesSelfFromConflictCheck(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "l1", 10000, 4)
	f.seedBooking(t, "b1", "l1", day(10), day(13), domainbooking.StatusConfirmed)

	// Shifting within its own range must not conflict with itself.
	newIn, newOut := day(11), day(14)
	if _, err := f.service.Update(context.Background(), "b1", UpdateParams{CheckIn: &newIn, CheckOut: &newOut}); err != nil {
		t.Fatalf("Update: %v", err)
	}
}

func TestUpdateRejectsConflictWithOtherBooking(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "l1", 10000, 4)
	f.seedBooking(t, "b1", "l1", day(10), day(13), domainbooking.StatusConfirmed)
	f.seedBooking(t, "b2", "l1", day(20), day(25), domainbooking.StatusConfirmed)

	newIn, newOut := day(21), day(23)
	_, err := f.service.Update(context.Background(), "b1", UpdateParams{CheckIn: &newIn, CheckOut: &newOut})
	if !apperror.IsKind(err, apperror.KindConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestCancelHonorsNoticePeriod(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "l1", 10000, 4)

	// Check-in only 10 hours away: inside the 24h notice window.
	f.seedBooking(t, "soon", "l1", testNow.Add(10*time.Hour), testNow.Add(72*time.Hour), domainbooking.StatusConfirmed)
	_, err := f.service.Cancel(context.Background(), "soon")
	if !apperror.IsKind(err, apperror.KindForbidden) {
		t.Fatalf("err = %v, want forbidden inside notice window", err)
	}

	f.seedBooking(t, "later", "l1", testNow.Add(48*time.Hour), testNow.Add(96*time.Hour), domainbooking.StatusConfirmed)
	b, err := f.service.Cancel(context.Background(), "later")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if b.Status != domainbooking.StatusCancelled {
		t.Fatalf("Status = %s, want cancelled", b.Status)
	}
}

func TestCancelMessageNamesConfiguredNotice(t *testing.T) {
	f := newFixture(t)
	f.service = NewService(Deps{
		Bookings:     f.bookings,
		Listings:     f.listings,
		Users:        f.users,
		CancelNotice: 48 * time.Hour,
		Now:          func() time.Time { return testNow },
	})
	f.seedListing(t, "l1", 10000, 4)
	f.seedBooking(t, "b1", "l1", testNow.Add(30*time.Hour), testNow.Add(96*time.Hour), domainbooking.StatusConfirmed)

	_, err := f.service.Cancel(context.Background(), "b1")
	if !apperror.IsKind(err, apperror.KindForbidden) {
		t.Fatalf("err = %v, want forbidden", err)
	}
	if !strings.Contains(err.Error(), "48 hours") {
		t.Fatalf("message %q should name the configured notice", err.Error())
	}
}

func TestCancelRejectsTerminalStates(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "l1", 10000, 4)
	f.seedBooking(t, "done", "l1", day(10), day(13), domainbooking.StatusCompleted)
	f.seedBooking(t, "gone", "l1", day(20), day(23), domainbooking.StatusCancelled)

	if _, err := f.service.Cancel(context.Background(), "done"); !apperror.IsKind(err, apperror.KindForbidden) {
		t.Fatalf("completed: err = %v, want forbidden", err)
	}
	if _, err := f.service.Cancel(context.Background(), "gone"); !apperror.IsKind(err, apperror.KindConflict) {
		t.Fatalf("cancelled: err = %v, want conflict", err)
	}
}

func TestStatsByUser(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "l1", 10000, 4)

	seed := func(id string, checkIn time.Time, status domainbooking.Status, total int64) {
		t.Helper()
		if err := f.bookings.Insert(context.Background(), &domainbooking.Booking{
			ID:         domainbooking.BookingID(id),
			ListingID:  "l1",
			UserID:     "guest-1",
			CheckIn:    checkIn,
			CheckOut:   checkIn.AddDate(0, 0, 3),
			Guests:     2,
			TotalPrice: total,
			Status:     status,
			CreatedAt:  testNow,
			UpdatedAt:  testNow,
		}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	seed("b1", day(10), domainbooking.StatusConfirmed, 30000) // upcoming
	seed("b2", day(1).AddDate(0, -1, 0), domainbooking.StatusCompleted, 20000)
	seed("b3", day(20), domainbooking.StatusCancelled, 15000)

	stats, err := f.service.StatsByUser(context.Background(), "guest-1")
	if err != nil {
		t.Fatalf("StatsByUser: %v", err)
	}
	want := Stats{
		TotalBookings:     3,
		ConfirmedBookings: 1,
		CancelledBookings: 1,
		CompletedBookings: 1,
		UpcomingBookings:  1,
		TotalSpent:        50000,
	}
	if stats != want {
		t.Fatalf("stats = %+v, want %+v", stats, want)
	}
}

func TestExpandToleratesDanglingReferences(t *testing.T) {
	f := newFixture(t)
	b := &domainbooking.Booking{
		ID:        "b1",
		ListingID: "deleted",
		UserID:    "gone",
		CheckIn:   day(10),
		CheckOut:  day(13),
	}
	d, err := f.service.Expand(context.Background(), b)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if d.Listing != nil || d.User != nil {
		t.Fatalf("expected nil references, got %+v", d)
	}
	if d.Booking != b {
		t.Fatal("expected booking carried through")
	}
}

func TestExpandResolvesReferences(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "l1", 10000, 4)
	if err := f.users.Insert(context.Background(), &domainuser.User{ID: "guest-1", Email: "g@example.com", Name: "Guest"}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	f.seedBooking(t, "b1", "l1", day(10), day(13), domainbooking.StatusConfirmed)

	b, err := f.service.Get(context.Background(), "b1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	d, err := f.service.Expand(context.Background(), b)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if d.Listing == nil || d.Listing.ID != "l1" {
		t.Fatalf("listing not expanded: %+v", d.Listing)
	}
	if d.User == nil || d.User.ID != "guest-1" {
		t.Fatalf("user not expanded: %+v", d.User)
	}
}
