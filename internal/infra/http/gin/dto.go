package ginserver

import (
	"time"

	bookingsvc "stayhub/internal/app/services/booking"
	domainbooking "stayhub/internal/domain/booking"
	domainlisting "stayhub/internal/domain/listing"
	domainreview "stayhub/internal/domain/review"
	domainuser "stayhub/internal/domain/user"
)

type hostView struct {
	Name     string `json:"name"`
	Verified bool   `json:"verified"`
}

type listingView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Price       int64     `json:"price"`
	Image       string    `json:"image"`
	Images      []string  `json:"images"`
	Category    string    `json:"category"`
	Rating      *float64  `json:"rating"`
	ReviewCount int       `json:"reviewCount"`
	Bedrooms    int       `json:"bedrooms"`
	Bathrooms   int       `json:"bathrooms"`
	Guests      int       `json:"guests"`
	Amenities   []string  `json:"amenities"`
	Host        hostView  `json:"host"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newListingView(lst *domainlisting.Listing) listingView {
	images := lst.Images
	if images == nil {
		images = []string{}
	}
	amenities := lst.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	return listingView{
		ID:          string(lst.ID),
		Title:       lst.Title,
		Description: lst.Description,
		Location:    lst.Location,
		Price:       lst.NightlyRate,
		Image:       lst.Image,
		Images:      images,
		Category:    string(lst.Category),
		Rating:      lst.Rating,
		ReviewCount: lst.ReviewCount,
		Bedrooms:    lst.Bedrooms,
		Bathrooms:   lst.Bathrooms,
		Guests:      lst.Guests,
		Amenities:   amenities,
		Host:        hostView{Name: lst.Host.Name, Verified: lst.Host.Verified},
		CreatedAt:   lst.CreatedAt,
		UpdatedAt:   lst.UpdatedAt,
	}
}

func newListingViews(listings []*domainlisting.Listing) []listingView {
	views := make([]listingView, 0, len(listings))
	for _, lst := range listings {
		views = append(views, newListingView(lst))
	}
	return views
}

type userView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
}

func newUserView(u *domainuser.User) userView {
	return userView{
		ID:        string(u.ID),
		Email:     u.Email,
		Name:      u.Name,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
}

type bookingView struct {
	ID         string       `json:"id"`
	ListingID  string       `json:"listingId"`
	UserID     string       `json:"userId"`
	CheckIn    time.Time    `json:"checkIn"`
	CheckOut   time.Time    `json:"checkOut"`
	Guests     int          `json:"guests"`
	TotalPrice int64        `json:"totalPrice"`
	Status     string       `json:"status"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
	Listing    *listingView `json:"listing,omitempty"`
	User       *userView    `json:"user,omitempty"`
}

func newBookingView(b *domainbooking.Booking) bookingView {
	return bookingView{
		ID:         string(b.ID),
		ListingID:  string(b.ListingID),
		UserID:     string(b.UserID),
		CheckIn:    b.CheckIn,
		CheckOut:   b.CheckOut,
		Guests:     b.Guests,
		TotalPrice: b.TotalPrice,
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

func newDetailedBookingView(d bookingsvc.Detailed) bookingView {
	view := newBookingView(d.Booking)
	if d.Listing != nil {
		lv := newListingView(d.Listing)
		view.Listing = &lv
	}
	if d.User != nil {
		uv := newUserView(d.User)
		view.User = &uv
	}
	return view
}

type reviewView struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listingId"`
	UserID    string    `json:"userId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newReviewView(r *domainreview.Review) reviewView {
	return reviewView{
		ID:        string(r.ID),
		ListingID: string(r.ListingID),
		UserID:    string(r.UserID),
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
