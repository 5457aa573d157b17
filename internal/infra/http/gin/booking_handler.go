package ginserver

import (
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	bookingsvc "stayhub/internal/app/services/booking"
	domainbooking "stayhub/internal/domain/booking"
	domainlisting "stayhub/internal/domain/listing"
	domainuser "stayhub/internal/domain/user"
)

type BookingHandler struct {
	Service *bookingsvc.Service
	Logger  *slog.Logger
}

type createBookingRequest struct {
	ListingID  string `json:"listingId" binding:"required"`
	CheckIn    string `json:"checkIn" binding:"required"`
	CheckOut   string `json:"checkOut" binding:"required"`
	Guests     int    `json:"guests" binding:"required"`
	TotalPrice int64  `json:"totalPrice"`
}

func (h BookingHandler) Create(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Listing, dates and guest count are required"})
		return
	}
	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid check-in date"})
		return
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid check-out date"})
		return
	}
	b, err := h.Service.Create(c.Request.Context(), bookingsvc.CreateParams{
		UserID:     domainuser.ID(p.ID),
		ListingID:  domainlisting.ListingID(req.ListingID),
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     req.Guests,
		TotalPrice: req.TotalPrice,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	detailed, err := h.Service.Expand(c.Request.Context(), b)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respondMessage(c, http.StatusCreated, newDetailedBookingView(detailed), "Booking confirmed")
}

func (h BookingHandler) Get(c *gin.Context) {
	if _, ok := requireAuth(c); !ok {
		return
	}
	b, err := h.Service.Get(c.Request.Context(), domainbooking.BookingID(c.Param("id")))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	detailed, err := h.Service.Expand(c.Request.Context(), b)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respondData(c, http.StatusOK, newDetailedBookingView(detailed))
}

func (h BookingHandler) ListByUser(c *gin.Context) {
	if _, ok := requireAuth(c); !ok {
		return
	}
	bookings, err := h.Service.ListByUser(c.Request.Context(), domainuser.ID(c.Param("userId")))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	views := make([]bookingView, 0, len(bookings))
	for _, b := range bookings {
		detailed, err := h.Service.Expand(c.Request.Context(), b)
		if err != nil {
			respondError(c, h.Logger, err)
			return
		}
		views = append(views, newDetailedBookingView(detailed))
	}
	respondList(c, views, len(views))
}

func (h BookingHandler) StatsByUser(c *gin.Context) {
	if _, ok := requireAuth(c); !ok {
		return
	}
	stats, err := h.Service.StatsByUser(c.Request.Context(), domainuser.ID(c.Param("userId")))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respondData(c, http.StatusOK, stats)
}

func (h BookingHandler) CheckAvailability(c *gin.Context) {
	if _, ok := requireAuth(c); !ok {
		return
	}
	listingID := c.Query("listingId")
	if listingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "listingId is required"})
		return
	}
	checkIn, err := parseDate(c.Query("checkIn"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid check-in date"})
		return
	}
	checkOut, err := parseDate(c.Query("checkOut"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid check-out date"})
		return
	}
	availability, err := h.Service.CheckAvailability(c.Request.Context(), domainlisting.ListingID(listingID), checkIn, checkOut)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"available":     availability.Available,
		"conflictCount": availability.ConflictCount,
	})
}

type updateBookingRequest struct {
	CheckIn    *string `json:"checkIn"`
	CheckOut   *string `json:"checkOut"`
	Guests     *int    `json:"guests"`
	TotalPrice *int64  `json:"totalPrice"`
}

func (h BookingHandler) Update(c *gin.Context) {
	if _, ok := requireAuth(c); !ok {
		return
	}
	var req updateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}
	params := bookingsvc.UpdateParams{Guests: req.Guests, TotalPrice: req.TotalPrice}
	var err error
	if params.CheckIn, err = parseOptionalDate(req.CheckIn); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid check-in date"})
		return
	}
	if params.CheckOut, err = parseOptionalDate(req.CheckOut); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid check-out date"})
		return
	}
	b, err := h.Service.Update(c.Request.Context(), domainbooking.BookingID(c.Param("id")), params)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	detailed, err := h.Service.Expand(c.Request.Context(), b)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respondData(c, http.StatusOK, newDetailedBookingView(detailed))
}

func (h BookingHandler) Cancel(c *gin.Context) {
	if _, ok := requireAuth(c); !ok {
		return
	}
	b, err := h.Service.Cancel(c.Request.Context(), domainbooking.BookingID(c.Param("id")))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	detailed, err := h.Service.Expand(c.Request.Context(), b)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respondMessage(c, http.StatusOK, newDetailedBookingView(detailed), "Booking cancelled")
}

func parseOptionalDate(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := parseDate(*raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
