package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	reviewsvc "stayhub/internal/app/services/review"
	domainlisting "stayhub/internal/domain/listing"
	domainreview "stayhub/internal/domain/review"
	domainuser "stayhub/internal/domain/user"
)

type ReviewHandler struct {
	Service *reviewsvc.Service
	Logger  *slog.Logger
}

func (h ReviewHandler) ListByListing(c *gin.Context) {
	reviews, err := h.Service.ListByListing(c.Request.Context(), domainlisting.ListingID(c.Param("listingId")))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	views := make([]reviewView, 0, len(reviews))
	for _, r := range reviews {
		views = append(views, newReviewView(r))
	}
	respondList(c, views, len(views))
}

type createReviewRequest struct {
	ListingID string `json:"listingId" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
	Comment   string `json:"comment"`
}

func (h ReviewHandler) Create(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Listing and rating are required"})
		return
	}
	r, err := h.Service.Create(c.Request.Context(), reviewsvc.CreateParams{
		UserID:    domainuser.ID(p.ID),
		ListingID: domainlisting.ListingID(req.ListingID),
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respondData(c, http.StatusCreated, newReviewView(r))
}

type updateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

func (h ReviewHandler) Update(c *gin.Context) {
	if _, ok := requireAuth(c); !ok {
		return
	}
	var req updateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}
	r, err := h.Service.Update(c.Request.Context(), domainreview.ReviewID(c.Param("id")), reviewsvc.UpdateParams{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respondData(c, http.StatusOK, newReviewView(r))
}

func (h ReviewHandler) Delete(c *gin.Context) {
	if _, ok := requireAuth(c); !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), domainreview.ReviewID(c.Param("id"))); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respondMessage(c, http.StatusOK, nil, "Review deleted")
}
