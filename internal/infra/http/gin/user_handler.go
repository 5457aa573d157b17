package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	usersvc "stayhub/internal/app/services/user"
	domainlisting "stayhub/internal/domain/listing"
	domainuser "stayhub/internal/domain/user"
)

type UserHandler struct {
	Service *usersvc.Service
	Logger  *slog.Logger
}

type updateProfileRequest struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
}

func (h UserHandler) UpdateProfile(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}
	u, err := h.Service.UpdateProfile(c.Request.Context(), domainuser.ID(p.ID), usersvc.UpdateProfileParams{
		Name:   req.Name,
		Avatar: req.Avatar,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respondData(c, http.StatusOK, newUserView(u))
}

func (h UserHandler) Favorites(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	favorites, err := h.Service.Favorites(c.Request.Context(), domainuser.ID(p.ID))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respondList(c, newListingViews(favorites), len(favorites))
}

func (h UserHandler) AddFavorite(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	favorites, err := h.Service.AddFavorite(c.Request.Context(), domainuser.ID(p.ID), domainlisting.ListingID(c.Param("listingId")))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respondList(c, newListingViews(favorites), len(favorites))
}

func (h UserHandler) RemoveFavorite(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	favorites, err := h.Service.RemoveFavorite(c.Request.Context(), domainuser.ID(p.ID), domainlisting.ListingID(c.Param("listingId")))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respondList(c, newListingViews(favorites), len(favorites))
}
