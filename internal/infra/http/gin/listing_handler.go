package ginserver

import (
	"log/slog"
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"

	listingsvc "stayhub/internal/app/services/listing"
	domainlisting "stayhub/internal/domain/listing"
)

type ListingHandler struct {
	Service *listingsvc.Service
	Logger  *slog.Logger
}

func (h ListingHandler) List(c *gin.Context) {
	filter := domainlisting.Filter{
		Location: c.Query("location"),
		MinRate:  parseInt64Query(c, "minPrice"),
		MaxRate:  parseInt64Query(c, "maxPrice"),
		Limit:    parseIntQuery(c, "limit"),
		Offset:   parseIntQuery(c, "offset"),
	}
	if raw := c.Query("category"); raw != "" {
		category, err := domainlisting.ParseCategory(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid category"})
			return
		}
		filter.Category = category
	}
	page, err := h.Service.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respondPage(c, newListingViews(page.Items), pagination{
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
}

func (h ListingHandler) ByCategory(c *gin.Context) {
	listings, err := h.Service.ByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respondList(c, newListingViews(listings), len(listings))
}

func (h ListingHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Search query is required"})
		return
	}
	listings, err := h.Service.Search(c.Request.Context(), domainlisting.Filter{
		Query:  query,
		Limit:  parseIntQuery(c, "limit"),
		Offset: parseIntQuery(c, "offset"),
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respondList(c, newListingViews(listings), len(listings))
}

func (h ListingHandler) Get(c *gin.Context) {
	lst, err := h.Service.Get(c.Request.Context(), domainlisting.ListingID(c.Param("id")))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respondData(c, http.StatusOK, newListingView(lst))
}

type createListingRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Price       int64    `json:"price"`
	Image       string   `json:"image"`
	Images      []string `json:"images"`
	Category    string   `json:"category" binding:"required"`
	Bedrooms    int      `json:"bedrooms"`
	Bathrooms   int      `json:"bathrooms"`
	Guests      int      `json:"guests" binding:"required"`
	Amenities   []string `json:"amenities"`
	HostName    string   `json:"hostName"`
}

func (h ListingHandler) Create(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	var req createListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Title, category and guest capacity are required"})
		return
	}
	hostName := req.HostName
	if hostName == "" {
		hostName = p.Name
	}
	lst, err := h.Service.Create(c.Request.Context(), domainlisting.CreateParams{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		NightlyRate: req.Price,
		Image:       req.Image,
		Images:      req.Images,
		Category:    domainlisting.Category(req.Category),
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		Guests:      req.Guests,
		Amenities:   req.Amenities,
		Host:        domainlisting.Host{Name: hostName},
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respondData(c, http.StatusCreated, newListingView(lst))
}

type updateListingRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Location    *string  `json:"location"`
	Price       *int64   `json:"price"`
	Image       *string  `json:"image"`
	Images      []string `json:"images"`
	Category    *string  `json:"category"`
	Bedrooms    *int     `json:"bedrooms"`
	Bathrooms   *int     `json:"bathrooms"`
	Guests      *int     `json:"guests"`
	Amenities   []string `json:"amenities"`
}

func (h ListingHandler) Update(c *gin.Context) {
	if _, ok := requireAuth(c); !ok {
		return
	}
	var req updateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}
	lst, err := h.Service.Update(c.Request.Context(), domainlisting.ListingID(c.Param("id")), listingsvc.UpdateParams{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		NightlyRate: req.Price,
		Image:       req.Image,
		Images:      req.Images,
		Category:    req.Category,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		Guests:      req.Guests,
		Amenities:   req.Amenities,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respondData(c, http.StatusOK, newListingView(lst))
}

func (h ListingHandler) Delete(c *gin.Context) {
	if _, ok := requireAuth(c); !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), domainlisting.ListingID(c.Param("id"))); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respondMessage(c, http.StatusOK, nil, "Listing deleted")
}

func (h ListingHandler) UploadPhoto(c *gin.Context) {
	if _, ok := requireAuth(c); !ok {
		return
	}
	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Photo file is required"})
		return
	}
	defer file.Close()
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	lst, err := h.Service.UploadPhoto(c.Request.Context(), domainlisting.ListingID(c.Param("id")), file, contentType)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respondData(c, http.StatusOK, newListingView(lst))
}

func parseIntQuery(c *gin.Context, key string) int {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseInt64Query(c *gin.Context, key string) int64 {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
