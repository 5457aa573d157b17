// Package ginserver wires the HTTP surface: routing, CORS, authentication and
// the JSON response envelope.
package ginserver

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"stayhub/internal/infra/config"
	"stayhub/internal/infra/obs"
)

type Deps struct {
	Config   config.Config
	Logger   *slog.Logger
	Auth     AuthMiddleware
	Accounts AuthHandler
	Listings ListingHandler
	Bookings BookingHandler
	Reviews  ReviewHandler
	Users    UserHandler
	Health   obs.HealthHandlers
}

func NewRouter(deps Deps) *gin.Engine {
	if deps.Config.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())

	mw := obs.Middleware{Logger: deps.Logger}
	engine.Use(mw.RequestID())
	engine.Use(mw.LoggerMiddleware())
	engine.Use(corsMiddleware(deps.Config.CORSOrigin))
	engine.Use(deps.Auth.Handle)

	engine.GET("/healthz", deps.Health.Livez)
	engine.GET("/readyz", deps.Health.Readyz)

	api := engine.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", deps.Accounts.Register)
	auth.POST("/login", deps.Accounts.Login)
	auth.POST("/refresh", deps.Accounts.Refresh)
	auth.POST("/logout", deps.Accounts.Logout)
	auth.GET("/me", deps.Accounts.Me)

	listings := api.Group("/listings")
	listings.GET("", deps.Listings.List)
	listings.GET("/search", deps.Listings.Search)
	listings.GET("/category/:category", deps.Listings.ByCategory)
	listings.GET("/:id", deps.Listings.Get)
	listings.POST("", deps.Listings.Create)
	listings.PUT("/:id", deps.Listings.Update)
	listings.DELETE("/:id", deps.Listings.Delete)
	listings.POST("/:id/photos", deps.Listings.UploadPhoto)

	bookings := api.Group("/bookings")
	bookings.GET("/availability", deps.Bookings.CheckAvailability)
	bookings.GET("/user/:userId", deps.Bookings.ListByUser)
	bookings.GET("/user/:userId/stats", deps.Bookings.StatsByUser)
	bookings.GET("/:id", deps.Bookings.Get)
	bookings.POST("", deps.Bookings.Create)
	bookings.PUT("/:id", deps.Bookings.Update)
	bookings.DELETE("/:id", deps.Bookings.Cancel)

	reviews := api.Group("/reviews")
	reviews.GET("/listing/:listingId", deps.Reviews.ListByListing)
	reviews.POST("", deps.Reviews.Create)
	reviews.PUT("/:id", deps.Reviews.Update)
	reviews.DELETE("/:id", deps.Reviews.Delete)

	users := api.Group("/users")
	users.PUT("/me", deps.Users.UpdateProfile)
	users.GET("/favorites", deps.Users.Favorites)
	users.POST("/favorites/:listingId", deps.Users.AddFavorite)
	users.DELETE("/favorites/:listingId", deps.Users.RemoveFavorite)

	return engine
}

func corsMiddleware(origin string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if origin == "" || origin == "*" {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = strings.Split(origin, ",")
	}
	return cors.New(cfg)
}

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

func NewServer(cfg config.Config, handler http.Handler, logger *slog.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

func (s *Server) Run() error {
	if s.logger != nil {
		s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	}
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
