package api

import (
	"context"
	"net/http"
	"time"

	"rifa/internal/config"
	"rifa/internal/handlers"
	"rifa/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	config     *config.Config
	handlers   *handlers.Handlers
}

func NewServer(cfg *config.Config, h *handlers.Handlers) *Server {
	gin.SetMode(cfg.GinMode)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS())

	server := &Server{
		router:   router,
		config:   cfg,
		handlers: h,
	}
	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	h := s.handlers

	s.router.GET("/health", h.Health)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Storefront API
	api := s.router.Group("/api")
	{
		api.GET("/raffles", h.ListRaffles)
		api.GET("/raffles/search", h.SearchRaffles)
		api.GET("/raffles/:id", h.GetRaffle)
		api.POST("/raffles/:id/reserve", h.ReserveTickets)
		api.POST("/raffles/:id/release", h.ReleaseTickets)

		api.POST("/purchases", h.CreatePurchase)
		api.POST("/tickets/verify", h.VerifyTickets)

		api.GET("/promotions/:raffleId", h.ListPromotions)
		api.POST("/promotions/quote", h.QuotePrice)

		api.GET("/payment-methods", h.ListPaymentMethods)
		api.GET("/dollar-price", h.GetDollarPrice)
		api.GET("/ranking/:raffleId", h.GetRanking)
	}

	// Admin API behind basic auth
	admin := s.router.Group("/api/admin")
	admin.Use(middleware.BasicAuth(s.config.AdminUser, s.config.AdminPassword))
	{
		admin.POST("/raffles", h.CreateRaffle)
		admin.PUT("/raffles/:id", h.UpdateRaffle)
		admin.DELETE("/raffles/:id", h.DeleteRaffle)
		admin.GET("/raffles/:id/pending", h.ListPendingPurchases)

		admin.POST("/purchases/:id/approve", h.ApprovePurchase)
		admin.POST("/purchases/:id/reject", h.RejectPurchase)
		admin.POST("/purchases/:id/undo", h.UndoPurchase)
		admin.POST("/purchases/direct", h.DirectPurchase)

		admin.POST("/ranking/reset", h.ResetRanking)

		admin.POST("/promotions", h.CreatePromotion)
		admin.PUT("/promotions/:id", h.UpdatePromotion)
		admin.PATCH("/promotions/:id/active", h.TogglePromotion)
		admin.DELETE("/promotions/:id", h.DeletePromotion)

		admin.POST("/payment-methods", h.CreatePaymentMethod)
		admin.PUT("/payment-methods/:id", h.UpdatePaymentMethod)
		admin.DELETE("/payment-methods/:id", h.DeletePaymentMethod)
		admin.PUT("/dollar-price", h.UpdateDollarPrice)

		admin.GET("/bonus-overrides", h.ListBonusOverrides)
		admin.POST("/bonus-overrides", h.CreateBonusOverride)
		admin.PUT("/bonus-overrides/:id", h.UpdateBonusOverride)
		admin.DELETE("/bonus-overrides/:id", h.DeleteBonusOverride)

		admin.POST("/validation/run", h.RunValidation)
		admin.GET("/validation/latest", h.LatestValidation)
	}
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Port,
		Handler:      s.router,
		ReadTimeout:  s.config.RequestTimeout,
		WriteTimeout: s.config.RequestTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
