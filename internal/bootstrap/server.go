package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moeageli22/TravelInn-app-sub000/api"
	"github.com/moeageli22/TravelInn-app-sub000/config"
	"github.com/moeageli22/TravelInn-app-sub000/internal/service/booking"
	"github.com/moeageli22/TravelInn-app-sub000/internal/service/rooms"
)

// Run starts the HTTP server and blocks until context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, roomSvc rooms.RoomUseCase, bookingSvc booking.BookingUseCase) error {
	httpSrv := newServer(cfg, roomSvc, bookingSvc)

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newServer(cfg *config.Config, roomSvc rooms.RoomUseCase, bookingSvc booking.BookingUseCase) *http.Server {
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestID())

	if cfg.RateLimit.RPS > 0 {
		limiter := api.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		router.Use(limiter.Limit())
	}

	router.GET("/healthz", api.Health)

	v1 := router.Group("/api")
	api.NewRoomHandler(roomSvc).Register(v1.Group("/rooms"))

	protected := v1.Group("/bookings")
	protected.Use(api.Authenticate([]byte(cfg.Auth.JWTSecret)))
	api.NewBookingHandler(bookingSvc, roomSvc).Register(protected)

	return &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSeconds) * time.Second,
	}
}
