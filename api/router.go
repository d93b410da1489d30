package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

type Handlers struct {
	Flights  *FlightHandler
	Bookings *BookingHandler
	Wallet   *WalletHandler
}

type RouterConfig struct {
	Auth Authenticator
	// Ping reports storage health for /healthz.
	Ping       func(ctx context.Context) error
	SwaggerDir string
	// AllowedOrigins enables CORS with credentials for the listed origins.
	AllowedOrigins []string
	Log            *zap.Logger
}

func NewRouter(cfg RouterConfig, h Handlers) *gin.Engine {
	router := gin.New()
	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	router.Use(RequestID(), Recover(cfg.Log), Logger(cfg.Log))

	router.GET("/healthz", func(c *gin.Context) {
		if cfg.Ping != nil {
			if err := cfg.Ping(c.Request.Context()); err != nil {
				cfg.Log.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.SwaggerDir != "" {
		router.StaticFile("/docs/swagger.json", cfg.SwaggerDir+"/swagger.json")
		router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/docs/swagger.json"))))
	}

	v1 := router.Group("/api/v1")
	h.Flights.Register(v1.Group("/flights"))

	private := v1.Group("")
	private.Use(RequireIdentity(cfg.Auth, cfg.Log))
	h.Bookings.Register(private.Group("/bookings"))
	h.Wallet.Register(private.Group("/me"))

	return router
}
