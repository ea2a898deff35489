package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/muthuvel01/goldpledge/internal/auth"
	"github.com/muthuvel01/goldpledge/internal/server/handlers"
	"github.com/muthuvel01/goldpledge/internal/server/middleware"
)

// Handlers bundles the HTTP adapters the router wires up.
type Handlers struct {
	Auth           *handlers.AuthHandler
	Loans          *handlers.LoanHandler
	Stream         *handlers.StreamHandler
	Recommendation *handlers.RecommendationHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, sessions *auth.Manager, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)

	protected := api.Group("")
	protected.Use(middleware.RequireSession(sessions))

	protected.GET("/loans", h.Loans.List)
	protected.POST("/loans", h.Loans.Create)
	protected.GET("/loans/stream", h.Stream.Loans)
	protected.GET("/loans/:id", h.Loans.Get)
	protected.GET("/loans/:id/stream", h.Stream.Loan)
	protected.DELETE("/loans/:id", h.Loans.Delete)
	protected.POST("/loans/:id/payments", h.Loans.ApplyPayment)

	protected.POST("/recommendations", h.Recommendation.Generate)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", c.GetString("request_id")),
			zap.String("client_ip", c.ClientIP()))
	}
}
