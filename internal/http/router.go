package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/CJPJ007/ar-properties-identity/internal/config"
	"github.com/CJPJ007/ar-properties-identity/internal/http/handler"
	httpmiddleware "github.com/CJPJ007/ar-properties-identity/internal/http/middleware"
	"github.com/CJPJ007/ar-properties-identity/internal/middleware"
)

// NewRouter wires Gin routes and middleware.
func NewRouter(cfg config.Config, authHandler *handler.AuthHandler, sessionMiddleware *httpmiddleware.Session, rateLimiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestLogger(nil))
	if rateLimiter != nil {
		r.Use(rateLimiter.Handler())
	}
	r.Use(middleware.CORS(cfg))
	r.Use(otelgin.Middleware(cfg.ServiceName))

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/session", sessionMiddleware.Load, sessionMiddleware.Require, authHandler.Session)
		authGroup.GET("/callback", sessionMiddleware.Load, authHandler.Callback)
		authGroup.POST("/logout", sessionMiddleware.Load, sessionMiddleware.Require, authHandler.Logout)
	}

	r.GET("/healthz", authHandler.Healthz)

	return r
}
