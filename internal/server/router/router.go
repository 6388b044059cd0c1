package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/salesbook/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(authHandler *handlers.AuthHandler, salesHandler *handlers.SalesHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)
	r.POST("/logout", authHandler.Logout)

	api := r.Group("/api")
	api.Use(authHandler.RequireSession())
	api.GET("/records/:date", salesHandler.GetRecord)
	api.POST("/records", salesHandler.SubmitRecord)
	api.GET("/business-day", salesHandler.LastBusinessDay)
	api.POST("/business-day", salesHandler.CheckBusinessDay)
	api.GET("/summary", salesHandler.Summary)

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

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if user, ok := c.Get("username"); ok {
			fields = append(fields, zap.Any("user", user))
		}

		logger.Info("request completed", fields...)
	}
}
