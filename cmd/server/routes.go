package main

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ZanzyTHEbar/lead-o-meter/docs"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/errors"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/monitoring"
)

// Response-cached routes. Both handlers are pure functions of the body.
var cachedPaths = []string{"/api/score", "/api/score/options"}

func (a *app) router() *gin.Engine {
	r := gin.New()

	r.Use(monitoring.RequestIDMiddleware())
	r.Use(monitoring.MonitoringMiddleware(a.metrics, a.logger))
	r.Use(errors.RecoveryHandler())
	r.Use(errors.ErrorHandler())
	r.Use(a.corsMiddleware())
	r.Use(a.compressor.Handler())
	r.Use(a.guard.HeadersMiddleware())
	r.Use(a.guard.RequestTimeout())
	r.Use(a.guard.ValidateContentType())
	r.Use(a.guard.LimitBody())
	r.Use(a.responses.ResponseMiddleware(a.metrics, cachedPaths...))

	session := a.sessions.Middleware()
	budgets := a.limiter.Config()

	r.GET("/", a.guard.CSPMiddleware(), session, a.page.Index)
	r.GET("/assets/*filepath", a.page.Assets)

	r.GET("/health", a.handleHealth)
	r.GET("/test-api", a.handleTestAPI)
	r.POST("/chat", a.limiter.Middleware("chat", budgets.Chat), a.handleChat)

	api := r.Group("/api")
	{
		api.GET("/options", a.handleOptions)
		api.POST("/score", a.handleScore)
		api.POST("/score/options", a.handleScoreOptions)

		bulk := api.Group("/score", a.limiter.Middleware("bulk", budgets.Bulk))
		bulk.POST("/bulk", a.handleBulk)
		bulk.POST("/bulk.csv", a.handleBulkCSV)
		bulk.POST("/bulk.xlsx", a.handleBulkXLSX)

		sample := api.Group("", session)
		sample.GET("/sample", a.handleSample)
		sample.GET("/sample.csv", a.handleSampleCSV)
		sample.POST("/sample/reset", a.handleSampleReset)
		sample.GET("/template", a.handleTemplate)

		api.GET("/ratelimit", a.limiter.HandleStatus())
	}

	r.GET("/metrics", gin.WrapH(a.metrics.Handler()))
	r.GET("/stats", a.handleStats)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"category": "not_found", "message": "route not found"}})
	})

	return r
}

func (a *app) corsMiddleware() gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", "X-Request-ID", "X-Cache", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(a.cfg.Server.CORSOrigins) == 0 || slices.Contains(a.cfg.Server.CORSOrigins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = a.cfg.Server.CORSOrigins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
