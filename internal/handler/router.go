package handler

import (
	"context"
	"net/http"
	"strings"

	"estate/internal/auth"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// BuildInfo is reported by /health and /version
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// RouterConfig collects what NewRouter mounts
type RouterConfig struct {
	Search         *SearchHandler
	Reveal         *RevealHandler
	Issuer         *auth.Issuer
	Build          BuildInfo
	Ping           func(ctx context.Context) error // optional dependency check for /health
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// NewRouter builds the gin engine with every route mounted
func NewRouter(rc RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = splitList(rc.AllowedOrigins, "*")
	corsConfig.AllowMethods = splitList(rc.AllowedMethods, "GET,POST,OPTIONS")
	corsConfig.AllowHeaders = splitList(rc.AllowedHeaders, "Content-Type,Authorization")
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if rc.Ping != nil {
			if err := rc.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": "unhealthy",
					"error":  err.Error(),
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"service":    "property-search-engine",
			"version":    rc.Build.Version,
			"build_time": rc.Build.BuildTime,
			"git_commit": rc.Build.GitCommit,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    rc.Build.Version,
			"build_time": rc.Build.BuildTime,
			"git_commit": rc.Build.GitCommit,
		})
	})

	// API routes
	apiV1 := router.Group("/api/v1", auth.Middleware(rc.Issuer))
	{
		apiV1.POST("/search", rc.Search.Search)
		apiV1.POST("/search/stream", rc.Search.SearchStream)
		apiV1.GET("/listings/:id", rc.Search.GetListing)
		apiV1.POST("/listings/:id/reveal", rc.Reveal.Reveal)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "endpoint not found"})
	})

	return router
}

func splitList(value, fallback string) []string {
	if strings.TrimSpace(value) == "" {
		value = fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
