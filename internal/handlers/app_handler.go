package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// AppInfo is reported by GET /
type AppInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

// RegisterAppRoutes registers the info and health endpoints and the 404 fallback.
func RegisterAppRoutes(r *gin.Engine, info AppInfo) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":        info.Name,
			"version":     info.Version,
			"environment": info.Environment,
			"address":     scheme(c) + "://" + c.Request.Host + "/api",
		})
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	r.NoRoute(NotFound)
}

func scheme(c *gin.Context) string {
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}
