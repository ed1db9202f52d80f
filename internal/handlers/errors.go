package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-wardrobe-api/internal/items"
	"github.com/imrishuroy/go-wardrobe-api/internal/logger"
)

const notFoundMessage = "The requested resource was not found."

func writeError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":     code,
		"message":   message,
		"path":      c.Request.URL.Path,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// writeServiceError maps a service error to 404 or an opaque 500.
func writeServiceError(c *gin.Context, err error) {
	if _, ok := items.IsNotFound(err); ok {
		writeError(c, http.StatusNotFound, "not_found", notFoundMessage)
		return
	}
	writeError(c, http.StatusInternalServerError, "internal_error", "Internal server error")
}

// NotFound answers unknown routes with the same body as a missing item.
func NotFound(c *gin.Context) {
	writeError(c, http.StatusNotFound, "not_found", notFoundMessage)
}

// Recovery turns a panic into the standard 500 body.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	log = log.With("Recovery")
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error("panic while serving request", "path", c.Request.URL.Path, "method", c.Request.Method, "panic", recovered)
		writeError(c, http.StatusInternalServerError, "internal_error", "Internal server error")
	})
}
