package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kwonjungwook/short0812/internal/logger"
)

// Health is the liveness probe.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "short0812",
		"version": h.version,
	})
}

// Usage returns the current quota snapshot.
func (h *Handlers) Usage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "apiUsage": h.meter.Current()})
}

// CacheStats reports search cache occupancy.
func (h *Handlers) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": h.cache.Stats()})
}

// ClearCache drops every cached search result.
func (h *Handlers) ClearCache(c *gin.Context) {
	if err := h.cache.Clear(); err != nil {
		h.log.Error("clearing cache failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "clearing cache failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "cache cleared"})
}
