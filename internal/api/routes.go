package api

import "github.com/gin-gonic/gin"

// SetupRoutes registers all API routes on the router.
func SetupRoutes(router *gin.Engine, h *Handlers) {
	router.GET("/health", h.Health)

	api := router.Group("/api")
	api.GET("/search", h.Search)
	api.POST("/collect", h.Collect)
	api.GET("/assets", h.ListAssets)
	api.DELETE("/assets/:id", h.RemoveAsset)
	api.PUT("/assets/:id/status", h.UpdateAssetStatus)
	api.GET("/usage", h.Usage)
	api.GET("/cache/stats", h.CacheStats)
	api.DELETE("/cache", h.ClearCache)
}
