package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kwonjungwook/short0812/internal/collection"
	"github.com/kwonjungwook/short0812/internal/logger"
)

// ListAssets returns every collected item plus aggregate statistics.
func (h *Handlers) ListAssets(c *gin.Context) {
	assets, stats, err := h.assets.List()
	if err != nil {
		h.log.Error("listing assets failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "listing assets failed"})
		return
	}
	if assets == nil {
		assets = []collection.Asset{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "videos": assets, "stats": stats})
}

// RemoveAsset deletes one collected item by id.
func (h *Handlers) RemoveAsset(c *gin.Context) {
	removed, err := h.assets.Remove(c.Param("id"))
	switch {
	case errors.Is(err, collection.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "video not found"})
		return
	case err != nil:
		h.log.Error("removing asset failed", logger.String("id", c.Param("id")), logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "removing video failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "video removed", "video": removed})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// UpdateAssetStatus sets a new status and notes on one collected item.
func (h *Handlers) UpdateAssetStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "status is required"})
		return
	}

	updated, err := h.assets.UpdateStatus(c.Param("id"), req.Status, req.Notes)
	switch {
	case errors.Is(err, collection.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "video not found"})
		return
	case err != nil:
		h.log.Error("updating asset failed", logger.String("id", c.Param("id")), logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "updating video failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "video status updated", "video": updated})
}
