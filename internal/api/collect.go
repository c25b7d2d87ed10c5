package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kwonjungwook/short0812/internal/collection"
	"github.com/kwonjungwook/short0812/internal/content"
	"github.com/kwonjungwook/short0812/internal/logger"
)

// Collect stores an item in the user's collection.
func (h *Handlers) Collect(c *gin.Context) {
	var item content.Item
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid video payload"})
		return
	}

	asset, total, err := h.assets.Add(item)
	switch {
	case errors.Is(err, collection.ErrMissingID):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "video payload must include an id"})
		return
	case errors.Is(err, collection.ErrAlreadyCollected):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "video already collected"})
		return
	case err != nil:
		h.log.Error("collect failed", logger.String("id", item.ID), logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "saving video failed"})
		return
	}

	h.log.Info("video collected",
		logger.String("id", asset.ID),
		logger.String("platform", string(asset.Platform)),
		logger.String("country", string(asset.Country)))

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "video collected",
		"video":          asset,
		"totalCollected": total,
	})
}
