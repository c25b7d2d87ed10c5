package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kwonjungwook/short0812/internal/config"
	"github.com/kwonjungwook/short0812/internal/content"
	"github.com/kwonjungwook/short0812/internal/logger"
	"github.com/kwonjungwook/short0812/internal/pipeline"
)

// Search runs a viral search. Parameters default to the configured
// search settings; comma-separated list parameters are split and
// blanks dropped.
func (h *Handlers) Search(c *gin.Context) {
	q, err := h.parseSearchQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	res, err := h.agg.Search(c.Request.Context(), q)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoCountries) || errors.Is(err, pipeline.ErrNoPlatforms) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		h.log.Error("search failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":  false,
			"error":    "search failed",
			"apiUsage": h.meter.Current(),
		})
		return
	}

	items := res.Items
	if items == nil {
		items = []content.Item{}
	}

	resp := gin.H{
		"success":  true,
		"videos":   items,
		"apiUsage": res.Usage,
		"cached":   res.Cached,
	}
	if res.Cached {
		resp["cacheInfo"] = res.CacheInfo
	} else {
		resp["searchInfo"] = res.Search
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handlers) parseSearchQuery(c *gin.Context) (pipeline.Query, error) {
	defaults := h.cfg.Search

	countries := splitList(c.DefaultQuery("countries", strings.Join(defaults.Countries, ",")))
	platforms := splitList(c.DefaultQuery("platforms", strings.Join(defaults.Platforms, ",")))
	categories := splitList(c.Query("categories"))

	timeRange, err := strconv.Atoi(c.DefaultQuery("timeRange", strconv.Itoa(defaults.TimeRange)))
	if err != nil || timeRange < 1 || timeRange > config.MaxTimeRangeHours {
		return pipeline.Query{}, errors.New("timeRange must be between 1 and 72 hours")
	}

	minViews, err := strconv.ParseInt(c.DefaultQuery("minViews", strconv.FormatInt(defaults.MinViews, 10)), 10, 64)
	if err != nil || minViews < 0 {
		return pipeline.Query{}, errors.New("minViews must be a non-negative integer")
	}

	return pipeline.Query{
		Countries:  countries,
		Platforms:  platforms,
		Categories: categories,
		TimeRange:  timeRange,
		MinViews:   minViews,
		UseCache:   c.DefaultQuery("useCache", "true") == "true",
	}, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
