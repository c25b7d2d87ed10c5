// Package api exposes the aggregation pipeline and collection store
// over an HTTP JSON interface.
package api

import (
	"github.com/kwonjungwook/short0812/internal/collection"
	"github.com/kwonjungwook/short0812/internal/config"
	"github.com/kwonjungwook/short0812/internal/logger"
	"github.com/kwonjungwook/short0812/internal/pipeline"
	"github.com/kwonjungwook/short0812/internal/quota"
	"github.com/kwonjungwook/short0812/internal/searchcache"
)

// Handlers bundles the route handlers and their dependencies.
type Handlers struct {
	agg     *pipeline.Aggregator
	meter   *quota.Meter
	assets  *collection.Store
	cache   *searchcache.Cache
	cfg     *config.Config
	log     logger.Logger
	version string
}

// NewHandlers wires the handler set.
func NewHandlers(
	agg *pipeline.Aggregator,
	meter *quota.Meter,
	assets *collection.Store,
	cache *searchcache.Cache,
	cfg *config.Config,
	log logger.Logger,
	version string,
) *Handlers {
	return &Handlers{
		agg:     agg,
		meter:   meter,
		assets:  assets,
		cache:   cache,
		cfg:     cfg,
		log:     log,
		version: version,
	}
}
