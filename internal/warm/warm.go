// Package warm keeps the response cache fresh: a periodic full clear
// followed by re-priming the cached categories for a fixed set of
// popular parks.
package warm

import (
	"context"
	"log/slog"
	"time"

	"github.com/hollandm/ranger/internal/fetch"
)

// DefaultInterval is how often the cache is cleared and re-warmed.
const DefaultInterval = 24 * time.Hour

// parkPause spaces out the warm-up fetches so the refresh never competes
// with user-facing requests for upstream quota.
const parkPause = 2 * time.Second

// PopularParks are primed after each clear.
var PopularParks = []string{
	"Yellowstone",
	"Yosemite",
	"Grand Canyon",
	"Zion",
	"Great Smoky Mountains",
	"Acadia",
	"Rocky Mountain",
	"Glacier",
}

// Warmable is the fetcher surface whose results pass through the cache.
type Warmable interface {
	GeneralInfo(ctx context.Context, parkName string) fetch.Result
	Campgrounds(ctx context.Context, parkName string) fetch.Result
	ThingsToDo(ctx context.Context, parkName string) fetch.Result
	VisitorCenters(ctx context.Context, parkName string) fetch.Result
	Alerts(ctx context.Context, parkName string) fetch.Result
}

// Clearer drops all cached responses.
type Clearer interface {
	Clear()
}

// Refresher owns the periodic clear-and-rewarm cycle.
type Refresher struct {
	cache    Clearer
	fetchers Warmable
	parks    []string
	interval time.Duration
	pause    time.Duration
	logger   *slog.Logger
}

// New creates a Refresher over the given cache and fetchers. A
// non-positive interval falls back to DefaultInterval.
func New(cache Clearer, fetchers Warmable, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Refresher{
		cache:    cache,
		fetchers: fetchers,
		parks:    PopularParks,
		interval: interval,
		pause:    parkPause,
		logger:   slog.Default(),
	}
}

// Run clears and re-warms the cache on the configured interval until ctx
// is cancelled. The first cycle runs after one full interval, not at
// startup: fresh processes start with an empty cache anyway.
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Refresh(ctx)
		}
	}
}

// Refresh drops the cache and sequentially primes the cached categories
// for each popular park.
func (r *Refresher) Refresh(ctx context.Context) {
	start := time.Now()
	r.cache.Clear()
	r.logger.Info("response cache cleared, re-warming popular parks", "parks", len(r.parks))

	for _, park := range r.parks {
		if ctx.Err() != nil {
			return
		}
		r.fetchers.GeneralInfo(ctx, park)
		r.fetchers.Campgrounds(ctx, park)
		r.fetchers.ThingsToDo(ctx, park)
		r.fetchers.VisitorCenters(ctx, park)
		r.fetchers.Alerts(ctx, park)

		select {
		case <-ctx.Done():
			return
		case <-time.After(r.pause):
		}
	}

	r.logger.Info("cache re-warm complete", "duration", time.Since(start).Round(time.Millisecond))
}
