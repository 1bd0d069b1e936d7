package geocoder

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/devcamper/bootcamp-api/internal/core/domain"
	"github.com/devcamper/bootcamp-api/internal/core/ports"
	"github.com/devcamper/bootcamp-api/internal/pkg/metrics"
)

// Cache is the storage used by Cached, implemented by the Redis geocode cache.
type Cache interface {
	Get(ctx context.Context, address string) (*domain.Location, bool, error)
	Set(ctx context.Context, address string, loc *domain.Location) error
}

// Cached consults cache before calling next and stores fresh results.
// Cache failures are logged and never fail the lookup.
type Cached struct {
	next  ports.Geocoder
	cache Cache
	log   zerolog.Logger
}

func NewCached(next ports.Geocoder, cache Cache, log zerolog.Logger) *Cached {
	return &Cached{next: next, cache: cache, log: log}
}

func (c *Cached) Geocode(ctx context.Context, address string) (*domain.Location, error) {
	loc, ok, err := c.cache.Get(ctx, address)
	switch {
	case err != nil:
		metrics.GeocodeCacheTotal.WithLabelValues("error").Inc()
		c.log.Warn().Err(err).Msg("geocode cache read failed, calling provider")
	case ok:
		metrics.GeocodeCacheTotal.WithLabelValues("hit").Inc()
		return loc, nil
	default:
		metrics.GeocodeCacheTotal.WithLabelValues("miss").Inc()
	}

	loc, err = c.next.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, address, loc); err != nil {
		c.log.Warn().Err(err).Msg("geocode cache write failed")
	}
	return loc, nil
}
