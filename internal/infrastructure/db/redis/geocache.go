package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/devcamper/bootcamp-api/internal/core/domain"
	"github.com/devcamper/bootcamp-api/internal/pkg/config"
)

const (
	defaultGeoTTL = 7 * 24 * time.Hour
	pingTimeout   = 5 * time.Second
)

// GeocodeCache stores geocoder results in Redis.
// Key format: geocode:<lowercased address with collapsed whitespace>
type GeocodeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// OpenGeocodeCache dials the Redis instance named by cfg and fails unless it answers a ping.
func OpenGeocodeCache(ctx context.Context, cfg config.RedisConfig) (*GeocodeCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	cache := NewGeocodeCache(client, cfg.GeoTTL)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := cache.Ping(pingCtx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("geocache ping: %w", err)
	}
	return cache, nil
}

// NewGeocodeCache creates a GeocodeCache wrapping the given Redis client.
func NewGeocodeCache(client *redis.Client, ttl time.Duration) *GeocodeCache {
	if ttl <= 0 {
		ttl = defaultGeoTTL
	}
	return &GeocodeCache{client: client, ttl: ttl}
}

// Get returns the cached location for address, if any.
func (c *GeocodeCache) Get(ctx context.Context, address string) (*domain.Location, bool, error) {
	raw, err := c.client.Get(ctx, key(address)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("geocache get: %w", err)
	}

	var loc domain.Location
	if err := json.Unmarshal(raw, &loc); err != nil {
		return nil, false, fmt.Errorf("geocache decode: %w", err)
	}
	return &loc, true, nil
}

// Set stores loc for address until the TTL elapses.
func (c *GeocodeCache) Set(ctx context.Context, address string, loc *domain.Location) error {
	raw, err := json.Marshal(loc)
	if err != nil {
		return fmt.Errorf("geocache encode: %w", err)
	}
	return c.client.Set(ctx, key(address), raw, c.ttl).Err()
}

// Ping reports whether Redis is reachable.
func (c *GeocodeCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *GeocodeCache) Close() error {
	return c.client.Close()
}

func key(address string) string {
	return "geocode:" + strings.Join(strings.Fields(strings.ToLower(address)), " ")
}
