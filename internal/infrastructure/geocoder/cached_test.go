package geocoder

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/devcamper/bootcamp-api/internal/core/domain"
)

type countingGeocoder struct {
	calls int
	err   error
}

func (g *countingGeocoder) Geocode(_ context.Context, address string) (*domain.Location, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return &domain.Location{Type: "Point", Coordinates: []float64{1, 2}, FormattedAddress: address}, nil
}

type mapCache struct {
	items   map[string]*domain.Location
	readErr error
	sets    int
}

func (m *mapCache) Get(_ context.Context, address string) (*domain.Location, bool, error) {
	if m.readErr != nil {
		return nil, false, m.readErr
	}
	loc, ok := m.items[address]
	return loc, ok, nil
}

func (m *mapCache) Set(_ context.Context, address string, loc *domain.Location) error {
	m.sets++
	m.items[address] = loc
	return nil
}

func TestCached_HitSkipsProvider(t *testing.T) {
	next := &countingGeocoder{}
	cache := &mapCache{items: map[string]*domain.Location{}}
	g := NewCached(next, cache, zerolog.Nop())

	for i := 0; i < 3; i++ {
		if _, err := g.Geocode(context.Background(), "Boston"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if next.calls != 1 {
		t.Fatalf("expected 1 provider call, got %d", next.calls)
	}
	if cache.sets != 1 {
		t.Fatalf("expected 1 cache write, got %d", cache.sets)
	}
}

func TestCached_ReadErrorFallsThrough(t *testing.T) {
	next := &countingGeocoder{}
	cache := &mapCache{items: map[string]*domain.Location{}, readErr: errors.New("redis down")}
	g := NewCached(next, cache, zerolog.Nop())

	loc, err := g.Geocode(context.Background(), "Boston")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc == nil || next.calls != 1 {
		t.Fatalf("expected provider result, calls=%d", next.calls)
	}
}

func TestCached_ProviderErrorNotCached(t *testing.T) {
	next := &countingGeocoder{err: &domain.Error{Kind: domain.ErrGeocode}}
	cache := &mapCache{items: map[string]*domain.Location{}}
	g := NewCached(next, cache, zerolog.Nop())

	if _, err := g.Geocode(context.Background(), "nowhere"); !errors.Is(err, domain.ErrGeocode) {
		t.Fatalf("expected ErrGeocode, got %v", err)
	}
	if cache.sets != 0 {
		t.Fatalf("failed lookups must not be cached")
	}
}
