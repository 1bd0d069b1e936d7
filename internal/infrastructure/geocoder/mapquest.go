// Package geocoder resolves addresses to GeoJSON locations.
package geocoder

import (
	"context"
	"strings"

	geo "github.com/codingsince1985/geo-golang"
	"github.com/codingsince1985/geo-golang/mapquest/open"

	"github.com/devcamper/bootcamp-api/internal/core/domain"
)

// MapQuest adapts a geo-golang provider to ports.Geocoder. The address is
// resolved forward to a point, then reverse geocoded for its parts.
type MapQuest struct {
	provider geo.Geocoder
}

// NewMapQuest builds the MapQuest open provider. baseURL overrides the
// provider endpoint when set.
func NewMapQuest(apiKey, baseURL string) *MapQuest {
	if baseURL != "" {
		return NewFromProvider(open.Geocoder(apiKey, baseURL))
	}
	return NewFromProvider(open.Geocoder(apiKey))
}

func NewFromProvider(p geo.Geocoder) *MapQuest {
	return &MapQuest{provider: p}
}

type lookup struct {
	loc *domain.Location
	err error
}

// Geocode returns the first match for address. No match, a provider error or
// a cancelled context all yield domain.ErrGeocode.
func (m *MapQuest) Geocode(ctx context.Context, address string) (*domain.Location, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, domain.Errorf(domain.ErrGeocode, "Please add an address")
	}

	// geo-golang has no context support; the provider applies its own timeout.
	done := make(chan lookup, 1)
	go func() {
		loc, err := m.resolve(address)
		done <- lookup{loc: loc, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, &domain.Error{Kind: domain.ErrGeocode, Message: "Geocoding service unavailable"}
	case r := <-done:
		return r.loc, r.err
	}
}

func (m *MapQuest) resolve(address string) (*domain.Location, error) {
	point, err := m.provider.Geocode(address)
	if err != nil {
		return nil, domain.Errorf(domain.ErrGeocode, "Geocoding failed: %v", err)
	}
	if point == nil {
		return nil, &domain.Error{Kind: domain.ErrGeocode}
	}

	loc := &domain.Location{
		Type:             "Point",
		Coordinates:      []float64{point.Lng, point.Lat},
		FormattedAddress: address,
	}

	// Parts are best effort: a failed reverse lookup keeps the point.
	parts, err := m.provider.ReverseGeocode(point.Lat, point.Lng)
	if err != nil || parts == nil {
		return loc, nil
	}

	street := strings.TrimSpace(strings.Join([]string{parts.HouseNumber, parts.Street}, " "))
	state := parts.StateCode
	if state == "" {
		state = parts.State
	}
	country := parts.CountryCode
	if country == "" {
		country = parts.Country
	}

	loc.Street = street
	loc.City = parts.City
	loc.State = state
	loc.Zipcode = parts.Postcode
	loc.Country = country
	if parts.FormattedAddress != "" {
		loc.FormattedAddress = parts.FormattedAddress
	} else if f := formatAddress(street, parts.City, state, parts.Postcode, country); f != "" {
		loc.FormattedAddress = f
	}
	return loc, nil
}

func formatAddress(street, city, state, zip, country string) string {
	var parts []string
	for _, p := range []string{street, city, strings.TrimSpace(state + " " + zip), country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
