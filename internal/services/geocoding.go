package services

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"github.com/ReturnKart/backhaul-backend/internal/models"
)

// Geocoder resolves a free-text address to a coordinate. Only load and
// vendor creation need it; matching itself never geocodes.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (models.Coordinate, error)
}

// GoogleGeocoder resolves addresses through the Google Maps Geocoding API.
type GoogleGeocoder struct {
	client *maps.Client
}

func NewGoogleGeocoder(apiKey string) (*GoogleGeocoder, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleGeocoder{client: client}, nil
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (models.Coordinate, error) {
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("geocoding %q: %w", address, err)
	}
	if len(results) == 0 {
		return models.Coordinate{}, fmt.Errorf("no geocoding result for %q", address)
	}

	loc := results[0].Geometry.Location
	return models.Coordinate{
		Lat:     loc.Lat,
		Lng:     loc.Lng,
		Address: results[0].FormattedAddress,
	}, nil
}
