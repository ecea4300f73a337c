// Package geocode maps free-text locations to coordinates.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNoResults is returned when the provider knows no place for the query.
var ErrNoResults = errors.New("no geocoding results")

const mapboxBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

// Point is a GeoJSON point.
type Point struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"` // [lng, lat]
}

func (p Point) Longitude() float64 { return p.Coordinates[0] }
func (p Point) Latitude() float64  { return p.Coordinates[1] }

// Geocoder resolves a location string to a point.
type Geocoder interface {
	Forward(ctx context.Context, query string) (Point, error)
}

// MapboxGeocoder uses the Mapbox forward geocoding API.
type MapboxGeocoder struct {
	token   string
	baseURL string
	client  *http.Client
}

// NewMapboxGeocoder returns a geocoder authenticated with an access token.
func NewMapboxGeocoder(token string) *MapboxGeocoder {
	return &MapboxGeocoder{
		token:   token,
		baseURL: mapboxBaseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

type featureCollection struct {
	Features []struct {
		PlaceName string `json:"place_name"`
		Geometry  Point  `json:"geometry"`
	} `json:"features"`
}

// Forward returns the best match for query.
func (g *MapboxGeocoder) Forward(ctx context.Context, query string) (Point, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Point{}, ErrNoResults
	}

	endpoint := fmt.Sprintf("%s/%s.json?%s", g.baseURL, url.PathEscape(query), url.Values{
		"access_token": {g.token},
		"limit":        {"1"},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Point{}, fmt.Errorf("build geocoding request: %w", err)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return Point{}, fmt.Errorf("geocoding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Point{}, fmt.Errorf("geocoding request: unexpected status %d", resp.StatusCode)
	}

	var fc featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return Point{}, fmt.Errorf("decode geocoding response: %w", err)
	}
	if len(fc.Features) == 0 {
		return Point{}, ErrNoResults
	}
	p := fc.Features[0].Geometry
	if p.Type == "" {
		p.Type = "Point"
	}
	return p, nil
}
