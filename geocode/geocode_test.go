package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGeocoder(t *testing.T, handler http.HandlerFunc) *MapboxGeocoder {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	g := NewMapboxGeocoder("pk.test")
	g.baseURL = srv.URL
	return g
}

func TestForwardReturnsFirstFeature(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/New Delhi.json", r.URL.Path)
		assert.Equal(t, "pk.test", r.URL.Query().Get("access_token"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"features":[{"place_name":"New Delhi, India","geometry":{"type":"Point","coordinates":[77.209,28.6139]}}]}`))
	})

	p, err := g.Forward(context.Background(), "New Delhi")
	require.NoError(t, err)
	assert.Equal(t, "Point", p.Type)
	assert.InDelta(t, 77.209, p.Longitude(), 1e-9)
	assert.InDelta(t, 28.6139, p.Latitude(), 1e-9)
}

func TestForwardNoResults(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"features":[]}`))
	})

	_, err := g.Forward(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrNoResults)

	_, err = g.Forward(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestForwardUpstreamError(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := g.Forward(context.Background(), "Pune")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoResults)
}
