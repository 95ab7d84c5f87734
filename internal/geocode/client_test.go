package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewHTTPClient(srv.URL, "test-key", 2*time.Second, zerolog.Nop())
	require.NoError(t, err)
	return client
}

func TestGeocodeFirstCandidateWins(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/geocode", r.URL.Path)
		require.Equal(t, "Tabernas, Spain", r.URL.Query().Get("q"))
		require.Equal(t, "test-key", r.Header.Get("X-API-Key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"latitude":37.05,"longitude":-2.39,"formattedAddress":"Tabernas, Almeria, ES"},
			{"latitude":0,"longitude":0,"formattedAddress":"elsewhere"}
		]`))
	})

	loc, err := client.Geocode(context.Background(), "Tabernas, Spain")
	require.NoError(t, err)
	require.Equal(t, -2.39, loc.Longitude)
	require.Equal(t, 37.05, loc.Latitude)
	require.Equal(t, "Tabernas, Almeria, ES", loc.FormattedAddress)
}

func TestGeocodeEmptyResultSet(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.Geocode(context.Background(), "Nowhere")
	require.ErrorIs(t, err, ErrNoResults)
}

func TestGeocodeNotFoundStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	_, err := client.Geocode(context.Background(), "Nowhere")
	require.ErrorIs(t, err, ErrNoResults)
}

func TestGeocodeUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.Geocode(context.Background(), "Tabernas")
	require.ErrorIs(t, err, ErrUpstream)
}

func TestGeocodeTimeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`[]`))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Geocode(ctx, "Tabernas")
	require.ErrorIs(t, err, ErrUpstream)
}

func TestGeocodeCandidateMissingCoordinates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"formattedAddress":"no coords"}]`))
	})

	_, err := client.Geocode(context.Background(), "Tabernas")
	require.ErrorIs(t, err, ErrUpstream)
}
