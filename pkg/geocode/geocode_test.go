package geocode_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"warung/pkg/geocode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProvider(t *testing.T, distance int, geocodeStatus, directionStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/geocoding", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("ak"))
		assert.NotEmpty(t, r.URL.Query().Get("address"))
		fmt.Fprintf(w, `{"status":%d,"result":{"location":{"lat":-6.2,"lng":106.8}}}`, geocodeStatus)
	})
	mux.HandleFunc("/directionlite", func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("origin"))
		assert.NotEmpty(t, r.URL.Query().Get("destination"))
		fmt.Fprintf(w, `{"status":%d,"result":{"routes":[{"distance":%d}]}}`, directionStatus, distance)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newClient(server *httptest.Server) *geocode.Client {
	return geocode.NewClient(geocode.Config{
		GeocodeURL:   server.URL + "/geocoding",
		DirectionURL: server.URL + "/directionlite",
		APIKey:       "test-key",
	})
}

func TestEstimateDistance(t *testing.T) {
	server := newProvider(t, 4200, 0, 0)

	distance, err := newClient(server).EstimateDistance("Jl. Sudirman 1", "Jl. Merdeka 1")
	require.NoError(t, err)
	assert.Equal(t, 4200, distance)
}

func TestEstimateDistance_GeocodingFailure(t *testing.T) {
	server := newProvider(t, 4200, 2, 0)

	_, err := newClient(server).EstimateDistance("Jl. Sudirman 1", "Jl. Merdeka 1")
	assert.ErrorContains(t, err, "failed to geocode origin")
}

func TestEstimateDistance_RoutePlanningFailure(t *testing.T) {
	server := newProvider(t, 4200, 0, 1)

	_, err := newClient(server).EstimateDistance("Jl. Sudirman 1", "Jl. Merdeka 1")
	assert.ErrorContains(t, err, "failed to plan route")
}

func TestEstimateDistance_ProviderDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	_, err := newClient(server).EstimateDistance("Jl. Sudirman 1", "Jl. Merdeka 1")
	assert.ErrorContains(t, err, "unexpected HTTP status 500")
}
