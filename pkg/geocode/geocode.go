package geocode

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client calls a map-provider HTTP API to geocode addresses and plan a
// driving route between them. Both endpoints follow the common
// status-0-is-success JSON shape.
type Client struct {
	geocodeURL   string
	directionURL string
	apiKey       string
	httpClient   *http.Client
}

// Config holds map provider settings.
type Config struct {
	GeocodeURL   string
	DirectionURL string
	APIKey       string
	Timeout      time.Duration
}

// NewClient creates a new geocoding client. The timeout bounds every call so
// a stuck provider cannot hang checkout.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Client{
		geocodeURL:   cfg.GeocodeURL,
		directionURL: cfg.DirectionURL,
		apiKey:       cfg.APIKey,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

type geocodeResponse struct {
	Status int `json:"status"`
	Result struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"result"`
}

type directionResponse struct {
	Status int `json:"status"`
	Result struct {
		Routes []struct {
			Distance int `json:"distance"`
		} `json:"routes"`
	} `json:"result"`
}

// EstimateDistance resolves both addresses to coordinates and returns the
// driving distance between them in meters.
func (c *Client) EstimateDistance(fromAddress, toAddress string) (int, error) {
	origin, err := c.resolve(fromAddress)
	if err != nil {
		return 0, fmt.Errorf("failed to geocode origin: %w", err)
	}
	destination, err := c.resolve(toAddress)
	if err != nil {
		return 0, fmt.Errorf("failed to geocode destination: %w", err)
	}

	params := url.Values{}
	params.Set("ak", c.apiKey)
	params.Set("origin", origin)
	params.Set("destination", destination)
	params.Set("steps_info", "0")

	var dir directionResponse
	if err := c.get(c.directionURL, params, &dir); err != nil {
		return 0, fmt.Errorf("failed to plan route: %w", err)
	}
	if dir.Status != 0 || len(dir.Result.Routes) == 0 {
		return 0, fmt.Errorf("route planning returned status %d", dir.Status)
	}
	return dir.Result.Routes[0].Distance, nil
}

// resolve geocodes one address into a "lat,lng" string.
func (c *Client) resolve(address string) (string, error) {
	params := url.Values{}
	params.Set("ak", c.apiKey)
	params.Set("output", "json")
	params.Set("address", address)

	var geo geocodeResponse
	if err := c.get(c.geocodeURL, params, &geo); err != nil {
		return "", err
	}
	if geo.Status != 0 {
		return "", fmt.Errorf("geocoding returned status %d", geo.Status)
	}
	return fmt.Sprintf("%f,%f", geo.Result.Location.Lat, geo.Result.Location.Lng), nil
}

func (c *Client) get(base string, params url.Values, out interface{}) error {
	resp, err := c.httpClient.Get(base + "?" + params.Encode())
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected HTTP status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
