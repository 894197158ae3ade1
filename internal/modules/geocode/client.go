// Package geocode proxies the external geocoding suggestion service used
// during game creation. Failures here are non-fatal to game creation; the
// client falls back to a manual text location.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	searchTimeout      = 10 * time.Second
	defaultSuggestions = 5
)

// Suggestion is one candidate location from the geocoder.
type Suggestion struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// nominatimResult is the subset of the Nominatim search response we use.
// Coordinates arrive as strings.
type nominatimResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Client queries a Nominatim-compatible search endpoint.
type Client struct {
	baseURL    *url.URL
	userAgent  string
	httpClient *http.Client
}

func NewClient(baseURL *url.URL, userAgent string) *Client {
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: searchTimeout,
		},
	}
}

// Search returns up to limit candidate locations for the free-text query.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Suggestion, error) {
	if limit < 1 {
		limit = defaultSuggestions
	}

	u := c.baseURL.JoinPath("search")
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(limit))
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoder request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("geocoder read failed: %w", err)
	}

	var results []nominatimResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("geocoder response malformed: %w", err)
	}

	suggestions := make([]Suggestion, 0, len(results))
	for _, result := range results {
		lat, err := strconv.ParseFloat(result.Lat, 64)
		if err != nil {
			continue
		}

		lon, err := strconv.ParseFloat(result.Lon, 64)
		if err != nil {
			continue
		}

		suggestions = append(suggestions, Suggestion{
			Name:      result.DisplayName,
			Latitude:  lat,
			Longitude: lon,
		})
	}

	return suggestions, nil
}
