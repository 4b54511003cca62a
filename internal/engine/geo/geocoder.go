package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kenmiya/gurume/internal/model"
)

type nominatimResult struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		Suburb  string `json:"suburb"`
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		State   string `json:"state"`
	} `json:"address"`
}

// ReverseGeocode resolves a coordinate to a human-readable place name using
// the OSM Nominatim API. Purely presentational; callers treat failures as
// "no place name".
func ReverseGeocode(ctx context.Context, coord model.Coordinate) (string, error) {
	u := "https://nominatim.openstreetmap.org/reverse?" + url.Values{
		"lat":    {strconv.FormatFloat(coord.Lat, 'f', -1, 64)},
		"lon":    {strconv.FormatFloat(coord.Lng, 'f', -1, 64)},
		"format": {"json"},
		"zoom":   {"14"},
	}.Encode()

	client := &http.Client{Timeout: 10 * time.Second}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "gurume/0.1 (restaurant search client)")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geocoding returned status %d", resp.StatusCode)
	}

	var result nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding geocoding response: %w", err)
	}

	// Prefer the most local non-empty component over the full display name.
	for _, candidate := range []string{
		result.Address.Suburb, result.Address.City,
		result.Address.Town, result.Address.Village, result.Address.State,
	} {
		if candidate != "" {
			return candidate, nil
		}
	}
	if result.DisplayName == "" {
		return "", fmt.Errorf("no place name for %.4f,%.4f", coord.Lat, coord.Lng)
	}
	return result.DisplayName, nil
}
