package tui

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/kenmiya/gurume/internal/model"
)

const maxRecent = 10

type recentSearch struct {
	Lat     float64   `json:"lat"`
	Lng     float64   `json:"lng"`
	Range   int       `json:"range"`
	Keyword string    `json:"keyword"`
	RanAt   time.Time `json:"ran_at"`
}

func coordOf(e recentSearch) model.Coordinate {
	return model.Coordinate{Lat: e.Lat, Lng: e.Lng}
}

func paramsOf(e recentSearch) model.SearchParams {
	return model.SearchParams{Range: e.Range, Keyword: e.Keyword}
}

func recentFilePath() string {
	cfg, _ := os.UserConfigDir()
	return filepath.Join(cfg, "gurume", "recent.json")
}

func loadRecent() []recentSearch {
	data, err := os.ReadFile(recentFilePath())
	if err != nil {
		return nil
	}
	var entries []recentSearch
	json.Unmarshal(data, &entries)
	return entries
}

func saveRecent(coord model.Coordinate, params model.SearchParams) {
	entries := loadRecent()

	// Remove duplicate of the same conditions
	filtered := make([]recentSearch, 0, len(entries))
	for _, e := range entries {
		if e.Lat == coord.Lat && e.Lng == coord.Lng &&
			e.Range == params.Range && e.Keyword == params.Keyword {
			continue
		}
		filtered = append(filtered, e)
	}

	// Prepend
	filtered = append([]recentSearch{{
		Lat:     coord.Lat,
		Lng:     coord.Lng,
		Range:   params.Range,
		Keyword: params.Keyword,
		RanAt:   time.Now(),
	}}, filtered...)
	if len(filtered) > maxRecent {
		filtered = filtered[:maxRecent]
	}

	data, _ := json.MarshalIndent(filtered, "", "  ")
	dir := filepath.Dir(recentFilePath())
	os.MkdirAll(dir, 0755)
	os.WriteFile(recentFilePath(), data, 0644)
}
