package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Coordinate is a WGS84 point.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Shop is one restaurant record as returned by the gourmet search API.
// Identity is ID; everything else is display data and may differ slightly
// between snapshots of the same shop.
type Shop struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	StationName string   `json:"station_name"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Access      string   `json:"access"`
	Open        string   `json:"open"` // free-text business hours
	Catch       string   `json:"catch"`
	GenreName   string   `json:"genre_name"`
	BudgetName  string   `json:"budget_name"`
	Capacity    Capacity `json:"capacity"`
	PhotoURL    string   `json:"photo_url"`
	ThumbURL    string   `json:"thumb_url"`
	WebsiteURL  string   `json:"website_url"`
	Card        string   `json:"card"`
	Parking     string   `json:"parking"`
}

// SearchParams holds the conditions for one pagination session.
// Range is the API's discrete distance band, not meters.
type SearchParams struct {
	Range   int    // 1..5
	Keyword string // empty = unfiltered
}

// Range codes accepted by the search API.
const (
	RangeMin = 1
	RangeMax = 5
)

var rangeLabels = map[int]string{
	1: "300m",
	2: "500m",
	3: "1km",
	4: "2km",
	5: "3km",
}

// RangeLabel returns the human-readable distance band for a range code.
func RangeLabel(code int) string {
	if l, ok := rangeLabels[code]; ok {
		return l
	}
	return fmt.Sprintf("range %d", code)
}

// Validate reports whether the params are acceptable to the API.
func (p SearchParams) Validate() error {
	if p.Range < RangeMin || p.Range > RangeMax {
		return fmt.Errorf("range must be %d-%d, got %d", RangeMin, RangeMax, p.Range)
	}
	return nil
}

// ResultPage is one decoded page of search results. It is merged into the
// session's accumulated list and not retained.
type ResultPage struct {
	Shops     []Shop
	Start     int // 1-based offset that was requested
	Returned  int // items actually returned
	Available int // total matches reported by the API
}

// Capacity is the API's seat-count field, which arrives as either a JSON
// number or a string depending on the shop. Decoded by trial: number first,
// then string.
type Capacity struct {
	Int   int
	Str   string
	IsInt bool
}

func (c *Capacity) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*c = Capacity{Int: n, IsInt: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = Capacity{Str: s}
		return nil
	}
	return fmt.Errorf("capacity: cannot decode %s as number or string", string(data))
}

func (c Capacity) MarshalJSON() ([]byte, error) {
	if c.IsInt {
		return json.Marshal(c.Int)
	}
	return json.Marshal(c.Str)
}

// String renders the capacity for display; empty when unknown.
func (c Capacity) String() string {
	if c.IsInt {
		return strconv.Itoa(c.Int)
	}
	return c.Str
}
