package hotpepper

import (
	"github.com/kenmiya/gurume/internal/model"
)

// Wire types for the gourmet search response. The API nests everything
// under "results" and reports results_returned as a string.
type searchResponse struct {
	Results searchResults `json:"results"`
}

type searchResults struct {
	ResultsAvailable int        `json:"results_available"`
	ResultsReturned  string     `json:"results_returned"`
	ResultsStart     int        `json:"results_start"`
	Shop             []wireShop `json:"shop"`
}

type wireShop struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Address     string         `json:"address"`
	StationName string         `json:"station_name"`
	Lat         float64        `json:"lat"`
	Lng         float64        `json:"lng"`
	Access      string         `json:"access"`
	Open        string         `json:"open"`
	Catch       string         `json:"catch"`
	Capacity    model.Capacity `json:"capacity"`
	Genre       wireGenre      `json:"genre"`
	Budget      wireBudget     `json:"budget"`
	Photo       wirePhoto      `json:"photo"`
	URLs        wireURLs       `json:"urls"`
	Card        string         `json:"card"`
	Parking     string         `json:"parking"`
}

type wireGenre struct {
	Name string `json:"name"`
}

type wireBudget struct {
	Name    string `json:"name"`
	Average string `json:"average"`
}

type wirePhoto struct {
	PC struct {
		L string `json:"l"`
	} `json:"pc"`
	Mobile struct {
		L string `json:"l"`
	} `json:"mobile"`
}

type wireURLs struct {
	PC string `json:"pc"`
}

func (w wireShop) toModel() model.Shop {
	return model.Shop{
		ID:          w.ID,
		Name:        w.Name,
		Address:     w.Address,
		StationName: w.StationName,
		Lat:         w.Lat,
		Lng:         w.Lng,
		Access:      w.Access,
		Open:        w.Open,
		Catch:       w.Catch,
		GenreName:   w.Genre.Name,
		BudgetName:  w.Budget.Name,
		Capacity:    w.Capacity,
		PhotoURL:    w.Photo.PC.L,
		ThumbURL:    w.Photo.Mobile.L,
		WebsiteURL:  w.URLs.PC,
		Card:        w.Card,
		Parking:     w.Parking,
	}
}

func (r searchResponse) toPage() model.ResultPage {
	shops := make([]model.Shop, 0, len(r.Results.Shop))
	for _, w := range r.Results.Shop {
		shops = append(shops, w.toModel())
	}
	return model.ResultPage{
		Shops:     shops,
		Start:     r.Results.ResultsStart,
		Returned:  len(shops),
		Available: r.Results.ResultsAvailable,
	}
}
