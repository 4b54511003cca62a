package views

import "github.com/kenmiya/gurume/internal/model"

// Navigation messages bubble up to the root App, which swaps views.

type NavigateToHome struct{}

type NavigateToSearch struct{}

type NavigateToFavorites struct{}

type NavigateToRecent struct{}

// StartSearchMsg starts a new pagination session and shows the results view.
type StartSearchMsg struct {
	Coord  model.Coordinate
	Params model.SearchParams
}

// ShowDetailMsg opens the detail view for one shop. Origin is the search
// coordinate used for the distance line; nil when unknown (favorites view).
type ShowDetailMsg struct {
	Shop   model.Shop
	Origin *model.Coordinate
}

// DetailClosed returns from the detail view to whichever view opened it.
type DetailClosed struct{}
