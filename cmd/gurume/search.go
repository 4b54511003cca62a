package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phuslu/log"

	"github.com/kenmiya/gurume/internal/engine/geo"
	"github.com/kenmiya/gurume/internal/engine/hotpepper"
	"github.com/kenmiya/gurume/internal/engine/hours"
	"github.com/kenmiya/gurume/internal/engine/search"
	"github.com/kenmiya/gurume/internal/model"
)

func runSearch(args []string) error {
	var (
		params   model.SearchParams
		coord    model.Coordinate
		maxPages int
		asJSON   bool
		verbose  bool
	)

	fs := flag.NewFlagSet("search", flag.ExitOnError)
	fs.Float64Var(&coord.Lat, "lat", 35.6812, "Center latitude")
	fs.Float64Var(&coord.Lng, "lng", 139.7671, "Center longitude")
	fs.IntVar(&params.Range, "range", 3, "Radius code 1-5 (300m/500m/1km/2km/3km)")
	fs.StringVar(&params.Keyword, "keyword", "", "Search keyword (optional)")
	fs.IntVar(&maxPages, "pages", 1, "Max pages to fetch (20 shops per page)")
	fs.BoolVar(&asJSON, "json", false, "Emit results as JSON")
	fs.BoolVar(&verbose, "v", false, "Verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: gurume search [flags]\n\nFlags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  gurume search -keyword ramen\n")
		fmt.Fprintf(os.Stderr, "  gurume search -lat 34.7025 -lng 135.4959 -range 5 -pages 3\n")
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := params.Validate(); err != nil {
		return err
	}
	if maxPages < 1 {
		maxPages = 1
	}

	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	logger := &log.Logger{
		Level:      level,
		TimeFormat: "15:04:05",
		Writer:     &log.ConsoleWriter{Writer: os.Stderr, ColorOutput: true},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	client := hotpepper.NewClient(apiKey(), hotpepper.WithLogger(logger))
	paginator := search.NewPaginator(client, logger)

	paginator.StartSearch(ctx, coord, params)
	for page := 1; page < maxPages; page++ {
		snap := paginator.Snapshot()
		if snap.ErrMessage != "" || !snap.CanLoadMore || len(snap.Shops) == 0 {
			break
		}
		paginator.RequestMoreIfAtEnd(ctx, snap.Shops[len(snap.Shops)-1].ID, coord)
	}

	snap := paginator.Snapshot()
	if snap.ErrMessage != "" && len(snap.Shops) == 0 {
		return fmt.Errorf("%s", snap.ErrMessage)
	}
	if snap.ErrMessage != "" {
		fmt.Fprintf(os.Stderr, "warning: %s\n", snap.ErrMessage)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap.Shops)
	}

	if place, err := geo.ReverseGeocode(ctx, coord); err == nil {
		fmt.Printf("Results near %s (%d of %d shops)\n\n", place, len(snap.Shops), snap.Available)
	} else {
		fmt.Printf("Results near %.4f,%.4f (%d of %d shops)\n\n", coord.Lat, coord.Lng, len(snap.Shops), snap.Available)
	}

	now := time.Now()
	for i, shop := range snap.Shops {
		dist := geo.DistanceText(&coord, model.Coordinate{Lat: shop.Lat, Lng: shop.Lng})
		line := fmt.Sprintf("%3d. %s [%s, %s]", i+1, shop.Name, shop.GenreName, dist)
		if st := hours.Evaluate(shop.Open, now); st != hours.StatusUnknown {
			line += " (" + st.String() + ")"
		}
		fmt.Println(line)
		fmt.Printf("     %s\n", shop.Address)
	}

	return nil
}
