package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/phuslu/log"

	"github.com/kenmiya/gurume/internal/engine/storage"
)

func runExport(args []string) error {
	var dbPath, outputPath string

	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.StringVar(&dbPath, "db", defaultDBPath(), "Path to the favorites database")
	fs.StringVar(&outputPath, "output", "", "Output CSV path (default: same dir as db)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: gurume export [flags]\n\nFlags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  gurume export\n")
		fmt.Fprintf(os.Stderr, "  gurume export -output favorites.csv\n")
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("favorites database not found at %s", dbPath)
	}

	if outputPath == "" {
		dir := filepath.Dir(dbPath)
		base := strings.TrimSuffix(filepath.Base(dbPath), ".db")
		outputPath = filepath.Join(dir, base+".csv")
	}

	store, err := storage.NewStore(dbPath, &log.DefaultLogger)
	if err != nil {
		return fmt.Errorf("opening favorites: %w", err)
	}
	defer store.Close()

	shops := store.List()
	if len(shops) == 0 {
		return fmt.Errorf("no favorites to export")
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	w.Write([]string{
		"id", "name", "genre", "budget", "address", "station",
		"lat", "lng", "access", "hours", "capacity",
		"card", "parking", "website",
	})

	for _, s := range shops {
		w.Write([]string{
			s.ID,
			s.Name,
			s.GenreName,
			s.BudgetName,
			s.Address,
			s.StationName,
			strconv.FormatFloat(s.Lat, 'f', 6, 64),
			strconv.FormatFloat(s.Lng, 'f', 6, 64),
			s.Access,
			s.Open,
			s.Capacity.String(),
			s.Card,
			s.Parking,
			s.WebsiteURL,
		})
	}

	fmt.Fprintf(os.Stderr, "Exported %d favorites to %s\n", len(shops), outputPath)
	return nil
}
