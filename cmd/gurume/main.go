package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/phuslu/log"

	"github.com/kenmiya/gurume/internal/tui"
)

var version = "dev"

func main() {
	// Optional .env for HOTPEPPER_API_KEY during development.
	godotenv.Load()

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "search":
			if err := runSearch(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
			return
		case "export":
			if err := runExport(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
			return
		case "version":
			fmt.Println("gurume " + version)
			return
		case "help", "--help", "-h":
			printUsage()
			return
		}
	}

	// No subcommand → launch TUI. Logs go to a file so they don't fight
	// the alternate screen.
	logger := &log.Logger{
		Level:      log.InfoLevel,
		TimeFormat: "15:04:05",
		Writer: &log.FileWriter{
			Filename: filepath.Join(configDir(), "gurume.log"),
			MaxSize:  10 << 20,
		},
	}

	if err := tui.Run(apiKey(), defaultDBPath(), logger); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func apiKey() string {
	return os.Getenv("HOTPEPPER_API_KEY")
}

func configDir() string {
	cfg, _ := os.UserConfigDir()
	dir := filepath.Join(cfg, "gurume")
	os.MkdirAll(dir, 0755)
	return dir
}

func defaultDBPath() string {
	return filepath.Join(configDir(), "favorites.db")
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `gurume - restaurant search for your terminal

Usage:
  gurume                 Launch interactive TUI
  gurume search [flags]  Run a one-shot search
  gurume export [flags]  Export favorites to CSV
  gurume version         Show version

The HotPepper API key is read from HOTPEPPER_API_KEY (a .env file works).
Run 'gurume search --help' or 'gurume export --help' for flags.
`)
}
