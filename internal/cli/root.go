// Package cli defines the cobra command tree for house-hunter.
package cli

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/azhunt/house-hunter/internal/config"
	"github.com/azhunt/house-hunter/internal/logging"
	"github.com/azhunt/house-hunter/internal/store"
)

var (
	flagFormat  string
	flagDB      string
	flagConfig  string
	flagVerbose bool
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hh",
		Short:         "Rank houses for sale by value",
		Long:          "A tool that fetches real-estate listings, enriches them with safety and location data, and ranks them on a 0-100 value score.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(flagVerbose)
		},
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default: ~/.house-hunter/listings.db)")
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "config file path (default: ~/.house-hunter/config.yaml)")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newRefreshCmd(),
		newRescoreCmd(),
		newListCmd(),
		newShowCmd(),
		newVersionCmd(),
	)

	return root
}

// openDB opens the SQLite database using the --db flag or default path.
func openDB() (*sql.DB, error) {
	path := flagDB
	if path == "" {
		var err error
		path, err = store.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return store.Open(path)
}

// loadConfig loads the pipeline configuration using the --config flag or
// default path.
func loadConfig() (config.Config, error) {
	path := flagConfig
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return config.Config{}, fmt.Errorf("finding home directory: %w", err)
		}
		path = filepath.Join(home, ".house-hunter", "config.yaml")
	}
	return config.Load(path)
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

// closeDB closes the database, logging any error to stderr.
func closeDB(database *sql.DB) {
	if err := database.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing database: %v\n", err)
	}
}
