package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/azhunt/house-hunter/internal/enrich"
	"github.com/azhunt/house-hunter/internal/fetch"
	"github.com/azhunt/house-hunter/internal/geo"
	"github.com/azhunt/house-hunter/internal/score"
	"github.com/azhunt/house-hunter/internal/store"
)

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Fetch, enrich, and score listings",
		Long:  "Fetch listings for all configured cities, enrich them with geo and safety data, score them, and replace the stored batch.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRefresh(cmd)
		},
	}
}

func runRefresh(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	ctx := cmd.Context()

	fetched, err := fetch.New(cfg.Search).FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("fetching listings: %w", err)
	}
	if len(fetched) == 0 {
		fmt.Println("No listings fetched.")
		return nil
	}

	geocoder := geo.NewGeocoder(cfg.Geocoder, store.NewGeoCache(database))
	enricher := enrich.New(geocoder, cfg)

	outcomes := enricher.EnrichAll(ctx, fetched)
	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}

	scored := score.NewScorer(cfg.Scoring).ScoreAll(enrich.Listings(outcomes))

	repo := store.NewListings(database)
	if err := repo.ReplaceAll(scored); err != nil {
		return fmt.Errorf("saving listings: %w", err)
	}

	fmt.Printf("Refreshed %d listings (%d fetched, %d enrichment failures).\n",
		len(scored), len(fetched), failed)
	return nil
}
