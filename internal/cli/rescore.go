package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/azhunt/house-hunter/internal/enrich"
	"github.com/azhunt/house-hunter/internal/geo"
	"github.com/azhunt/house-hunter/internal/score"
	"github.com/azhunt/house-hunter/internal/store"
)

func newRescoreCmd() *cobra.Command {
	var reenrich bool

	cmd := &cobra.Command{
		Use:   "rescore",
		Short: "Re-score the stored listings",
		Long:  "Recompute value scores for the stored batch without fetching. Scores are relative to the batch, so removing or adding listings changes them.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRescore(cmd, reenrich)
		},
	}

	cmd.Flags().BoolVar(&reenrich, "enrich", false, "re-run enrichment before scoring")

	return cmd
}

func runRescore(cmd *cobra.Command, reenrich bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	repo := store.NewListings(database)
	listings, err := repo.All()
	if err != nil {
		return err
	}
	if len(listings) == 0 {
		fmt.Println("No listings stored. Run refresh first.")
		return nil
	}

	if reenrich {
		geocoder := geo.NewGeocoder(cfg.Geocoder, store.NewGeoCache(database))
		enricher := enrich.New(geocoder, cfg)
		listings = enrich.Listings(enricher.EnrichAll(cmd.Context(), listings))
	}

	scored := score.NewScorer(cfg.Scoring).ScoreAll(listings)

	if err := repo.ReplaceAll(scored); err != nil {
		return fmt.Errorf("saving listings: %w", err)
	}

	fmt.Printf("Rescored %d listings.\n", len(scored))
	return nil
}
