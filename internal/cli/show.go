package cli

import (
	"github.com/spf13/cobra"

	"github.com/azhunt/house-hunter/internal/score"
	"github.com/azhunt/house-hunter/internal/store"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a listing with its score breakdown",
		Long:  "Show a stored listing's details and the per-factor breakdown of its value score, computed against the stored batch.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(args[0])
		},
	}
}

func runShow(id string) error {
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

	l, err := repo.GetByID(id)
	if err != nil {
		return err
	}

	// The breakdown must use the same population the batch was scored
	// with: every stored listing with a price.
	batch, err := repo.All()
	if err != nil {
		return err
	}
	scoreable := batch[:0:0]
	for _, b := range batch {
		if b.Price > 0 {
			scoreable = append(scoreable, b)
		}
	}

	breakdown := score.NewScorer(cfg.Scoring).Breakdown(*l, scoreable)

	if isJSON() {
		return printJSON(struct {
			Listing   any `json:"listing"`
			Breakdown any `json:"breakdown"`
		}{l, breakdown})
	}

	printListingDetail(*l)
	printBreakdown(breakdown)
	return nil
}
