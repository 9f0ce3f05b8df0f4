package cli

import (
	"github.com/spf13/cobra"

	"github.com/azhunt/house-hunter/internal/store"
)

func newListCmd() *cobra.Command {
	var (
		minPrice int64
		maxPrice int64
		minBeds  int
		city     string
		yard     bool
		pool     bool
		solar    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored listings ranked by value score",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := store.FilterOptions{}
			if minPrice > 0 {
				opts.MinPrice = &minPrice
			}
			if maxPrice > 0 {
				opts.MaxPrice = &maxPrice
			}
			if minBeds > 0 {
				opts.MinBeds = &minBeds
			}
			if city != "" {
				opts.Cities = []string{city}
			}
			if cmd.Flags().Changed("yard") {
				opts.HasYard = &yard
			}
			if cmd.Flags().Changed("pool") {
				opts.HasPool = &pool
			}
			if cmd.Flags().Changed("solar") {
				opts.HasSolar = &solar
			}
			return runList(opts)
		},
	}

	cmd.Flags().Int64Var(&minPrice, "min-price", 0, "minimum price")
	cmd.Flags().Int64Var(&maxPrice, "max-price", 0, "maximum price")
	cmd.Flags().IntVar(&minBeds, "beds", 0, "minimum bedrooms")
	cmd.Flags().StringVar(&city, "city", "", "filter by city")
	cmd.Flags().BoolVar(&yard, "yard", false, "filter by yard")
	cmd.Flags().BoolVar(&pool, "pool", false, "filter by pool")
	cmd.Flags().BoolVar(&solar, "solar", false, "filter by solar")

	return cmd
}

func runList(opts store.FilterOptions) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	listings, err := store.NewListings(database).Filter(opts)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(listings)
	}

	return printListingTable(listings)
}
