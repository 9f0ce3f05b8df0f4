package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/azhunt/house-hunter/internal/listing"
	"github.com/azhunt/house-hunter/internal/score"
)

// printJSON marshals v as indented JSON and writes it to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printListingTable prints listings as a ranked table.
func printListingTable(listings []listing.Listing) error {
	if len(listings) == 0 {
		fmt.Println("No listings found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "SCORE\tID\tADDRESS\tCITY\tPRICE\tBED\tBATH\tSQFT"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, "-----\t--\t-------\t----\t-----\t---\t----\t----"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, l := range listings {
		scoreStr := "-"
		if l.ValueScore != nil {
			scoreStr = fmt.Sprintf("%.1f", *l.ValueScore)
		}

		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t$%s\t%d\t%g\t%d\n",
			scoreStr, l.ID, truncate(l.Address, 40), l.City,
			formatPrice(l.Price), l.Beds, l.Baths, l.Sqft); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Printf("\nTotal: %d listings\n", len(listings))
	return nil
}

// printListingDetail prints a single listing in text format.
func printListingDetail(l listing.Listing) {
	fmt.Printf("Listing %s (%s)\n", l.ID, l.Source)
	fmt.Printf("  Address:  %s, %s, %s %s\n", l.Address, l.City, l.State, l.ZipCode)
	if l.URL != "" {
		fmt.Printf("  URL:      %s\n", l.URL)
	}
	fmt.Printf("  Price:    $%s\n", formatPrice(l.Price))
	fmt.Printf("  Beds:     %d\n", l.Beds)
	fmt.Printf("  Baths:    %g\n", l.Baths)
	fmt.Printf("  Sqft:     %d\n", l.Sqft)
	if l.LotSqft != nil {
		fmt.Printf("  Lot:      %d sqft\n", *l.LotSqft)
	}
	if l.YearBuilt != nil {
		fmt.Printf("  Built:    %d\n", *l.YearBuilt)
	}
	if l.PropertyType != "" {
		fmt.Printf("  Type:     %s\n", l.PropertyType)
	}
	if l.HOAMonthly != nil {
		fmt.Printf("  HOA:      $%d/month\n", *l.HOAMonthly)
	}
	if l.DaysOnMarket != nil {
		fmt.Printf("  DOM:      %d days\n", *l.DaysOnMarket)
	}
	if l.SafetyIndex != nil {
		fmt.Printf("  Safety:   %d/100\n", *l.SafetyIndex)
	}
	if l.NearestDowntown != "" && l.DistanceToDowntown != nil {
		fmt.Printf("  Downtown: %.1f mi to %s\n", *l.DistanceToDowntown, l.NearestDowntown)
	}

	features := []string{}
	if l.HasPool {
		features = append(features, "pool")
	}
	if l.HasYard {
		features = append(features, "yard")
	}
	if l.HasSolar {
		features = append(features, "solar")
	}
	if l.HasGarage {
		features = append(features, "garage")
	}
	if len(features) > 0 {
		fmt.Printf("  Features: %s\n", strings.Join(features, ", "))
	}

	if l.ValueScore != nil {
		fmt.Printf("  Score:    %.1f/100\n", *l.ValueScore)
	}
}

// printBreakdown prints the per-factor score contributions.
func printBreakdown(factors []score.Factor) {
	fmt.Println("\nScore breakdown:")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	total := 0.0
	for _, f := range factors {
		total += f.Points
		fmt.Fprintf(w, "  %s\t%.1f / %.0f\t%s\n", f.Name, f.Points, f.Weight, f.Description)
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: flushing breakdown: %v\n", err)
	}

	fmt.Printf("  total: %.1f / 100\n", total)
}

// formatPrice formats a dollar amount as a string with commas.
func formatPrice(dollars int64) string {
	s := fmt.Sprintf("%d", dollars)

	if len(s) <= 3 {
		return s
	}

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)

	return strings.Join(parts, ",")
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
