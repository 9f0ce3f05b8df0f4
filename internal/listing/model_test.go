package listing

import "testing"

func testFilters() Filters {
	return Filters{
		MinBeds:      3,
		MinBaths:     2,
		MinSqft:      1200,
		MaxPrice:     700000,
		MinYearBuilt: 1996,
	}
}

func passing() Listing {
	year := 2015
	return Listing{
		ID: "1", Beds: 4, Baths: 2.5, Sqft: 2100, Price: 525000,
		YearBuilt: &year, PropertyType: "single_family",
	}
}

func TestPassesHardFilters(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Listing)
		want   bool
	}{
		{"all thresholds met", func(l *Listing) {}, true},
		{"too few beds", func(l *Listing) { l.Beds = 2 }, false},
		{"too few baths", func(l *Listing) { l.Baths = 1.5 }, false},
		{"too small", func(l *Listing) { l.Sqft = 1100 }, false},
		{"exactly at minimums", func(l *Listing) {
			l.Beds = 3
			l.Baths = 2
			l.Sqft = 1200
		}, true},
		{"over max price", func(l *Listing) { l.Price = 700001 }, false},
		{"at max price", func(l *Listing) { l.Price = 700000 }, true},
		{"too old", func(l *Listing) { y := 1985; l.YearBuilt = &y }, false},
		{"at minimum year", func(l *Listing) { y := 1996; l.YearBuilt = &y }, true},
		{"unknown year passes", func(l *Listing) { l.YearBuilt = nil }, true},
		{"condo excluded", func(l *Listing) { l.PropertyType = "condo" }, false},
		{"condo excluded case-insensitive", func(l *Listing) { l.PropertyType = "Condo" }, false},
		{"apartment excluded", func(l *Listing) { l.PropertyType = "apartment" }, false},
		{"manufactured excluded", func(l *Listing) { l.PropertyType = "manufactured" }, false},
		{"townhouse allowed", func(l *Listing) { l.PropertyType = "townhouse" }, true},
		{"fractional ownership excluded", func(l *Listing) {
			l.Description = "Rare 1/8 ownership opportunity in a luxury community."
		}, false},
		{"timeshare excluded", func(l *Listing) {
			l.Description = "This TIMESHARE offers flexible weeks."
		}, false},
		{"co-ownership excluded", func(l *Listing) {
			l.Description = "Co-Ownership made easy."
		}, false},
		{"ordinary description passes", func(l *Listing) {
			l.Description = "Beautifully updated home with a large backyard."
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := passing()
			tt.modify(&l)
			if got := l.PassesHardFilters(testFilters()); got != tt.want {
				t.Errorf("PassesHardFilters() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPassesHardFiltersZeroThresholds(t *testing.T) {
	// A zero-valued filter set only excludes banned property types.
	l := Listing{ID: "1", PropertyType: "single_family"}
	if !l.PassesHardFilters(Filters{}) {
		t.Error("empty filters should pass everything with an allowed type")
	}
}
