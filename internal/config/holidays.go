package config

import (
	"sort"

	"github.com/Harrypotter-hub/SmartBunk/internal/engine"
)

// defaultHolidays maps a region code to its gazetted holiday dates. The table
// is reference data shipped with the binary; config [holidays] extra/skip
// lists adjust it per user.
var defaultHolidays = map[string][]string{
	"in": {
		// 2025
		"2025-01-26", // Republic Day
		"2025-03-14", // Holi
		"2025-03-31", // Id-ul-Fitr
		"2025-04-18", // Good Friday
		"2025-08-15", // Independence Day
		"2025-10-02", // Gandhi Jayanti
		"2025-10-20", // Diwali
		"2025-12-25", // Christmas
		// 2026
		"2026-01-26",
		"2026-03-04", // Holi
		"2026-03-21", // Id-ul-Fitr
		"2026-04-03", // Good Friday
		"2026-08-15",
		"2026-10-02",
		"2026-11-08", // Diwali
		"2026-12-25",
	},
	"none": {},
}

// Regions lists the available built-in holiday regions.
func Regions() []string {
	regions := make([]string, 0, len(defaultHolidays))
	for r := range defaultHolidays {
		regions = append(regions, r)
	}
	sort.Strings(regions)
	return regions
}

// HolidaySet merges the region's built-in table with the config extras and
// skips into the membership set the resolver consumes. An unknown region
// yields only the extras.
func (c Config) HolidaySet() engine.HolidaySet {
	dates := append([]string{}, defaultHolidays[c.Holidays.Region]...)
	dates = append(dates, c.Holidays.Extra...)

	set := engine.NewHolidaySet(dates)
	for _, d := range c.Holidays.Skip {
		delete(set, d)
	}
	return set
}
