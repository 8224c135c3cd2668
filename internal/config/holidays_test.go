package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHolidaySetUsesRegionTable(t *testing.T) {
	cfg := DefaultConfig()

	set := cfg.HolidaySet()
	assert.True(t, set.Contains("2026-01-26"))
	assert.True(t, set.Contains("2026-08-15"))
	assert.False(t, set.Contains("2026-07-04"))
}

func TestHolidaySetExtraAndSkip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Holidays.Extra = []string{"2026-02-14", "garbage"}
	cfg.Holidays.Skip = []string{"2026-12-25"}

	set := cfg.HolidaySet()
	assert.True(t, set.Contains("2026-02-14"))
	assert.False(t, set.Contains("garbage"))
	assert.False(t, set.Contains("2026-12-25"), "skipped built-in date must be excluded")
	assert.True(t, set.Contains("2026-01-26"), "other built-ins unaffected")
}

func TestHolidaySetUnknownRegion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Holidays.Region = "atlantis"
	cfg.Holidays.Extra = []string{"2026-05-01"}

	set := cfg.HolidaySet()
	assert.Len(t, set, 1)
	assert.True(t, set.Contains("2026-05-01"))
}

func TestFillDefaultsRepairsBadKnobs(t *testing.T) {
	cfg := Config{}
	cfg.Tracking.TargetPercentage = 1.7
	cfg.Tracking.ChaosFactor = -0.2
	cfg.fillDefaults()

	assert.InDelta(t, 0.75, cfg.Tracking.TargetPercentage, 1e-9)
	assert.InDelta(t, 0.95, cfg.Tracking.ChaosFactor, 1e-9)
	assert.Equal(t, "in", cfg.Holidays.Region)
}

func TestRegionsSorted(t *testing.T) {
	regions := Regions()
	assert.Contains(t, regions, "in")
	assert.Contains(t, regions, "none")
}
