package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Harrypotter-hub/SmartBunk/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()

	fmt.Printf("  Config file: %s", config.Path())
	if !config.Exists() {
		fmt.Print(" (not found, showing defaults)")
	}
	fmt.Println()
	fmt.Println()
	fmt.Printf("  Target percentage: %.0f%%\n", cfg.Tracking.TargetPercentage*100)
	fmt.Printf("  Chaos factor: %.2f\n", cfg.Tracking.ChaosFactor)
	fmt.Printf("  Holiday region: %s\n", cfg.Holidays.Region)
	if len(cfg.Holidays.Extra) > 0 {
		extra := append([]string(nil), cfg.Holidays.Extra...)
		sort.Strings(extra)
		fmt.Printf("  Extra holidays: %v\n", extra)
	}
	if len(cfg.Holidays.Skip) > 0 {
		skip := append([]string(nil), cfg.Holidays.Skip...)
		sort.Strings(skip)
		fmt.Printf("  Skipped holidays: %v\n", skip)
	}
	fmt.Printf("  Notifications: enabled=%v lead=%dm interval=%ds\n",
		cfg.Notifications.Enabled, cfg.Notifications.LeadMinutes, cfg.Notifications.IntervalSec)
	fmt.Printf("  Theme: %s\n", cfg.Appearance.Theme)
	fmt.Printf("  Database: %s\n", flagDBPath)
	return nil
}
