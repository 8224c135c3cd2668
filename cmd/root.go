package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Harrypotter-hub/SmartBunk/internal/config"
	"github.com/Harrypotter-hub/SmartBunk/internal/engine"
	"github.com/Harrypotter-hub/SmartBunk/internal/store"
)

var (
	flagDBPath string
	flagDate   string
	flagTarget float64
	flagChaos  float64
	flagQuiet  bool
)

var rootCmd = &cobra.Command{
	Use:   "smartbunk",
	Short: "Attendance tracking and bunk planning CLI",
	Long:  "Track class attendance per subject and see how many classes you can still skip, or must attend, to hit your target percentage.",
	RunE:  runStatus,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDBPath, "data-dir", "d", store.DefaultPath(), "Database file path")
	rootCmd.PersistentFlags().StringVar(&flagDate, "date", "", "As-of date (YYYY-MM-DD, default today)")
	rootCmd.PersistentFlags().Float64VarP(&flagTarget, "target", "t", 0, "Target attendance fraction, overrides config")
	rootCmd.PersistentFlags().Float64Var(&flagChaos, "chaos", 0, "Realism factor for remaining classes, overrides config")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// openStore is the shared data access path used by all commands.
func openStore() (*store.Store, error) {
	s, err := store.Open(flagDBPath)
	if err != nil {
		return nil, fmt.Errorf("opening store at %s: %w", flagDBPath, err)
	}
	return s, nil
}

// loadConfig loads the config file, warning (not failing) on parse errors so
// a broken config never locks the user out of their data.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  config error, using defaults: %v\n", err)
	}
	return cfg
}

// asOfDate resolves the --date flag, defaulting to the current local date.
// A single resolved value is used for the whole command so one invocation is
// internally consistent even across midnight.
func asOfDate() (time.Time, error) {
	if flagDate == "" {
		return time.Now(), nil
	}
	d, err := engine.ParseDate(flagDate)
	if err != nil {
		return time.Time{}, err
	}
	return d, nil
}

// projectionOptions merges config knobs with the per-invocation flag
// overrides.
func projectionOptions(cfg config.Config) engine.Options {
	opts := cfg.Options()
	if flagTarget > 0 {
		opts.TargetPercentage = flagTarget
	}
	if flagChaos > 0 {
		opts.ChaosFactor = flagChaos
	}
	return opts
}
