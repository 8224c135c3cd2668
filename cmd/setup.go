package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Harrypotter-hub/SmartBunk/internal/config"
	"github.com/Harrypotter-hub/SmartBunk/internal/model"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	reader := bufio.NewReader(os.Stdin)

	// Load existing config or defaults
	cfg, _ := config.Load()

	s, err := openStore()
	if err != nil {
		return err
	}
	count, _ := s.SubjectCount()
	_ = s.Close()

	fmt.Println()
	fmt.Println("  Welcome to smartbunk!")
	fmt.Println()
	if count > 0 {
		fmt.Printf("  Tracking %d subjects in %s\n\n", count, flagDBPath)
	}

	// 1. Target percentage
	fmt.Println("  1. Target attendance percentage")
	fmt.Println("     The minimum you must maintain to stay safe.")
	fmt.Printf("     Current: %.0f%%\n", cfg.Tracking.TargetPercentage*100)
	fmt.Print("     > ")
	targetIn, _ := reader.ReadString('\n')
	targetIn = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(targetIn), "%"))
	if targetIn != "" {
		if v, err := strconv.ParseFloat(targetIn, 64); err == nil && v > 0 && v <= 100 {
			if v > 1 {
				v /= 100
			}
			cfg.Tracking.TargetPercentage = v
		} else {
			fmt.Println("     Keeping current value.")
		}
	}
	fmt.Println()

	// 2. Chaos factor
	fmt.Println("  2. Realism factor for remaining classes")
	fmt.Println("     Classes get cancelled. 0.95 means plan for 95% of")
	fmt.Println("     scheduled classes actually happening.")
	fmt.Printf("     Current: %.2f\n", cfg.Tracking.ChaosFactor)
	fmt.Print("     > ")
	chaosIn, _ := reader.ReadString('\n')
	chaosIn = strings.TrimSpace(chaosIn)
	if chaosIn != "" {
		if v, err := strconv.ParseFloat(chaosIn, 64); err == nil && v > 0 && v <= 1 {
			cfg.Tracking.ChaosFactor = v
		} else {
			fmt.Println("     Keeping current value.")
		}
	}
	fmt.Println()

	// 3. Holiday region
	regions := config.Regions()
	fmt.Println("  3. Holiday region")
	fmt.Println("     Gazetted holidays in this region never count as class days.")
	for i, r := range regions {
		marker := ""
		if r == cfg.Holidays.Region {
			marker = " [current]"
		}
		fmt.Printf("     (%d) %s%s\n", i+1, r, marker)
	}
	fmt.Print("     > ")
	regionIn, _ := reader.ReadString('\n')
	regionIn = strings.TrimSpace(regionIn)
	if n, err := strconv.Atoi(regionIn); err == nil && n >= 1 && n <= len(regions) {
		cfg.Holidays.Region = regions[n-1]
	}
	fmt.Println()

	// 4. Theme
	fmt.Println("  4. Color theme")
	fmt.Println("     (1) Flexoki Dark [default]")
	fmt.Println("     (2) Catppuccin Mocha")
	fmt.Println("     (3) Tokyo Night")
	fmt.Println("     (4) Terminal (ANSI 16)")
	fmt.Print("     > ")
	themeChoice, _ := reader.ReadString('\n')
	switch strings.TrimSpace(themeChoice) {
	case "2":
		cfg.Appearance.Theme = "catppuccin-mocha"
	case "3":
		cfg.Appearance.Theme = "tokyo-night"
	case "4":
		cfg.Appearance.Theme = "terminal"
	default:
		cfg.Appearance.Theme = "flexoki-dark"
	}

	// Save
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	// Mirror the knobs into the database so the reminder daemon can run
	// without the config file.
	if s, err := openStore(); err == nil {
		_ = s.SaveSettings(model.AppSettings{
			TargetPercentage:     cfg.Tracking.TargetPercentage,
			ChaosFactor:          cfg.Tracking.ChaosFactor,
			NotificationsEnabled: cfg.Notifications.Enabled,
			ReminderLeadMinutes:  cfg.Notifications.LeadMinutes,
		})
		_ = s.Close()
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `smartbunk setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}
