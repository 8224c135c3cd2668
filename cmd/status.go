package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Harrypotter-hub/SmartBunk/internal/cli"
	"github.com/Harrypotter-hub/SmartBunk/internal/report"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Attendance outlook for every subject",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	subjects, err := s.ListSubjects()
	if err != nil {
		return err
	}
	if len(subjects) == 0 {
		fmt.Println("\n  No subjects yet. Add one with `smartbunk subject add`.")
		return nil
	}

	today, err := asOfDate()
	if err != nil {
		return err
	}

	cfg := loadConfig()
	opts := projectionOptions(cfg)
	summary := report.Build(subjects, opts, today, cfg.HolidaySet())

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("ATTENDANCE  target %s", cli.FormatPercent(opts.TargetPercentage))))
	fmt.Println()

	rows := make([][]string, 0, len(summary.Subjects))
	for _, r := range summary.Subjects {
		rows = append(rows, []string{
			r.Subject.Name,
			cli.FormatSchedule(r.Subject.Schedule),
			cli.FormatFraction(r.Subject.Attended, r.Subject.Total),
			cli.FormatPercent(r.Result.Percentage),
			cli.RenderStatus(r.Result.Status),
			cli.FormatAdvice(r.Result),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Subject", "Schedule", "Marked", "Current", "Status", "Advice"},
		Rows:    rows,
	}))

	if summary.DangerCount+summary.ImpossibleCount > 0 {
		fmt.Printf("  %d of %d subjects below target\n\n",
			summary.DangerCount+summary.ImpossibleCount, len(summary.Subjects))
	}

	return nil
}
