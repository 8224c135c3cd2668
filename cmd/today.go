package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Harrypotter-hub/SmartBunk/internal/cli"
	"github.com/Harrypotter-hub/SmartBunk/internal/engine"
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Subjects with a class on the as-of date",
	RunE:  runToday,
}

func init() {
	rootCmd.AddCommand(todayCmd)
}

func runToday(_ *cobra.Command, _ []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	subjects, err := s.ListSubjects()
	if err != nil {
		return err
	}

	day, err := asOfDate()
	if err != nil {
		return err
	}

	cfg := loadConfig()
	holidays := cfg.HolidaySet()
	dateStr := engine.FormatLocalDate(day)

	due := engine.SubjectsOnDate(day, subjects, holidays)
	if len(due) == 0 {
		if holidays.Contains(dateStr) {
			fmt.Printf("\n  %s is a holiday, no classes.\n", cli.FormatDate(dateStr))
		} else {
			fmt.Printf("\n  No classes on %s.\n", cli.FormatDate(dateStr))
		}
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("CLASSES  " + cli.FormatDate(dateStr)))
	fmt.Println()

	rows := make([][]string, 0, len(due))
	for _, sub := range due {
		start := sub.StartTime
		if start == "" {
			start = "-"
		}
		marked := "not marked"
		if rec, ok := sub.RecordFor(dateStr); ok {
			marked = string(rec.Status)
		}
		rows = append(rows, []string{sub.Name, start, marked})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Subject", "Starts", "Today"},
		Rows:    rows,
	}))

	return nil
}
