package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Harrypotter-hub/SmartBunk/internal/cli"
	"github.com/Harrypotter-hub/SmartBunk/internal/engine"
)

var flagCalendarDays int

var calendarCmd = &cobra.Command{
	Use:   "calendar [subject]",
	Short: "Show upcoming class days",
	Long:  "Show the upcoming class days for one subject, or for all subjects when none is named. Holidays and days outside the term are skipped.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCalendar,
}

func init() {
	calendarCmd.Flags().IntVarP(&flagCalendarDays, "days", "n", 14, "How many days ahead to look")
	rootCmd.AddCommand(calendarCmd)
}

func runCalendar(_ *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	subjects, err := s.ListSubjects()
	if err != nil {
		return err
	}
	if len(args) == 1 {
		sub, err := s.FindSubject(args[0])
		if err != nil {
			return err
		}
		subjects = subjects[:0]
		subjects = append(subjects, sub)
	}
	if len(subjects) == 0 {
		fmt.Println("  No subjects yet. Add one with `smartbunk subject add`.")
		return nil
	}

	day, err := asOfDate()
	if err != nil {
		return err
	}
	from := day
	to := day.AddDate(0, 0, flagCalendarDays)
	holidays := loadConfig().HolidaySet()

	fmt.Println(cli.RenderTitle(fmt.Sprintf("NEXT %d DAYS", flagCalendarDays)))

	t := cli.Table{Headers: []string{"Date", "Day", "Subject", "Starts"}}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		for _, sub := range subjects {
			if !engine.IsEventDay(d, sub, holidays).OK {
				continue
			}
			starts := sub.StartTime
			if starts == "" {
				starts = "-"
			}
			dateStr := engine.FormatLocalDate(d)
			t.Rows = append(t.Rows, []string{
				cli.FormatDate(dateStr),
				d.Weekday().String()[:3],
				sub.Name,
				starts,
			})
		}
	}
	if len(t.Rows) == 0 {
		fmt.Println("  No class days in this window.")
		return nil
	}
	fmt.Println(cli.RenderTable(t))
	return nil
}
