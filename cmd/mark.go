package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Harrypotter-hub/SmartBunk/internal/cli"
	"github.com/Harrypotter-hub/SmartBunk/internal/engine"
	"github.com/Harrypotter-hub/SmartBunk/internal/model"
)

var markCmd = &cobra.Command{
	Use:   "mark <subject> {present|absent}",
	Short: "Record attendance for the as-of date",
	Long:  "Record attendance for a subject. Marking a date that already has a record replaces it.",
	Args:  cobra.ExactArgs(2),
	RunE:  runMark,
}

var unmarkCmd = &cobra.Command{
	Use:   "unmark <subject>",
	Short: "Remove the attendance record for the as-of date",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnmark,
}

func init() {
	rootCmd.AddCommand(markCmd)
	rootCmd.AddCommand(unmarkCmd)
}

func parseStatus(arg string) (model.AttendanceStatus, error) {
	switch arg {
	case "present", "p":
		return model.StatusPresent, nil
	case "absent", "a", "bunk":
		return model.StatusAbsent, nil
	}
	return "", fmt.Errorf("unknown status %q (want present or absent)", arg)
}

func runMark(_ *cobra.Command, args []string) error {
	status, err := parseStatus(args[1])
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	sub, err := s.FindSubject(args[0])
	if err != nil {
		return err
	}

	day, err := asOfDate()
	if err != nil {
		return err
	}
	dateStr := engine.FormatLocalDate(day)

	cfg := loadConfig()
	if v := engine.IsEventDay(day, sub, cfg.HolidaySet()); !v.OK && !flagQuiet {
		fmt.Printf("  note: %s is not a scheduled class day for %s (%s)\n",
			cli.FormatDate(dateStr), sub.Name, v.Reason)
	}

	if err := s.MarkAttendance(sub.ID, dateStr, status); err != nil {
		return err
	}

	// Reload for updated counts and the fresh outlook.
	sub, err = s.FindSubject(sub.ID)
	if err != nil {
		return err
	}
	res := engine.Calculate(sub, projectionOptions(cfg), day, cfg.HolidaySet())

	fmt.Printf("  %s marked %s on %s: %s (%s), %s\n",
		sub.Name, status, cli.FormatDate(dateStr),
		cli.FormatPercent(res.Percentage), cli.RenderStatus(res.Status),
		cli.FormatAdvice(res))
	return nil
}

func runUnmark(_ *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	sub, err := s.FindSubject(args[0])
	if err != nil {
		return err
	}

	day, err := asOfDate()
	if err != nil {
		return err
	}
	dateStr := engine.FormatLocalDate(day)

	if _, ok := sub.RecordFor(dateStr); !ok {
		return fmt.Errorf("no attendance record for %s on %s", sub.Name, dateStr)
	}
	if err := s.UnmarkAttendance(sub.ID, dateStr); err != nil {
		return err
	}

	fmt.Printf("  Removed %s record for %s\n", cli.FormatDate(dateStr), sub.Name)
	return nil
}
