package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/Harrypotter-hub/SmartBunk/internal/cli"
	"github.com/Harrypotter-hub/SmartBunk/internal/engine"
	"github.com/Harrypotter-hub/SmartBunk/internal/model"
)

var subjectCmd = &cobra.Command{
	Use:   "subject",
	Short: "Manage tracked subjects",
}

var subjectAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a subject",
	Long:  "Add a subject to track. With no flags an interactive form collects the details.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSubjectAdd,
}

var subjectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tracked subjects",
	RunE:    runSubjectList,
}

var subjectRemoveCmd = &cobra.Command{
	Use:     "remove <subject>",
	Aliases: []string{"rm"},
	Short:   "Remove a subject and its attendance history",
	Args:    cobra.ExactArgs(1),
	RunE:    runSubjectRemove,
}

var (
	flagSchedule  string
	flagStartDate string
	flagEndDate   string
	flagStartTime string
	flagAttended  int
	flagHeld      int
	flagYes       bool
)

func init() {
	subjectAddCmd.Flags().StringVar(&flagSchedule, "days", "", "Class days, comma separated (e.g. mon,wed,fri)")
	subjectAddCmd.Flags().StringVar(&flagStartDate, "from", "", "Term start date (YYYY-MM-DD)")
	subjectAddCmd.Flags().StringVar(&flagEndDate, "to", "", "Term end date (YYYY-MM-DD)")
	subjectAddCmd.Flags().StringVar(&flagStartTime, "at", "", "Class start time (HH:mm), used for reminders")
	subjectAddCmd.Flags().IntVar(&flagAttended, "attended", 0, "Classes already attended before tracking began")
	subjectAddCmd.Flags().IntVar(&flagHeld, "held", 0, "Classes already held before tracking began")
	subjectRemoveCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Skip the confirmation prompt")

	subjectCmd.AddCommand(subjectAddCmd)
	subjectCmd.AddCommand(subjectListCmd)
	subjectCmd.AddCommand(subjectRemoveCmd)
	rootCmd.AddCommand(subjectCmd)
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday,
	"wed": time.Wednesday, "thu": time.Thursday, "fri": time.Friday,
	"sat": time.Saturday,
}

// parseSchedule turns "mon,wed,fri" into weekdays, ignoring case and
// accepting full day names.
func parseSchedule(s string) ([]time.Weekday, error) {
	var days []time.Weekday
	seen := map[time.Weekday]bool{}
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if len(part) > 3 {
			part = part[:3]
		}
		wd, ok := weekdayNames[part]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", part)
		}
		if !seen[wd] {
			seen[wd] = true
			days = append(days, wd)
		}
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("schedule is empty")
	}
	return days, nil
}

func validDate(s string) error {
	_, err := engine.ParseDate(s)
	return err
}

func validStartTime(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse("15:04", s); err != nil {
		return fmt.Errorf("want HH:mm, e.g. 09:30")
	}
	return nil
}

// subjectAddForm collects subject details interactively. Field validation
// runs inside the form so the user can fix mistakes in place.
func subjectAddForm(name, schedule, startDate, endDate, startTime, attended, held *string) error {
	dayOpts := []huh.Option[string]{
		huh.NewOption("Monday", "mon"),
		huh.NewOption("Tuesday", "tue"),
		huh.NewOption("Wednesday", "wed"),
		huh.NewOption("Thursday", "thu"),
		huh.NewOption("Friday", "fri"),
		huh.NewOption("Saturday", "sat"),
		huh.NewOption("Sunday", "sun"),
	}
	var picked []string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Subject name").
				Value(name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewMultiSelect[string]().
				Title("Class days").
				Options(dayOpts...).
				Value(&picked).
				Validate(func(v []string) error {
					if len(v) == 0 {
						return fmt.Errorf("pick at least one day")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Term start date").
				Placeholder("YYYY-MM-DD").
				Value(startDate).
				Validate(validDate),
			huh.NewInput().
				Title("Term end date").
				Placeholder("YYYY-MM-DD").
				Value(endDate).
				Validate(validDate),
			huh.NewInput().
				Title("Class start time (optional)").
				Placeholder("HH:mm").
				Value(startTime).
				Validate(validStartTime),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Classes already attended").
				Value(attended).
				Validate(validCount),
			huh.NewInput().
				Title("Classes already held").
				Value(held).
				Validate(validCount),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	*schedule = strings.Join(picked, ",")
	return nil
}

func validCount(s string) error {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fmt.Errorf("want a non-negative number")
	}
	return nil
}

func runSubjectAdd(_ *cobra.Command, args []string) error {
	var name string
	if len(args) > 0 {
		name = args[0]
	}

	schedule := flagSchedule
	startDate := flagStartDate
	endDate := flagEndDate
	startTime := flagStartTime
	attendedStr := strconv.Itoa(flagAttended)
	heldStr := strconv.Itoa(flagHeld)

	// Flags cover everything in scripts; anything missing falls back to
	// the interactive form.
	if name == "" || schedule == "" || startDate == "" || endDate == "" {
		if err := subjectAddForm(&name, &schedule, &startDate, &endDate, &startTime, &attendedStr, &heldStr); err != nil {
			return err
		}
	}

	days, err := parseSchedule(schedule)
	if err != nil {
		return err
	}
	if err := validDate(startDate); err != nil {
		return fmt.Errorf("start date: %w", err)
	}
	if err := validDate(endDate); err != nil {
		return fmt.Errorf("end date: %w", err)
	}
	if startDate > endDate {
		return fmt.Errorf("term start %s is after end %s", startDate, endDate)
	}
	if err := validStartTime(startTime); err != nil {
		return fmt.Errorf("start time: %w", err)
	}
	attended, _ := strconv.Atoi(attendedStr)
	held, _ := strconv.Atoi(heldStr)
	if attended > held {
		return fmt.Errorf("attended (%d) exceeds classes held (%d)", attended, held)
	}

	sub := model.NewSubject(name, days, startDate, endDate)
	sub.StartTime = startTime
	sub.InitialAttended = attended
	sub.InitialTotal = held
	sub.RecomputeCounts()

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.SaveSubject(sub); err != nil {
		return err
	}

	fmt.Printf("  Added %s (%s, %s to %s)\n",
		sub.Name, cli.FormatSchedule(sub.Schedule),
		cli.FormatDate(sub.StartDate), cli.FormatDate(sub.EndDate))
	return nil
}

func runSubjectList(_ *cobra.Command, _ []string) error {
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
		fmt.Println("  No subjects yet. Add one with `smartbunk subject add`.")
		return nil
	}

	t := cli.Table{
		Headers: []string{"Subject", "Schedule", "Term", "Marked", "ID"},
	}
	for _, sub := range subjects {
		t.Rows = append(t.Rows, []string{
			sub.Name,
			cli.FormatSchedule(sub.Schedule),
			fmt.Sprintf("%s – %s", cli.FormatDate(sub.StartDate), cli.FormatDate(sub.EndDate)),
			cli.FormatFraction(sub.Attended, sub.Total),
			sub.ID[:8],
		})
	}
	fmt.Println(cli.RenderTable(t))
	return nil
}

func runSubjectRemove(_ *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	sub, err := s.FindSubject(args[0])
	if err != nil {
		return err
	}

	if !flagYes {
		var confirm bool
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Remove %s and its %d attendance records?", sub.Name, len(sub.History))).
			Value(&confirm).
			Run()
		if err != nil {
			return err
		}
		if !confirm {
			fmt.Println("  Cancelled.")
			return nil
		}
	}

	if err := s.DeleteSubject(sub.ID); err != nil {
		return err
	}
	fmt.Printf("  Removed %s\n", sub.Name)
	return nil
}
