package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Harrypotter-hub/SmartBunk/internal/config"
	"github.com/Harrypotter-hub/SmartBunk/internal/notify"
	"github.com/Harrypotter-hub/SmartBunk/internal/store"
)

type notifyRuntimeState struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	DBPath    string    `json:"db_path"`
}

var (
	flagNotifyAddr         string
	flagNotifyInterval     time.Duration
	flagNotifyLead         time.Duration
	flagNotifyDetach       bool
	flagNotifyPIDFile      string
	flagNotifyLogFile      string
	flagNotifyEventsBuffer int
	flagNotifyChild        bool
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Run the class reminder daemon with HTTP/SSE endpoints",
	RunE:  runNotify,
}

var notifyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show reminder daemon process and API status",
	RunE:  runNotifyStatus,
}

var notifyStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running reminder daemon",
	RunE:  runNotifyStop,
}

func init() {
	runDir := filepath.Dir(store.DefaultPath())
	defaultPID := filepath.Join(runDir, "smartbunkd.pid")
	defaultLog := filepath.Join(runDir, "smartbunkd.log")

	notifyCmd.PersistentFlags().StringVar(&flagNotifyAddr, "addr", "127.0.0.1:8791", "HTTP listen address")
	notifyCmd.PersistentFlags().DurationVar(&flagNotifyInterval, "interval", time.Minute, "Polling interval")
	notifyCmd.PersistentFlags().DurationVar(&flagNotifyLead, "lead", 30*time.Minute, "Reminder lead time before class start")
	notifyCmd.PersistentFlags().StringVar(&flagNotifyPIDFile, "pid-file", defaultPID, "PID file path")
	notifyCmd.PersistentFlags().StringVar(&flagNotifyLogFile, "log-file", defaultLog, "Log file path for detached mode")
	notifyCmd.PersistentFlags().IntVar(&flagNotifyEventsBuffer, "events-buffer", 200, "Max in-memory events retained")

	notifyCmd.Flags().BoolVar(&flagNotifyDetach, "detach", false, "Run the daemon as a background process")
	notifyCmd.Flags().BoolVar(&flagNotifyChild, "child", false, "Internal: mark detached child process")
	_ = notifyCmd.Flags().MarkHidden("child")

	notifyCmd.AddCommand(notifyStatusCmd)
	notifyCmd.AddCommand(notifyStopCmd)
	rootCmd.AddCommand(notifyCmd)
}

func runNotify(cmd *cobra.Command, _ []string) error {
	if flagNotifyDetach && flagNotifyChild {
		return errors.New("invalid daemon launch mode")
	}

	// Config file values apply unless the flag was given explicitly.
	appCfg := loadConfig()
	if !cmd.Flags().Changed("addr") && appCfg.Notifications.Addr != "" {
		flagNotifyAddr = appCfg.Notifications.Addr
	}
	if !cmd.Flags().Changed("interval") && appCfg.Notifications.IntervalSec > 0 {
		flagNotifyInterval = time.Duration(appCfg.Notifications.IntervalSec) * time.Second
	}
	if !cmd.Flags().Changed("lead") && appCfg.Notifications.LeadMinutes > 0 {
		flagNotifyLead = time.Duration(appCfg.Notifications.LeadMinutes) * time.Minute
	}

	// Without a config file, fall back to the settings saved in the database.
	if !config.Exists() && !cmd.Flags().Changed("lead") {
		if s, err := openStore(); err == nil {
			if st, err := s.LoadSettings(); err == nil && st.ReminderLeadMinutes > 0 {
				flagNotifyLead = time.Duration(st.ReminderLeadMinutes) * time.Minute
			}
			_ = s.Close()
		}
	}

	if flagNotifyDetach {
		return startNotifyDetached()
	}

	return runNotifyForeground()
}

func startNotifyDetached() error {
	if err := ensureNotifyNotRunning(flagNotifyPIDFile); err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	args := filterDetachArg(os.Args[1:])
	args = append(args, "--child")

	if err := os.MkdirAll(filepath.Dir(flagNotifyPIDFile), 0o750); err != nil {
		return fmt.Errorf("create daemon directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(flagNotifyLogFile), 0o750); err != nil {
		return fmt.Errorf("create daemon log directory: %w", err)
	}

	logf, err := os.OpenFile(flagNotifyLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open daemon log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	cmd := exec.Command(exe, args...)
	cmd.Stdout = logf
	cmd.Stderr = logf
	cmd.Stdin = nil
	cmd.Env = os.Environ()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start detached daemon: %w", err)
	}

	fmt.Printf("  Started reminder daemon (pid %d)\n", cmd.Process.Pid)
	fmt.Printf("  PID file: %s\n", flagNotifyPIDFile)
	fmt.Printf("  API: http://%s/v1/status\n", flagNotifyAddr)
	fmt.Printf("  Log: %s\n", flagNotifyLogFile)
	return nil
}

func runNotifyForeground() error {
	if err := ensureNotifyNotRunning(flagNotifyPIDFile); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(flagNotifyPIDFile), 0o750); err != nil {
		return fmt.Errorf("create daemon directory: %w", err)
	}

	pid := os.Getpid()
	if err := writePID(flagNotifyPIDFile, pid); err != nil {
		return err
	}
	defer func() { _ = os.Remove(flagNotifyPIDFile) }()

	state := notifyRuntimeState{
		PID:       pid,
		Addr:      flagNotifyAddr,
		StartedAt: time.Now(),
		DBPath:    flagDBPath,
	}
	_ = writeState(statePath(flagNotifyPIDFile), state)
	defer func() { _ = os.Remove(statePath(flagNotifyPIDFile)) }()

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	cfg := notify.Config{
		Interval:     flagNotifyInterval,
		Addr:         flagNotifyAddr,
		Lead:         flagNotifyLead,
		EventsBuffer: flagNotifyEventsBuffer,
	}
	svc := notify.New(cfg, s, loadConfig().HolidaySet(), notify.SystemClock())

	fmt.Printf("  smartbunk reminder daemon listening on http://%s\n", flagNotifyAddr)
	fmt.Printf("  Polling every %s from %s\n", flagNotifyInterval, flagDBPath)
	fmt.Printf("  Stop with: smartbunk notify stop --pid-file %s\n", flagNotifyPIDFile)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runNotifyStatus(_ *cobra.Command, _ []string) error {
	pid, err := readPID(flagNotifyPIDFile)
	if err != nil {
		fmt.Printf("  Daemon: not running (pid file not found)\n")
		return nil
	}

	if !processAlive(pid) {
		fmt.Printf("  Daemon: stale pid file (pid %d not alive)\n", pid)
		return nil
	}

	addr := flagNotifyAddr
	if st, err := readState(statePath(flagNotifyPIDFile)); err == nil && st.Addr != "" {
		addr = st.Addr
	}

	fmt.Printf("  Daemon PID: %d\n", pid)
	fmt.Printf("  Address: http://%s\n", addr)

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/v1/status")
	if err != nil {
		fmt.Printf("  API status: unreachable (%v)\n", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  API status: HTTP %d\n", resp.StatusCode)
		return nil
	}

	var st notify.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		fmt.Printf("  API status: malformed response (%v)\n", err)
		return nil
	}

	if st.LastPollAt.IsZero() {
		fmt.Printf("  Last poll: pending\n")
	} else {
		fmt.Printf("  Last poll: %s\n", st.LastPollAt.Local().Format(time.RFC3339))
	}
	fmt.Printf("  Poll count: %d\n", st.PollCount)
	fmt.Printf("  Classes today: %d\n", st.Today.ClassesToday)
	fmt.Printf("  Reminders sent today: %d\n", st.Today.Reminded)
	if st.LastError != "" {
		fmt.Printf("  Last error: %s\n", st.LastError)
	}
	return nil
}

func runNotifyStop(_ *cobra.Command, _ []string) error {
	pid, err := readPID(flagNotifyPIDFile)
	if err != nil {
		return errors.New("daemon is not running")
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find daemon process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal daemon process: %w", err)
	}

	deadline := time.Now().Add(8 * time.Second)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			_ = os.Remove(flagNotifyPIDFile)
			_ = os.Remove(statePath(flagNotifyPIDFile))
			fmt.Printf("  Stopped daemon (pid %d)\n", pid)
			return nil
		}
		time.Sleep(150 * time.Millisecond)
	}

	return fmt.Errorf("daemon (pid %d) did not exit in time", pid)
}

func filterDetachArg(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--detach" || strings.HasPrefix(a, "--detach=") {
			continue
		}
		out = append(out, a)
	}
	return out
}

func ensureNotifyNotRunning(pidFile string) error {
	pid, err := readPID(pidFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if processAlive(pid) {
		return fmt.Errorf("daemon already running (pid %d)", pid)
	}
	_ = os.Remove(pidFile)
	_ = os.Remove(statePath(pidFile))
	return nil
}

func writePID(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0o600)
}

func readPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pidStr := strings.TrimSpace(string(data))
	pid, err := strconv.Atoi(pidStr)
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid in %s", path)
	}
	return pid, nil
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

func statePath(pidFile string) string {
	return pidFile + ".json"
}

func writeState(path string, st notifyRuntimeState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func readState(path string) (notifyRuntimeState, error) {
	var st notifyRuntimeState
	data, err := os.ReadFile(path)
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, err
	}
	return st, nil
}
