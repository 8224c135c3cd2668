// Package store provides SQLite-backed persistence for subjects, attendance
// history, and settings.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // register sqlite driver

	"github.com/Harrypotter-hub/SmartBunk/internal/engine"
	"github.com/Harrypotter-hub/SmartBunk/internal/model"
)

// ErrNotFound is returned when a subject lookup matches nothing.
var ErrNotFound = errors.New("subject not found")

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the XDG-compliant database path.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "smartbunk", "smartbunk.db")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "smartbunk", "smartbunk.db")
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSubject inserts or replaces a subject row. History rows are managed by
// MarkAttendance/UnmarkAttendance, not here.
func (s *Store) SaveSubject(sub model.Subject) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO subjects
		(id, name, schedule, start_date, end_date, start_time,
		 initial_attended, initial_total, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.Name, encodeSchedule(sub.Schedule), sub.StartDate, sub.EndDate,
		sub.StartTime, sub.InitialAttended, sub.InitialTotal,
		sub.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// ListSubjects returns all subjects with history loaded, ordered by creation.
func (s *Store) ListSubjects() ([]model.Subject, error) {
	rows, err := s.db.Query(`SELECT
		id, name, schedule, start_date, end_date, start_time,
		initial_attended, initial_total, created_at
		FROM subjects ORDER BY created_at, name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var subjects []model.Subject
	for rows.Next() {
		sub, err := scanSubject(rows)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Batch-load history for all subjects.
	recRows, err := s.db.Query(`SELECT id, subject_id, date, status, marked_at
		FROM attendance ORDER BY marked_at`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = recRows.Close() }()

	idx := make(map[string]int, len(subjects))
	for i, sub := range subjects {
		idx[sub.ID] = i
	}

	for recRows.Next() {
		var subjectID string
		var rec model.AttendanceRecord
		var markedAt string
		if err := recRows.Scan(&rec.ID, &subjectID, &rec.Date, &rec.Status, &markedAt); err != nil {
			return nil, err
		}
		rec.MarkedAt, _ = time.Parse(time.RFC3339, markedAt)
		if i, ok := idx[subjectID]; ok {
			subjects[i].History = append(subjects[i].History, rec)
		}
	}
	if err := recRows.Err(); err != nil {
		return nil, err
	}

	for i := range subjects {
		subjects[i].RecomputeCounts()
	}
	return subjects, nil
}

// FindSubject resolves an identifier that may be a subject ID or a
// case-insensitive name prefix. Ambiguous prefixes are an error.
func (s *Store) FindSubject(ident string) (model.Subject, error) {
	subjects, err := s.ListSubjects()
	if err != nil {
		return model.Subject{}, err
	}

	var matches []model.Subject
	needle := strings.ToLower(ident)
	for _, sub := range subjects {
		if sub.ID == ident {
			return sub, nil
		}
		if strings.HasPrefix(strings.ToLower(sub.Name), needle) {
			matches = append(matches, sub)
		}
	}

	switch len(matches) {
	case 0:
		return model.Subject{}, fmt.Errorf("%w: %q", ErrNotFound, ident)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		return model.Subject{}, fmt.Errorf("%q is ambiguous: %s", ident, strings.Join(names, ", "))
	}
}

// DeleteSubject removes a subject and, via the FK cascade, its history.
func (s *Store) DeleteSubject(id string) error {
	res, err := s.db.Exec("DELETE FROM subjects WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return nil
}

// MarkAttendance records attendance for (subject, date), replacing any
// earlier record for the same date.
func (s *Store) MarkAttendance(subjectID, date string, status model.AttendanceStatus) error {
	if _, err := engine.ParseDate(date); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Keep the record ID stable across re-marks.
	var id string
	err = tx.QueryRow("SELECT id FROM attendance WHERE subject_id = ? AND date = ?",
		subjectID, date).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id = uuid.NewString()
	case err != nil:
		return err
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO attendance
		(id, subject_id, date, status, marked_at) VALUES (?, ?, ?, ?, ?)`,
		id, subjectID, date, status, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// UnmarkAttendance removes the record for (subject, date), if any.
func (s *Store) UnmarkAttendance(subjectID, date string) error {
	_, err := s.db.Exec("DELETE FROM attendance WHERE subject_id = ? AND date = ?",
		subjectID, date)
	return err
}

// LoadSettings returns the stored settings, or defaults if none were saved.
func (s *Store) LoadSettings() (model.AppSettings, error) {
	settings := model.AppSettings{
		TargetPercentage:     engine.DefaultTarget,
		ChaosFactor:          engine.DefaultChaosFactor,
		NotificationsEnabled: true,
		ReminderLeadMinutes:  30,
	}

	var enabled int
	err := s.db.QueryRow(`SELECT target_percentage, chaos_factor,
		notifications_enabled, reminder_lead_minutes FROM settings WHERE id = 1`).
		Scan(&settings.TargetPercentage, &settings.ChaosFactor, &enabled,
			&settings.ReminderLeadMinutes)
	if errors.Is(err, sql.ErrNoRows) {
		return settings, nil
	}
	if err != nil {
		return settings, err
	}
	settings.NotificationsEnabled = enabled != 0
	return settings, nil
}

// SaveSettings stores the settings row.
func (s *Store) SaveSettings(settings model.AppSettings) error {
	enabled := 0
	if settings.NotificationsEnabled {
		enabled = 1
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO settings
		(id, target_percentage, chaos_factor, notifications_enabled, reminder_lead_minutes)
		VALUES (1, ?, ?, ?, ?)`,
		settings.TargetPercentage, settings.ChaosFactor, enabled, settings.ReminderLeadMinutes,
	)
	return err
}

// SubjectCount returns the number of stored subjects.
func (s *Store) SubjectCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM subjects").Scan(&count)
	return count, err
}

func scanSubject(rows *sql.Rows) (model.Subject, error) {
	var sub model.Subject
	var schedule, createdAt string
	var startTime sql.NullString

	err := rows.Scan(&sub.ID, &sub.Name, &schedule, &sub.StartDate, &sub.EndDate,
		&startTime, &sub.InitialAttended, &sub.InitialTotal, &createdAt)
	if err != nil {
		return sub, err
	}

	sub.Schedule = decodeSchedule(schedule)
	if startTime.Valid {
		sub.StartTime = startTime.String
	}
	sub.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return sub, nil
}

// encodeSchedule renders weekdays as a comma-separated list of 0-6 values
// (0 = Sunday), the persistence contract for the schedule field.
func encodeSchedule(days []time.Weekday) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(int(d))
	}
	return strings.Join(parts, ",")
}

func decodeSchedule(s string) []time.Weekday {
	if s == "" {
		return nil
	}
	var days []time.Weekday
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 || n > 6 {
			continue
		}
		days = append(days, time.Weekday(n))
	}
	return days
}
