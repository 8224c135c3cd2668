// Package notify provides the long-running class reminder service.
//
// The projection core is stateless, so duplicate suppression lives here: the
// service owns a set of already-notified (subject, date) keys and prunes it
// when the local day rolls over.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/Harrypotter-hub/SmartBunk/internal/engine"
	"github.com/Harrypotter-hub/SmartBunk/internal/model"
)

// Clock supplies the current time. Injected so polling behavior is testable
// without waiting for wall-clock days to roll over.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// SubjectSource supplies the current subject list on each poll.
type SubjectSource interface {
	ListSubjects() ([]model.Subject, error)
}

// Config controls the service runtime behavior.
type Config struct {
	Interval     time.Duration
	Addr         string
	Lead         time.Duration // how long before class start a reminder fires
	EventsBuffer int
}

// Event is emitted when a class reminder fires.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	SubjectID string    `json:"subject_id"`
	Subject   string    `json:"subject"`
	Date      string    `json:"date"`
	StartTime string    `json:"start_time,omitempty"`
}

// Snapshot is the compact per-day state served in status payloads.
type Snapshot struct {
	At           time.Time `json:"at"`
	Date         string    `json:"date"`
	ClassesToday int       `json:"classes_today"`
	Reminded     int       `json:"reminded"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	Today           Snapshot  `json:"today"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service polls the subject list and publishes deduplicated class reminders.
type Service struct {
	cfg      Config
	clock    Clock
	source   SubjectSource
	holidays engine.HolidaySet

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	snapshot    Snapshot
	notified    map[string]struct{} // subject-id + "|" + date
	notifiedDay string
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a reminder service with the provided config.
func New(cfg Config, source SubjectSource, holidays engine.HolidaySet, clock Clock) *Service {
	if clock == nil {
		clock = SystemClock()
	}
	if cfg.Interval < 2*time.Second {
		cfg.Interval = time.Minute
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8791"
	}
	if cfg.Lead <= 0 {
		cfg.Lead = 30 * time.Minute
	}

	return &Service{
		cfg:       cfg,
		clock:     clock,
		source:    source,
		holidays:  holidays,
		startedAt: clock.Now(),
		notified:  make(map[string]struct{}),
		subs:      make(map[int]chan Event),
	}
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Seed an initial poll so status is useful immediately.
	s.PollOnce()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.PollOnce()
		case err := <-errCh:
			return fmt.Errorf("notify http server: %w", err)
		}
	}
}

// PollOnce runs a single poll cycle: resolve today's classes and publish a
// reminder for each not-yet-notified (subject, date).
func (s *Service) PollOnce() {
	now := s.clock.Now()
	day := engine.FormatLocalDate(now)

	subjects, err := s.source.ListSubjects()
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		log.Printf("smartbunk notify poll error: %v", err)
		return
	}

	due := engine.SubjectsOnDate(now, subjects, s.holidays)

	var pending []Event
	s.mu.Lock()
	if s.notifiedDay != day {
		// Local day rolled over; yesterday's suppressions no longer apply.
		s.notified = make(map[string]struct{})
		s.notifiedDay = day
	}

	for _, sub := range due {
		if !s.withinLead(sub, now) {
			continue
		}
		key := sub.ID + "|" + day
		if _, seen := s.notified[key]; seen {
			continue
		}
		s.notified[key] = struct{}{}
		s.nextEventID++
		pending = append(pending, Event{
			ID:        s.nextEventID,
			Type:      "class_reminder",
			Timestamp: now,
			SubjectID: sub.ID,
			Subject:   sub.Name,
			Date:      day,
			StartTime: sub.StartTime,
		})
	}

	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""
	s.snapshot = Snapshot{
		At:           now,
		Date:         day,
		ClassesToday: len(due),
		Reminded:     len(s.notified),
	}
	s.mu.Unlock()

	for _, ev := range pending {
		s.publishEvent(ev)
	}
}

// withinLead reports whether now is inside the reminder window for the
// subject. Subjects without a start time are reminded any time during the
// class day; otherwise the reminder fires from Lead before the start until
// the start itself has passed.
func (s *Service) withinLead(sub model.Subject, now time.Time) bool {
	if sub.StartTime == "" {
		return true
	}
	clock, err := time.Parse("15:04", sub.StartTime)
	if err != nil {
		return true
	}
	start := time.Date(now.Year(), now.Month(), now.Day(),
		clock.Hour(), clock.Minute(), 0, 0, now.Location())
	return !now.Before(start.Add(-s.cfg.Lead))
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) statusSnapshot() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		Today:           s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.statusSnapshot())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
