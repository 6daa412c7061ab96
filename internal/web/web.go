// Package web exposes the scheduling engine over HTTP. The engine itself
// is pure; this layer only assembles inputs from configuration and external
// feeds and shapes the results as JSON.
package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"plancal/internal/availability"
	"plancal/internal/capacity"
	"plancal/internal/config"
	"plancal/internal/duration"
	"plancal/internal/ics"
	"plancal/internal/layout"
	appLog "plancal/internal/log"
	"plancal/internal/model"
	"plancal/internal/occur"
	"plancal/internal/recur"
)

// Server provides HTTP APIs for availability, capacity, day layout and the
// expanded occurrence feed.
type Server struct {
	cfg      *config.Config
	cacheDir string
	mux      *http.ServeMux
	fetcher  *ics.Fetcher

	// In-memory cache for occurrence collection, so repeated UI polls do
	// not re-fetch and re-expand feeds. The refresh cron in cmd/plancal is
	// still the primary driver for keeping the feed cache warm.
	occMu    sync.RWMutex
	occCache *occurrenceCache
}

const occurrenceCacheTTL = 30 * time.Second

type occurrenceCache struct {
	key       string
	events    []model.CalendarEvent
	truncated []string
	updatedAt time.Time
}

// NewServer constructs a Server. cacheDir is where feed bodies are cached
// on disk.
func NewServer(cfg *config.Config, cacheDir string) *Server {
	s := &Server{
		cfg:      cfg,
		cacheDir: cacheDir,
		mux:      http.NewServeMux(),
		fetcher:  ics.NewFetcher(cacheDir),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler, wrapped with basic auth when
// configured.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// StartServer starts an HTTP server bound to cfg.Listen.
func StartServer(_ context.Context, cfg *config.Config, cacheDir string) error {
	s := NewServer(cfg, cacheDir)
	appLog.Info("starting HTTP server", "listen", "http://"+cfg.Listen)
	return http.ListenAndServe(cfg.Listen, s.Handler())
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Empty username or password counts as disabled.
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="plancal", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/availability", s.handleAvailability)
	s.mux.HandleFunc("/api/capacity", s.handleCapacity)
	s.mux.HandleFunc("/api/day", s.handleDay)
	s.mux.HandleFunc("/api/events", s.handleEvents)
	s.mux.HandleFunc("/api/duration", s.handleDuration)
	s.mux.HandleFunc("/api/export.ics", s.handleExport)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleAvailability returns weekly availability for the configured
// constraints.
func (s *Server) handleAvailability(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, availability.ComputeWeekly(s.cfg.Constraints))
}

// capacityResponse pairs the feasibility report with the rebalanced plan.
type capacityResponse struct {
	Report     capacity.Report `json:"report"`
	Rebalanced []model.Goal    `json:"rebalanced"`
}

// handleCapacity evaluates the configured goal plan against availability
// and returns the report plus the auto-rebalanced goal list.
func (s *Server) handleCapacity(w http.ResponseWriter, _ *http.Request) {
	weekly := availability.ComputeWeekly(s.cfg.Constraints)
	report := capacity.Evaluate(s.cfg.Goals, weekly)
	writeJSON(w, http.StatusOK, capacityResponse{
		Report:     report,
		Rebalanced: capacity.Rebalance(s.cfg.Goals, report.CapacityMinutes),
	})
}

// dayEventDTO is one laid-out event in the day view.
type dayEventDTO struct {
	Event model.CalendarEvent `json:"event"`
	Col   int                 `json:"col"`
	Cols  int                 `json:"cols"`
}

type dayResponse struct {
	Date   string        `json:"date"`
	Events []dayEventDTO `json:"events"`
}

// handleDay returns the events occurring on one calendar day, each with its
// display column assignment.
//
// GET /api/day?date=YYYY-MM-DD (default: today)
func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	loc := resolveLocationOrLocal(s.cfg.Timezone)

	day := time.Now().In(loc)
	if q := r.URL.Query().Get("date"); q != "" {
		parsed, ok := model.ParseDate(q, loc)
		if !ok {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	all, _ := s.collectOccurrences(r.Context(), dayStart.AddDate(0, 0, -1), dayEnd, loc)

	var onDay, timed []model.CalendarEvent
	for _, ev := range all {
		if !occur.OnDay(ev, dayStart, loc) {
			continue
		}
		onDay = append(onDay, ev)
		if !ev.IsAllDay {
			timed = append(timed, ev)
		}
	}
	// All-day events sit in their own banner row; only timed events
	// compete for columns.
	placements := layout.Day(timed, dayStart, loc)

	events := make([]dayEventDTO, 0, len(onDay))
	for _, ev := range onDay {
		p, ok := placements[ev.ID]
		if !ok {
			// All-day and unresolvable events carry no column.
			p = layout.Placement{Col: 0, Cols: 1}
		}
		events = append(events, dayEventDTO{Event: ev, Col: p.Col, Cols: p.Cols})
	}

	writeJSON(w, http.StatusOK, dayResponse{
		Date:   dayStart.Format("2006-01-02"),
		Events: events,
	})
}

type eventsResponse struct {
	Occurrences     []model.CalendarEvent `json:"occurrences"`
	TruncatedUIDs   []string              `json:"truncated_uids,omitempty"`
	RangeStart      time.Time             `json:"range_start"`
	RangeEnd        time.Time             `json:"range_end"`
	DisplayTimeZone string                `json:"display_timezone"`
}

// handleEvents returns expanded occurrences for planner events and
// configured feeds within a requested window.
//
// GET /api/events?days=7&backfill=1
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	days := parseIntDefault(q.Get("days"), s.cfg.HorizonDays)
	if days <= 0 {
		days = s.cfg.HorizonDays
	}
	backfill := parseIntDefault(q.Get("backfill"), 1)
	if backfill < 0 {
		backfill = 0
	}

	loc := resolveLocationOrLocal(s.cfg.Timezone)
	now := time.Now().In(loc)
	rangeStart := now.AddDate(0, 0, -backfill)
	rangeEnd := now.AddDate(0, 0, days)

	occurrences, truncated := s.collectOccurrences(r.Context(), rangeStart, rangeEnd, loc)

	writeJSON(w, http.StatusOK, eventsResponse{
		Occurrences:     occurrences,
		TruncatedUIDs:   truncated,
		RangeStart:      rangeStart,
		RangeEnd:        rangeEnd,
		DisplayTimeZone: loc.String(),
	})
}

// handleDuration computes the adaptive session duration for a task.
//
// POST /api/duration with a duration.Input JSON body.
func (s *Server) handleDuration(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var in duration.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	writeJSON(w, http.StatusOK, duration.Compute(in))
}

// handleExport serves the occurrence feed as an ICS calendar.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	loc := resolveLocationOrLocal(s.cfg.Timezone)
	now := time.Now().In(loc)

	occurrences, _ := s.collectOccurrences(r.Context(), now.AddDate(0, 0, -1), now.AddDate(0, 0, s.cfg.HorizonDays), loc)

	// Imported occurrences are not round-tripped back out; exporting them
	// would duplicate events in the user's own calendar.
	planner := make([]model.CalendarEvent, 0, len(occurrences))
	for _, ev := range occurrences {
		if ev.EventType != model.EventImported {
			planner = append(planner, ev)
		}
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="plancal.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(ics.Export(planner, loc))
}

// collectOccurrences gathers planner events (recurring ones expanded) and
// imported feed occurrences for the window. Results are cached briefly.
func (s *Server) collectOccurrences(ctx context.Context, rangeStart, rangeEnd time.Time, loc *time.Location) ([]model.CalendarEvent, []string) {
	key := rangeStart.Format("2006-01-02") + ".." + rangeEnd.Format("2006-01-02")

	s.occMu.RLock()
	oc := s.occCache
	s.occMu.RUnlock()
	if oc != nil && oc.key == key && time.Since(oc.updatedAt) < occurrenceCacheTTL {
		return oc.events, oc.truncated
	}

	events := make([]model.CalendarEvent, 0, len(s.cfg.Events))
	for _, ev := range s.cfg.Events {
		if len(ev.Recurrence) > 0 {
			events = append(events, recur.Expand(ev, rangeStart, rangeEnd, loc)...)
			continue
		}
		if start, end, ok := occur.Span(ev, loc); ok && start.Before(rangeEnd) && end.After(rangeStart) {
			events = append(events, ev)
		}
	}

	imported, truncated := s.importedOccurrences(ctx, rangeStart, rangeEnd, loc)
	events = append(events, imported...)

	s.occMu.Lock()
	s.occCache = &occurrenceCache{
		key:       key,
		events:    events,
		truncated: truncated,
		updatedAt: time.Now(),
	}
	s.occMu.Unlock()

	return events, truncated
}

func (s *Server) importedOccurrences(ctx context.Context, rangeStart, rangeEnd time.Time, loc *time.Location) ([]model.CalendarEvent, []string) {
	sources := feedSources(s.cfg)
	if len(sources) == 0 {
		return nil, nil
	}

	fetchResults, fetchErrs := s.fetcher.FetchAll(ctx, sources)
	if len(fetchErrs) > 0 {
		appLog.Error("one or more feed fetches failed", errorsAggregate(fetchErrs), "error_count", len(fetchErrs))
	}

	parsed := make([]ics.ParsedEvent, 0)
	for _, res := range fetchResults {
		events, err := ics.Parse(res.Source, res.Body)
		if err != nil {
			appLog.Error("feed parse failed for source", err, "id", res.Source.ID)
			continue
		}
		parsed = append(parsed, events...)
	}

	result, err := ics.Expand(parsed, ics.ExpandConfig{
		DisplayLocation: loc,
		RangeStart:      rangeStart,
		RangeEnd:        rangeEnd,
	})
	if err != nil {
		appLog.Error("feed expand failed", err)
		return nil, nil
	}
	return result.Occurrences, result.TruncatedUIDs
}

// feedSources builds fetchable sources from config, defaulting missing IDs.
func feedSources(cfg *config.Config) []ics.Source {
	sources := make([]ics.Source, 0, len(cfg.Feeds))
	for _, f := range cfg.Feeds {
		if f.URL == "" {
			continue
		}
		id := f.ID
		if id == "" {
			if f.Name != "" {
				id = f.Name
			} else {
				id = f.URL
			}
		}
		sources = append(sources, ics.Source{ID: id, URL: f.URL})
	}
	return sources
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func resolveLocationOrLocal(name string) *time.Location {
	if name == "" || name == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", name)
		return time.Local
	}
	return loc
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}

func errorsAggregate(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	var b strings.Builder
	for i, e := range errs {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(e.Error())
	}
	return errors.New(b.String())
}
