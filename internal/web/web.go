package web

import (
	"context"
	"crypto/subtle"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"dayflow/internal/config"
	"dayflow/internal/format"
	"dayflow/internal/ics"
	appLog "dayflow/internal/log"
	"dayflow/internal/model"
	"dayflow/internal/refresh"
	"dayflow/internal/schedule"
	"dayflow/internal/timeline"
	"dayflow/internal/view"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	agendaCacheTTL = 30 * time.Second
	maxAgendaDays  = 31
)

//go:embed templates/*.html
var templatesFS embed.FS

// StateSource supplies the most recent cycle state. *refresh.Refresher
// implements it.
type StateSource interface {
	State() timeline.CycleState
}

// Server serves the dashboard page and its JSON/ICS APIs.
type Server struct {
	cfg    *config.Config
	sched  *schedule.Schedule
	engine *timeline.Engine
	states StateSource
	format *format.Formatter
	loc    *time.Location
	tmpl   *template.Template
	mux    *http.ServeMux

	// /api/agenda responses keyed by day count.
	agendaMu    sync.RWMutex
	agendaCache map[int]*agendaCache
}

// NewServer constructs a new Server.
func NewServer(cfg *config.Config, sched *schedule.Schedule, engine *timeline.Engine, states StateSource) (*Server, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("web: timezone %q: %w", cfg.Timezone, err)
	}
	tmpl, err := template.New("dashboard.html").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("web: parse templates: %w", err)
	}

	s := &Server{
		cfg:         cfg,
		sched:       sched,
		engine:      engine,
		states:      states,
		format:      format.New(cfg.Locale),
		loc:         loc,
		tmpl:        tmpl,
		mux:         http.NewServeMux(),
		agendaCache: make(map[int]*agendaCache),
	}
	s.registerRoutes()
	return s, nil
}

var funcMap = template.FuncMap{
	"pct": func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Empty credentials disable auth.
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
			w.Header().Set("WWW-Authenticate", `Basic realm="Dayflow", charset="UTF-8"`)
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

// Serve listens on cfg.Listen until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web: shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	appLog.Info("HTTP server stopped")
	return nil
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/state", s.handleState)
	s.mux.HandleFunc("/api/schedule", s.handleSchedule)
	s.mux.HandleFunc("/api/agenda", s.handleAgenda)
	s.mux.HandleFunc("/schedule.ics", s.handleICS)
	s.mux.HandleFunc("/preview.png", s.handlePreview)
	s.mux.HandleFunc("/", s.handleDashboard)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// pageData is the template input for the dashboard.
type pageData struct {
	view.Dashboard
	RefreshSeconds int
}

// handleDashboard renders the HTML dashboard for the latest tick. The root
// element carries data-ready="true" so capture can wait for it.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := pageData{
		Dashboard:      view.Build(s.sched, s.states.State(), s.format),
		RefreshSeconds: int(refresh.Interval(s.cfg.Refresh).Seconds()),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := s.tmpl.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		appLog.Error("dashboard render failed", err)
	}
}

// StateResponse is the JSON shape of /api/state and of `dayflow state`.
type StateResponse struct {
	Now          time.Time                `json:"now"`
	CycleStart   time.Time                `json:"cycle_start"`
	RelativeNow  int                      `json:"relative_now"`
	TotalMinutes int                      `json:"total_minutes"`
	Progress     float64                  `json:"progress"`
	Active       timeline.Block           `json:"active"`
	Next         timeline.Block           `json:"next"`
	Upcoming     []timeline.Block         `json:"upcoming"`
	Totals       []timeline.CategoryTotal `json:"totals"`
	Timeline     []timeline.BlockState    `json:"timeline"`
}

// NewStateResponse converts a cycle state for JSON output.
func NewStateResponse(st timeline.CycleState) StateResponse {
	upcoming := st.Upcoming
	if upcoming == nil {
		upcoming = []timeline.Block{}
	}
	return StateResponse{
		Now:          st.Now,
		CycleStart:   st.CycleStart,
		RelativeNow:  st.RelativeNow,
		TotalMinutes: st.TotalMinutes,
		Progress:     st.Progress,
		Active:       st.Active,
		Next:         st.Next,
		Upcoming:     upcoming,
		Totals:       st.Totals.Ordered(),
		Timeline:     st.Timeline,
	}
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, NewStateResponse(s.states.State()))
}

// scheduleResponse is the JSON response shape for /api/schedule.
type scheduleResponse struct {
	Title        string           `json:"title"`
	Subtitle     string           `json:"subtitle"`
	TotalMinutes int              `json:"total_minutes"`
	DayStart     schedule.Clock   `json:"day_start"`
	Entries      []timeline.Block `json:"entries"`
	Categories   []categoryDTO    `json:"categories"`
}

type categoryDTO struct {
	Key     schedule.Category `json:"key"`
	Minutes int               `json:"minutes"`
	schedule.Meta
}

func (s *Server) handleSchedule(w http.ResponseWriter, _ *http.Request) {
	resp := scheduleResponse{
		Title:        s.sched.Title,
		Subtitle:     s.sched.Subtitle,
		TotalMinutes: s.engine.TotalMinutes(),
		DayStart:     s.engine.DayStart(),
		Entries:      s.engine.Blocks(),
	}
	for _, ct := range s.engine.Totals().Ordered() {
		resp.Categories = append(resp.Categories, categoryDTO{
			Key:     ct.Category,
			Minutes: ct.Minutes,
			Meta:    s.sched.Meta(ct.Category),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// agendaResponse is the JSON response shape for /api/agenda.
type agendaResponse struct {
	Occurrences     []model.Occurrence `json:"occurrences"`
	TruncatedUIDs   []string           `json:"truncated_uids,omitempty"`
	RangeStart      time.Time          `json:"range_start"`
	RangeEnd        time.Time          `json:"range_end"`
	DisplayTimeZone string             `json:"display_timezone"`
}

// agendaCache holds a cached /api/agenda response and its timestamp.
type agendaCache struct {
	resp      agendaResponse
	updatedAt time.Time
}

// handleAgenda returns dated occurrences of the schedule from the start of
// today for the requested number of days.
//
// GET /api/agenda?days=7
func (s *Server) handleAgenda(w http.ResponseWriter, r *http.Request) {
	days := parseIntDefault(r.URL.Query().Get("days"), s.cfg.AgendaDays)
	if days <= 0 {
		days = s.cfg.AgendaDays
	}
	if days > maxAgendaDays {
		days = maxAgendaDays
	}

	now := s.states.State().Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.In(s.loc)

	s.agendaMu.RLock()
	ac := s.agendaCache[days]
	s.agendaMu.RUnlock()
	if ac != nil && now.Sub(ac.updatedAt) >= 0 && now.Sub(ac.updatedAt) < agendaCacheTTL &&
		sameDay(now, ac.updatedAt) {
		writeJSON(w, http.StatusOK, ac.resp)
		return
	}

	rangeStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	rangeEnd := rangeStart.AddDate(0, 0, days)

	res, err := ics.ExpandOccurrences(s.sched, ics.ExpandConfig{
		DisplayLocation: s.loc,
		RangeStart:      rangeStart,
		RangeEnd:        rangeEnd,
	})
	if err != nil {
		appLog.Error("api agenda: expand failed", err, "days", days)
		writeError(w, http.StatusInternalServerError, "failed to expand schedule")
		return
	}

	resp := agendaResponse{
		Occurrences:     res.Occurrences,
		TruncatedUIDs:   res.TruncatedUIDs,
		RangeStart:      rangeStart,
		RangeEnd:        rangeEnd,
		DisplayTimeZone: s.loc.String(),
	}

	s.agendaMu.Lock()
	s.agendaCache[days] = &agendaCache{resp: resp, updatedAt: now}
	s.agendaMu.Unlock()

	appLog.Debug("api agenda", "days", days, "occurrences", len(resp.Occurrences))
	writeJSON(w, http.StatusOK, resp)
}

// handleICS serves the schedule as a subscribable iCalendar feed.
func (s *Server) handleICS(w http.ResponseWriter, _ *http.Request) {
	body, err := ics.Export(s.sched, s.states.State().CycleStart)
	if err != nil {
		appLog.Error("ics export failed", err)
		writeError(w, http.StatusInternalServerError, "failed to export schedule")
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="schedule.ics"`)
	_, _ = w.Write([]byte(body))
}

// handlePreview serves the last captured PNG of the dashboard.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	// http.ServeFile answers 404 for a missing capture.
	http.ServeFile(w, r, s.cfg.Capture.Output)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
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
