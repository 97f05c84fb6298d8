package web

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dayflow/internal/config"
	"dayflow/internal/schedule"
	"dayflow/internal/timeline"
)

type fixedState struct {
	st timeline.CycleState
}

func (f fixedState) State() timeline.CycleState { return f.st }

func newTestServer(t *testing.T, at time.Time, mutate func(*config.Config)) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Timezone = "UTC"
	cfg.Capture.Output = filepath.Join(t.TempDir(), "preview.png")
	if mutate != nil {
		mutate(cfg)
	}

	sched := schedule.Default()
	engine, err := timeline.New(sched.Entries)
	require.NoError(t, err)

	srv, err := NewServer(cfg, sched, engine, fixedState{st: engine.State(at)})
	require.NoError(t, err)
	return srv
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

var morning = time.Date(2026, 10, 18, 10, 20, 0, 0, time.UTC)

func TestHealth(t *testing.T) {
	srv := newTestServer(t, morning, nil)
	rec := get(t, srv.Handler(), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestStateEndpoint(t *testing.T) {
	srv := newTestServer(t, morning, nil)
	rec := get(t, srv.Handler(), "/api/state")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body struct {
		RelativeNow  int `json:"relative_now"`
		TotalMinutes int `json:"total_minutes"`
		Active       struct {
			Title    string `json:"title"`
			Start    string `json:"start"`
			Category string `json:"category"`
			Duration int    `json:"duration"`
		} `json:"active"`
		Upcoming []struct {
			Title string `json:"title"`
		} `json:"upcoming"`
		Totals []struct {
			Category string `json:"category"`
			Minutes  int    `json:"minutes"`
		} `json:"totals"`
		Timeline []struct {
			Status string `json:"status"`
		} `json:"timeline"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, 200, body.RelativeNow)
	assert.Equal(t, 1440, body.TotalMinutes)
	assert.Equal(t, "Short break", body.Active.Title)
	assert.Equal(t, "10:15", body.Active.Start)
	assert.Equal(t, "rest", body.Active.Category)
	assert.Equal(t, 15, body.Active.Duration)
	require.Len(t, body.Upcoming, 3)
	assert.Equal(t, "Script & record", body.Upcoming[0].Title)
	require.Len(t, body.Totals, 4)
	assert.Equal(t, "routine", body.Totals[0].Category)
	require.Len(t, body.Timeline, 13)
	assert.Equal(t, "past", body.Timeline[0].Status)
	assert.Equal(t, "active", body.Timeline[2].Status)
}

func TestStateEndpointEmptyUpcoming(t *testing.T) {
	srv := newTestServer(t, time.Date(2026, 10, 18, 3, 0, 0, 0, time.UTC), nil)
	rec := get(t, srv.Handler(), "/api/state")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"upcoming":[]`)
}

func TestScheduleEndpoint(t *testing.T) {
	srv := newTestServer(t, morning, nil)
	rec := get(t, srv.Handler(), "/api/schedule")
	require.Equal(t, http.StatusOK, rec.Code)

	var body scheduleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Creator Day Flow", body.Title)
	assert.Equal(t, 1440, body.TotalMinutes)
	assert.Equal(t, schedule.MustClock("07:00"), body.DayStart)
	require.Len(t, body.Entries, 13)
	assert.Equal(t, 990, body.Entries[12].OffsetStart)
	assert.Equal(t, 1440, body.Entries[12].OffsetEnd)
	require.Len(t, body.Categories, 4)
	assert.Equal(t, "Deep Work", body.Categories[1].Label)
	assert.Equal(t, 270, body.Categories[1].Minutes)
}

func TestAgendaEndpoint(t *testing.T) {
	srv := newTestServer(t, morning, nil)
	rec := get(t, srv.Handler(), "/api/agenda?days=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var body agendaResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), body.RangeStart.UTC())
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), body.RangeEnd.UTC())
	assert.Equal(t, "UTC", body.DisplayTimeZone)
	require.Len(t, body.Occurrences, 14)
	assert.Equal(t, "Sleep", body.Occurrences[0].Title)

	// Cached responses are per day count.
	srv.agendaMu.RLock()
	_, cached := srv.agendaCache[1]
	srv.agendaMu.RUnlock()
	assert.True(t, cached)

	rec = get(t, srv.Handler(), "/api/agenda?days=500")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, maxAgendaDays, int(body.RangeEnd.Sub(body.RangeStart).Hours()/24))
}

func TestICSEndpoint(t *testing.T) {
	srv := newTestServer(t, morning, nil)
	rec := get(t, srv.Handler(), "/schedule.ics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/calendar")
	assert.Contains(t, rec.Body.String(), "BEGIN:VCALENDAR")
	assert.Contains(t, rec.Body.String(), "DTSTART:20261018T070000")
}

func TestPreviewEndpoint(t *testing.T) {
	var out string
	srv := newTestServer(t, morning, func(c *config.Config) { out = c.Capture.Output })

	rec := get(t, srv.Handler(), "/preview.png")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.NoError(t, os.WriteFile(out, []byte("\x89PNG\r\n\x1a\n"), 0o644))
	rec = get(t, srv.Handler(), "/preview.png")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}

func TestDashboardPage(t *testing.T) {
	srv := newTestServer(t, morning, nil)
	rec := get(t, srv.Handler(), "/")
	require.Equal(t, http.StatusOK, rec.Code)

	html := rec.Body.String()
	assert.Contains(t, html, `data-ready="true"`)
	assert.Contains(t, html, `http-equiv="refresh" content="30"`)
	assert.Contains(t, html, "Short break")
	assert.Contains(t, html, "10:20 AM")
	assert.Contains(t, html, "14% done")
	assert.Contains(t, html, "Script &amp; record")
	assert.Contains(t, html, "width: 13.89%")
	assert.Equal(t, 1, strings.Count(html, `class="current"`))

	assert.Equal(t, http.StatusNotFound, get(t, srv.Handler(), "/nope").Code)
}

func TestDashboardAllDone(t *testing.T) {
	srv := newTestServer(t, time.Date(2026, 10, 18, 3, 0, 0, 0, time.UTC), func(c *config.Config) {
		c.Locale = "bn-BD"
	})
	rec := get(t, srv.Handler(), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "সব কাজ শেষ!")
	assert.Contains(t, rec.Body.String(), `lang="bn-BD"`)
}

func TestBasicAuth(t *testing.T) {
	srv := newTestServer(t, morning, func(c *config.Config) {
		c.BasicAuth = &config.BasicAuthConfig{Username: "me", Password: "secret"}
	})
	h := srv.Handler()

	assert.Equal(t, http.StatusOK, get(t, h, "/health").Code)

	rec := get(t, h, "/api/state")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Basic")

	req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	req.SetBasicAuth("me", "secret")
	ok := httptest.NewRecorder()
	h.ServeHTTP(ok, req)
	assert.Equal(t, http.StatusOK, ok.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/state", nil)
	req.SetBasicAuth("me", "wrong")
	bad := httptest.NewRecorder()
	h.ServeHTTP(bad, req)
	assert.Equal(t, http.StatusUnauthorized, bad.Code)
}

func TestNewServerRejectsBadTimezone(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Timezone = "Mars/Olympus"
	sched := schedule.Default()
	engine, err := timeline.New(sched.Entries)
	require.NoError(t, err)
	_, err = NewServer(cfg, sched, engine, fixedState{})
	assert.Error(t, err)
}
