package main

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dayflow/internal/format"
	"dayflow/internal/ics"
	appLog "dayflow/internal/log"
	"dayflow/internal/schedule"
	"dayflow/internal/timeline"
	"dayflow/internal/view"
)

func TestLoadScheduleDefault(t *testing.T) {
	s, err := loadSchedule(afero.NewMemMapFs(), "")
	require.NoError(t, err)
	assert.Equal(t, schedule.Default().Entries, s.Entries)
}

func TestLoadScheduleYAML(t *testing.T) {
	fsys := afero.NewMemMapFs()
	yml := `title: Short day
entries:
  - {start: "09:00", end: "12:00", title: Build, category: deep-work}
  - {start: "12:00", end: "09:00", title: Off, category: rest}
`
	require.NoError(t, afero.WriteFile(fsys, "/etc/dayflow/schedule.yaml", []byte(yml), 0o644))

	s, err := loadSchedule(fsys, "/etc/dayflow/schedule.yaml")
	require.NoError(t, err)
	require.NoError(t, s.Validate())
	assert.Equal(t, "Short day", s.Title)
	assert.Len(t, s.Entries, 2)
}

func TestLoadScheduleICS(t *testing.T) {
	body, err := ics.Export(schedule.Default(), time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/data/Plan.ICS", []byte(body), 0o644))

	s, err := loadSchedule(fsys, "/data/Plan.ICS")
	require.NoError(t, err)
	assert.Len(t, s.Entries, len(schedule.Default().Entries))
}

func TestLoadScheduleMissing(t *testing.T) {
	_, err := loadSchedule(afero.NewMemMapFs(), "/nope.yaml")
	assert.Error(t, err)
	_, err = loadSchedule(afero.NewMemMapFs(), "/nope.ics")
	assert.Error(t, err)
}

func dashboardAt(t *testing.T, hh, mm int) view.Dashboard {
	t.Helper()
	s := schedule.Default()
	e, err := timeline.New(s.Entries)
	require.NoError(t, err)
	return view.Build(s, e.State(time.Date(2026, 10, 18, hh, mm, 0, 0, time.UTC)), format.New("en"))
}

func TestPrintStatus(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	printStatus(&buf, dashboardAt(t, 10, 20), true)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Short break")
	assert.Contains(t, lines[0], "(10:15 AM – 10:30 AM)")
	assert.Contains(t, lines[0], "10 min")
	assert.Contains(t, lines[0], "Next: 🎬 Script & record")
	assert.Contains(t, lines[1], "10:30 AM")

	buf.Reset()
	printStatus(&buf, dashboardAt(t, 3, 0), true)
	assert.Contains(t, buf.String(), "All done!")
}

func TestBlockChangeLogger(t *testing.T) {
	s := schedule.Default()
	e, err := timeline.New(s.Entries)
	require.NoError(t, err)

	var buf bytes.Buffer
	appLog.SetOutput(&buf)
	defer appLog.SetOutput(os.Stderr)

	first := e.State(time.Date(2026, 10, 18, 10, 20, 0, 0, time.UTC))
	hook := blockChangeLogger(first)
	hook(first)
	assert.Empty(t, buf.String())

	later := e.State(time.Date(2026, 10, 18, 10, 40, 0, 0, time.UTC))
	hook(later)
	hook(later)
	assert.Equal(t, 1, strings.Count(buf.String(), "block started"))
	assert.Contains(t, buf.String(), `title="Script & record"`)
}
