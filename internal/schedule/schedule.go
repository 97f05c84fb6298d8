// Package schedule holds the static daily schedule: the ordered list of
// time-boxed entries and the per-category display metadata.
//
// A schedule is loaded once at startup and never changes afterwards.
package schedule

import (
	"errors"
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ErrNoEntries is reported by Validate for an empty schedule.
var ErrNoEntries = errors.New("schedule: no entries")

// Entry is one time-boxed activity.
type Entry struct {
	Start    Clock    `yaml:"start" json:"start"`
	End      Clock    `yaml:"end" json:"end"`
	Title    string   `yaml:"title" json:"title"`
	Category Category `yaml:"category" json:"category"`
	Details  []string `yaml:"details,omitempty" json:"details"`
}

// Duration returns the entry length in minutes, wrapping past midnight.
func (e Entry) Duration() int {
	return Span(e.Start, e.End)
}

// Schedule is the ordered entry list plus category metadata.
type Schedule struct {
	Title    string `yaml:"title,omitempty" json:"title"`
	Subtitle string `yaml:"subtitle,omitempty" json:"subtitle"`

	Entries    []Entry           `yaml:"entries" json:"entries"`
	Categories map[Category]Meta `yaml:"categories,omitempty" json:"-"`
}

// Meta returns the display metadata for c, falling back to DefaultMeta for
// categories the schedule does not override.
func (s *Schedule) Meta(c Category) Meta {
	if m, ok := s.Categories[c]; ok {
		return m
	}
	return DefaultMeta()[c]
}

// Validate checks the structural invariants of the schedule: at least one
// entry, known categories, non-zero durations, each entry starting where the
// previous one ended, and a cycle no longer than one day. All problems are
// reported together.
func (s *Schedule) Validate() error {
	var result *multierror.Error

	if len(s.Entries) == 0 {
		return multierror.Append(result, ErrNoEntries)
	}

	total := 0
	for i, e := range s.Entries {
		if !e.Category.Valid() {
			result = multierror.Append(result, fmt.Errorf("entry %d (%s): %w", i, e.Title, ErrUnknownCategory))
		}
		d := e.Duration()
		if d == 0 {
			result = multierror.Append(result, fmt.Errorf("entry %d (%s): zero duration at %s", i, e.Title, e.Start))
		}
		if i > 0 {
			prev := s.Entries[i-1]
			if e.Start != prev.End {
				result = multierror.Append(result, fmt.Errorf("entry %d (%s): starts at %s but previous entry ends at %s", i, e.Title, e.Start, prev.End))
			}
		}
		total += d
	}

	if total > MinutesPerDay {
		result = multierror.Append(result, fmt.Errorf("schedule: cycle of %d minutes exceeds one day", total))
	}

	return result.ErrorOrNil()
}

// Decode reads a YAML schedule. Missing title or category metadata is filled
// from the defaults; the result is not validated.
func Decode(r io.Reader) (*Schedule, error) {
	var s Schedule
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("schedule: decode: %w", err)
	}
	s.FillDefaults()
	return &s, nil
}

// LoadFile reads a YAML schedule from path on fsys.
func LoadFile(fsys afero.Fs, path string) (*Schedule, error) {
	if path == "" {
		return nil, errors.New("schedule path is empty")
	}
	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f)
}

// FillDefaults sets a missing title and any category metadata the schedule
// does not define.
func (s *Schedule) FillDefaults() {
	if s.Title == "" {
		s.Title = defaultTitle
	}
	if s.Categories == nil {
		s.Categories = DefaultMeta()
		return
	}
	for c, m := range DefaultMeta() {
		if _, ok := s.Categories[c]; !ok {
			s.Categories[c] = m
		}
	}
}
