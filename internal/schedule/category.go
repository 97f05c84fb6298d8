package schedule

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCategory is returned when a category key is not one of the
// known categories.
var ErrUnknownCategory = errors.New("schedule: unknown category")

// Category classifies schedule entries. The set is closed; use Categories to
// iterate over every member.
type Category int

const (
	Routine Category = iota
	DeepWork
	Content
	Rest
)

var categoryKeys = [...]string{
	Routine:  "routine",
	DeepWork: "deep-work",
	Content:  "content",
	Rest:     "rest",
}

// Categories returns all categories in display order.
func Categories() []Category {
	return []Category{Routine, DeepWork, Content, Rest}
}

// ParseCategory resolves a category key such as "deep-work".
func ParseCategory(key string) (Category, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for i, k := range categoryKeys {
		if k == key {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, key)
}

// Valid reports whether c is a member of the closed set.
func (c Category) Valid() bool {
	return c >= 0 && int(c) < len(categoryKeys)
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryKeys[c]
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	return []byte(categoryKeys[c]), nil
}

func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Meta is the display metadata for a category.
type Meta struct {
	Label string `yaml:"label" json:"label"`
	Icon  string `yaml:"icon" json:"icon"`
	// Accent is a CSS/terminal hex color, e.g. "#34d399".
	Accent string `yaml:"accent" json:"accent"`
}

// DefaultMeta returns the built-in metadata for every category.
func DefaultMeta() map[Category]Meta {
	return map[Category]Meta{
		Routine:  {Label: "Routine", Icon: "🌅", Accent: "#fbbf24"},
		DeepWork: {Label: "Deep Work", Icon: "🧠", Accent: "#38bdf8"},
		Content:  {Label: "Content", Icon: "🎬", Accent: "#e879f9"},
		Rest:     {Label: "Rest", Icon: "🌙", Accent: "#34d399"},
	}
}
