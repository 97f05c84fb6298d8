package timeline

import "dayflow/internal/schedule"

// Totals maps each category to its summed block minutes.
type Totals map[schedule.Category]int

// CategoryTotal is one row of Totals.Ordered.
type CategoryTotal struct {
	Category schedule.Category `json:"category"`
	Minutes  int               `json:"minutes"`
}

// AggregateByCategory sums block durations per category.
func AggregateByCategory(blocks []Block) Totals {
	totals := make(Totals, len(schedule.Categories()))
	for _, b := range blocks {
		totals[b.Category] += b.Duration
	}
	return totals
}

// Sum returns the minutes across all categories.
func (t Totals) Sum() int {
	sum := 0
	for _, m := range t {
		sum += m
	}
	return sum
}

// Ordered lists every category in schedule.Categories order, including those
// with no minutes.
func (t Totals) Ordered() []CategoryTotal {
	out := make([]CategoryTotal, 0, len(schedule.Categories()))
	for _, c := range schedule.Categories() {
		out = append(out, CategoryTotal{Category: c, Minutes: t[c]})
	}
	return out
}
