package schedule

const (
	defaultTitle    = "Creator Day Flow"
	defaultSubtitle = "7 AM to 11:30 PM: a balanced content routine"
)

// Default returns the built-in creator-day schedule. It starts at 07:00 and
// wraps through the night back to 07:00.
func Default() *Schedule {
	return &Schedule{
		Title:      defaultTitle,
		Subtitle:   defaultSubtitle,
		Categories: DefaultMeta(),
		Entries: []Entry{
			{Start: MustClock("07:00"), End: MustClock("07:45"), Title: "Wake up & reset", Category: Routine,
				Details: []string{"Water and stretching", "Breakfast", "Skim today's plan"}},
			{Start: MustClock("07:45"), End: MustClock("10:15"), Title: "Deep work: research", Category: DeepWork,
				Details: []string{"Topic research", "Outline the next video", "Notifications off"}},
			{Start: MustClock("10:15"), End: MustClock("10:30"), Title: "Short break", Category: Rest,
				Details: []string{"Walk", "Refill water"}},
			{Start: MustClock("10:30"), End: MustClock("12:30"), Title: "Script & record", Category: Content,
				Details: []string{"Finish the script", "Record voice-over", "B-roll list"}},
			{Start: MustClock("12:30"), End: MustClock("13:30"), Title: "Lunch & nap", Category: Rest,
				Details: []string{"Lunch away from the desk", "20 minute nap"}},
			{Start: MustClock("13:30"), End: MustClock("15:30"), Title: "Deep work: editing", Category: DeepWork,
				Details: []string{"Rough cut", "Color and sound pass"}},
			{Start: MustClock("15:30"), End: MustClock("16:00"), Title: "Tea break", Category: Rest,
				Details: []string{"Tea", "Quick tidy-up"}},
			{Start: MustClock("16:00"), End: MustClock("18:00"), Title: "Publish & engage", Category: Content,
				Details: []string{"Thumbnail and title", "Upload and schedule", "Reply to comments"}},
			{Start: MustClock("18:00"), End: MustClock("19:00"), Title: "Exercise", Category: Routine,
				Details: []string{"Run or gym", "Cool-down stretch"}},
			{Start: MustClock("19:00"), End: MustClock("20:00"), Title: "Dinner & family", Category: Rest,
				Details: []string{"Dinner", "Phone away"}},
			{Start: MustClock("20:00"), End: MustClock("21:30"), Title: "Live session", Category: Content,
				Details: []string{"Go live", "Community Q&A", "Clip highlights"}},
			{Start: MustClock("21:30"), End: MustClock("23:30"), Title: "Review & plan tomorrow", Category: Routine,
				Details: []string{"Check analytics", "Write tomorrow's top three", "Reading"}},
			{Start: MustClock("23:30"), End: MustClock("07:00"), Title: "Sleep", Category: Rest,
				Details: []string{"Screens off", "Seven and a half hours"}},
		},
	}
}
