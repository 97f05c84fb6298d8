package format

// translations maps a base language to UI strings keyed by their English
// format string.
var translations = map[string]map[string]string{
	"bn": {
		"Today's plan":              "আজকের দিনপঞ্জি",
		"Now":                       "এখন সময়",
		"%s done":                   "%s সম্পন্ন",
		"In progress":               "চলছে",
		"Next":                      "পরবর্তী",
		"Focus zones":               "ফোকাস জোন",
		"Next few steps":            "পরবর্তী কয়েক ধাপ",
		"All done!":                 "সব কাজ শেষ!",
		"Today's plan is complete.": "আজকের পরিকল্পনা সফলভাবে সম্পন্ন হয়েছে।",
		"Daily timeline":            "দৈনিক টাইমলাইন",
		"%d hr %d min":              "%d ঘন্টা %d মিনিট",
		"%d hr":                     "%d ঘন্টা",
		"%d min":                    "%d মিনিট",
	},
}

type dateNames struct {
	weekdays [7]string
	months   [12]string
}

var dateTables = map[string]*dateNames{
	"bn": {
		weekdays: [7]string{"রবিবার", "সোমবার", "মঙ্গলবার", "বুধবার", "বৃহস্পতিবার", "শুক্রবার", "শনিবার"},
		months: [12]string{"জানুয়ারী", "ফেব্রুয়ারী", "মার্চ", "এপ্রিল", "মে", "জুন",
			"জুলাই", "আগস্ট", "সেপ্টেম্বর", "অক্টোবর", "নভেম্বর", "ডিসেম্বর"},
	},
}
