package rules

import "strings"

// Hardcoded substring lists behind the location and title heuristics.
// A venue or title not on these lists is misclassified silently; the lists
// are maintained by hand as the club books new venues.
// TODO: move the venue lists to the club app's venue table once it grows a
// home/away flag.

// homeLocations are substrings that mark a venue as home territory.
// Matching is case-insensitive.
var homeLocations = []string{
	"leys",
	"blackbird",
	"ferry leisure",
	"hinksey",
	"abingdon",
	"radley college",
	"oxford",
}

// ukPlaces are substrings that mark a venue as domestic. An event location
// matching none of them counts as abroad.
var ukPlaces = []string{
	"london",
	"manchester",
	"birmingham",
	"leeds",
	"sheffield",
	"liverpool",
	"bristol",
	"cardiff",
	"edinburgh",
	"glasgow",
	"nottingham",
	"cambridge",
	"oxford",
	"reading",
	"southampton",
	"brighton",
	"newcastle",
	"uk",
	"united kingdom",
	"england",
	"scotland",
	"wales",
}

// bigStageKeywords mark an event title as a marquee occasion.
var bigStageKeywords = []string{
	"boa",
	"final",
	"national",
}

const campKeyword = "camp"

// matchesAny reports whether s contains any of the substrings,
// case-insensitively.
func matchesAny(s string, substrings []string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrings {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}
