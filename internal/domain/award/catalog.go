// Package award holds the static catalog of award definitions.
//
// The catalog is data only: names, descriptions, icons. Which predicate
// grants which id lives in the rules package, not here.
package award

// ID identifies an award in the catalog.
type ID string

// Firsts and per-event RSVP awards.
const (
	FirstDip            ID = "first_dip"
	FirstMatch          ID = "first_match"
	FirstTournament     ID = "first_tournament"
	ThirteenthPlayer    ID = "thirteenth_player"
	FullBench           ID = "full_bench"
	RoadTrip            ID = "road_trip"
	InternationalWaters ID = "international_waters"
	CampSpirit          ID = "camp_spirit"
	BigStage            ID = "big_stage"
	EarlyBird           ID = "early_bird"
	LastMinuteHero      ID = "last_minute_hero"
)

// Streak awards, granted when the live streak crosses a threshold.
const (
	BackToBack  ID = "back_to_back"  // streak of 2
	HatTrick    ID = "hat_trick"     // streak of 3
	EverPresent ID = "ever_present"  // streak of 8
	IronLungs   ID = "iron_lungs"    // streak of 24
)

// Temporal pattern awards.
const (
	PerfectWeek     ID = "perfect_week"
	UnbrokenMonth   ID = "unbroken_month"
	StreakSaver     ID = "streak_saver"
	SeasonCenturion ID = "season_centurion"
)

// Attendance awards.
const (
	MondayRegular    ID = "monday_regular"
	WednesdayRegular ID = "wednesday_regular"
	FridayRegular    ID = "friday_regular"
	SundayRegular    ID = "sunday_regular"
	NewYearSplash    ID = "new_year_splash"
)

// Team and position awards.
const (
	WhiteLoyalist   ID = "white_loyalist"
	BlackLoyalist   ID = "black_loyalist"
	ThirdTeam       ID = "third_team"
	CaptainsPick    ID = "captains_pick"
	GoalkeeperGuild ID = "goalkeeper_guild"
	AnchorDefender  ID = "anchor_defender"
	CentreStalwart  ID = "centre_stalwart"
	WingWizard      ID = "wing_wizard"
	UtilityPlayer   ID = "utility_player"
)

// Tenure and reliability awards.
const (
	Anniversary1   ID = "anniversary_1"
	Anniversary5   ID = "anniversary_5"
	Anniversary10  ID = "anniversary_10"
	ForwardPlanner ID = "forward_planner"
	Steady25       ID = "steady_25"
	Steady50       ID = "steady_50"
	QuickDraw      ID = "quick_draw"
	SummerStalwart ID = "summer_stalwart"
)

// Milestone awards over lifetime attended eligible sessions.
const (
	Milestone5   ID = "milestone_5"
	Milestone10  ID = "milestone_10"
	Milestone25  ID = "milestone_25"
	Milestone50  ID = "milestone_50"
	Milestone100 ID = "milestone_100"
	Milestone200 ID = "milestone_200"
)

// Definition carries the human metadata for one award.
type Definition struct {
	ID          ID
	Name        string
	Description string
	Icon        string
}

// catalog is the full award table, immutable at runtime.
var catalog = []Definition{
	{FirstDip, "First Dip", "Said yes to your first ever session", "🌊"},
	{FirstMatch, "Match Debut", "Said yes to your first match", "🤽"},
	{FirstTournament, "Tournament Debut", "Said yes to your first tournament", "🏆"},
	{ThirteenthPlayer, "13th Player", "Thirteenth name on the sheet", "1️⃣3️⃣"},
	{FullBench, "Full Bench", "Part of a 24-strong turnout", "🪑"},
	{RoadTrip, "Road Trip", "Signed up for an away-day venue", "🚌"},
	{InternationalWaters, "International Waters", "Signed up for an event abroad", "🌍"},
	{CampSpirit, "Camp Spirit", "Signed up for a training camp", "⛺"},
	{BigStage, "Big Stage", "Signed up for a final or national event", "🎭"},
	{EarlyBird, "Early Bird", "RSVP'd more than a week ahead", "🐦"},
	{LastMinuteHero, "Last-Minute Hero", "RSVP'd within two hours of the start", "⏰"},
	{BackToBack, "Back to Back", "Two eligible sessions in a row", "✌️"},
	{HatTrick, "Hat Trick", "Three eligible sessions in a row", "🎩"},
	{EverPresent, "Ever Present", "Eight eligible sessions in a row", "📿"},
	{IronLungs, "Iron Lungs", "Twenty-four eligible sessions in a row", "🫁"},
	{PerfectWeek, "Perfect Week", "Attended every session in a multi-session week", "📅"},
	{UnbrokenMonth, "Unbroken Month", "Attended every session in a busy month", "🗓️"},
	{StreakSaver, "Streak Saver", "Came back after a week away", "🩹"},
	{SeasonCenturion, "Season Centurion", "One hundred sessions in a single season", "💯"},
	{MondayRegular, "Monday Regular", "Ten Monday attendances", "🌙"},
	{WednesdayRegular, "Wednesday Regular", "Ten Wednesday attendances", "🐪"},
	{FridayRegular, "Friday Regular", "Ten Friday attendances", "🎉"},
	{SundayRegular, "Sunday Regular", "Ten Sunday attendances", "☀️"},
	{NewYearSplash, "New Year Splash", "In the water in the first week of January", "🎆"},
	{WhiteLoyalist, "White Loyalist", "Five outings for the whites", "⚪"},
	{BlackLoyalist, "Black Loyalist", "Five outings for the blacks", "⚫"},
	{ThirdTeam, "Third Team", "Turned out for a team of another colour", "🌈"},
	{CaptainsPick, "Captain's Pick", "First name on the captain's sheet", "©️"},
	{GoalkeeperGuild, "Goalkeeper Guild", "Ten games between the posts", "🧤"},
	{AnchorDefender, "Anchor", "Ten games holding the line", "⚓"},
	{CentreStalwart, "Centre Stalwart", "Ten games at centre", "🎯"},
	{WingWizard, "Wing Wizard", "Ten games on the wing", "🪽"},
	{UtilityPlayer, "Utility Player", "Played every position at least once", "🛠️"},
	{Anniversary1, "One Year In", "A year since your first yes", "🕯️"},
	{Anniversary5, "Five Years In", "Five years since your first yes", "🖐️"},
	{Anniversary10, "Decade of Service", "Ten years since your first yes", "🔟"},
	{ForwardPlanner, "Forward Planner", "Twenty RSVPs made more than a day ahead", "🧭"},
	{Steady25, "Steady 25", "Twenty-five sessions, never a late drop-out", "🧱"},
	{Steady50, "Steady 50", "Fifty sessions, never a late drop-out", "🏛️"},
	{QuickDraw, "Quick Draw", "Fifteen RSVPs within a day of the invite", "🤠"},
	{SummerStalwart, "Summer Stalwart", "Ten sessions through the summer window", "🏖️"},
	{Milestone5, "Five Sessions", "Five eligible sessions attended", "🥉"},
	{Milestone10, "Ten Sessions", "Ten eligible sessions attended", "🥈"},
	{Milestone25, "Twenty-Five Sessions", "Twenty-five eligible sessions attended", "🥇"},
	{Milestone50, "Fifty Sessions", "Fifty eligible sessions attended", "🏅"},
	{Milestone100, "One Hundred Sessions", "One hundred eligible sessions attended", "🎖️"},
	{Milestone200, "Two Hundred Sessions", "Two hundred eligible sessions attended", "👑"},
}

// index provides id lookup into the catalog.
var index = func() map[ID]Definition {
	m := make(map[ID]Definition, len(catalog))
	for _, d := range catalog {
		m[d.ID] = d
	}
	return m
}()

// Catalog returns the full award table in display order.
func Catalog() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the definition for id. ok is false for unknown ids.
func Lookup(id ID) (Definition, bool) {
	d, ok := index[id]
	return d, ok
}
