package config

import "time"

const (
	// Session
	SessionDuration   = 180 * time.Second
	SweepInterval     = 5 * time.Second
	SessionPurgeDelay = 24 * time.Hour

	// Matchmaking
	MatchRetryInterval = 2 * time.Second

	// Moderation
	ModeratedPlaceholder      = "🌟 This message was ghosted!"
	StrikeWindow              = 1 * time.Hour
	StrikeAutoReportThreshold = 3

	// Clues
	MinTopicLength = 3
	MinSuggestions = 3
	MaxSuggestions = 5

	// Clue card artwork
	ArtworkPriceValue    = "1.99"
	ArtworkPriceCurrency = "USD"
	DefaultColorTheme    = "Indigo"

	// Reputation
	InitialReputation    = 1000
	MaxReputation        = 1000
	MinReputation        = 0
	ConfirmedReportBonus = 50

	// Ban
	BanThresholdReputation = 500
	BanThresholdFrequency  = 5
	BanFrequencyWindow     = 24 * time.Hour
	BanLevel1Duration      = 30 * time.Minute
	BanLevel2Duration      = 6 * time.Hour
	BanLevel3Duration      = 24 * time.Hour
)

// ColorThemes are the accepted clue card themes. DefaultColorTheme is used
// when the requested theme is not in this list.
var ColorThemes = []string{"Indigo", "Lavender", "Purple", "Crimson", "Teal"}

var ReportWeights = map[string]int{
	"Low":      5,
	"Medium":   50,
	"Critical": 250,
}

// System notice texts pushed over the websocket.
const (
	NoticeMatchFound   = "Partner found! Say hi — the clock is ticking."
	NoticeSessionEnded = "Time's up! Head over to build your clue card."
)
