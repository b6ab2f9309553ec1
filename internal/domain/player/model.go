package player

// Player is one ladder entry whose recent matches are harvested.
type Player struct {
	PUUID        string
	SummonerID   string
	Tier         string
	Rank         int
	LeaguePoints int
	Wins         int
	Losses       int
	Veteran      bool
	HotStreak    bool
}

const (
	TierChallenger  = "CHALLENGER"
	TierGrandmaster = "GRANDMASTER"
	TierMaster      = "MASTER"
)

// ApexTiers are read top-down until the configured roster size is filled.
var ApexTiers = []string{TierChallenger, TierGrandmaster, TierMaster}
