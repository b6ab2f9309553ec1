package usecase

import "context"

// MatchDataProvider is the upstream game data API.
type MatchDataProvider interface {
	ListRecentMatches(ctx context.Context, puuid string, queue, count int) ([]string, error)
	GetMatch(ctx context.Context, matchID string) (RawMatch, error)
	GetRankEntries(ctx context.Context, puuid string) ([]RawRankEntry, error)
	GetChampionMastery(ctx context.Context, puuid string) ([]RawMastery, error)
	GetLeagueStandings(ctx context.Context, queue, tier string) ([]RawLeagueEntry, error)
}

// AuxStatsProvider serves aggregate champion statistics scraped from public sites.
type AuxStatsProvider interface {
	RuneStats(ctx context.Context, championID, runeID int) (RateStat, error)
	LaneStats(ctx context.Context, championID int, lane string) (RateStat, error)
}

// CompositionScorer rates a ten-champion composition.
type CompositionScorer interface {
	CompositionScore(ctx context.Context, championIDs []int) (CompositionScore, error)
}

// StaticDataProvider lists the current champion and rune catalogs.
type StaticDataProvider interface {
	Champions(ctx context.Context) ([]Champion, error)
	Runes(ctx context.Context) (RuneCatalog, error)
}

// RateStat holds percentages as published, e.g. 51.3 for "51.3%".
type RateStat struct {
	WinRate  float64
	PickRate float64
}

type CompositionScore struct {
	Risk    float64
	WinRate float64
}

type Champion struct {
	ID   int
	Key  string
	Name string
}

// RuneCatalog separates keystone-slot runes from the other slots.
type RuneCatalog struct {
	Primary   []int
	Secondary []int
}

func (c RuneCatalog) All() []int {
	out := make([]int, 0, len(c.Primary)+len(c.Secondary))
	out = append(out, c.Primary...)
	return append(out, c.Secondary...)
}

// RawMatch mirrors the match-v5 payload fields the pipeline reads.
type RawMatch struct {
	Metadata RawMatchMetadata `json:"metadata"`
	Info     RawMatchInfo     `json:"info"`
}

type RawMatchMetadata struct {
	MatchID      string   `json:"matchId" validate:"required"`
	Participants []string `json:"participants" validate:"len=10,dive,required"`
}

type RawMatchInfo struct {
	EndOfGameResult    string           `json:"endOfGameResult"`
	GameCreation       int64            `json:"gameCreation"`
	GameDuration       int64            `json:"gameDuration"`
	GameStartTimestamp int64            `json:"gameStartTimestamp" validate:"required"`
	GameEndTimestamp   int64            `json:"gameEndTimestamp" validate:"required,gtefield=GameStartTimestamp"`
	GameVersion        string           `json:"gameVersion" validate:"required"`
	QueueID            int              `json:"queueId"`
	Participants       []RawParticipant `json:"participants" validate:"len=10"`
	Teams              []RawTeam        `json:"teams" validate:"len=2,dive"`
}

type RawTeam struct {
	TeamID     int           `json:"teamId" validate:"oneof=100 200"`
	Win        bool          `json:"win"`
	Bans       []RawBan      `json:"bans"`
	Objectives RawObjectives `json:"objectives"`
}

type RawBan struct {
	ChampionID int `json:"championId"`
	PickTurn   int `json:"pickTurn"`
}

type RawObjective struct {
	First bool `json:"first"`
	Kills int  `json:"kills"`
}

type RawObjectives struct {
	Baron      RawObjective `json:"baron"`
	Champion   RawObjective `json:"champion"`
	Dragon     RawObjective `json:"dragon"`
	Inhibitor  RawObjective `json:"inhibitor"`
	RiftHerald RawObjective `json:"riftHerald"`
	Tower      RawObjective `json:"tower"`
}

type RawPerkSelection struct {
	Perk int `json:"perk"`
}

type RawPerkStyle struct {
	Description string             `json:"description"`
	Style       int                `json:"style"`
	Selections  []RawPerkSelection `json:"selections"`
}

type RawStatPerks struct {
	Defense int `json:"defense"`
	Flex    int `json:"flex"`
	Offense int `json:"offense"`
}

type RawPerks struct {
	StatPerks RawStatPerks   `json:"statPerks"`
	Styles    []RawPerkStyle `json:"styles"`
}

type RawChallenges struct {
	KDA                         float64 `json:"kda"`
	DamagePerMinute             float64 `json:"damagePerMinute"`
	DamageTakenOnTeamPercentage float64 `json:"damageTakenOnTeamPercentage"`
	GoldPerMinute               float64 `json:"goldPerMinute"`
	VisionScorePerMinute        float64 `json:"visionScorePerMinute"`
}

type RawParticipant struct {
	PUUID              string `json:"puuid"`
	SummonerID         string `json:"summonerId"`
	SummonerLevel      int    `json:"summonerLevel"`
	ParticipantID      int    `json:"participantId"`
	TeamID             int    `json:"teamId"`
	IndividualPosition string `json:"individualPosition"`
	TeamPosition       string `json:"teamPosition"`
	Win                bool   `json:"win"`

	ChampionName    string `json:"championName"`
	ChampionID      int    `json:"championId"`
	ChampLevel      int    `json:"champLevel"`
	ChampExperience int    `json:"champExperience"`

	Kills       int `json:"kills"`
	Deaths      int `json:"deaths"`
	Assists     int `json:"assists"`
	DoubleKills int `json:"doubleKills"`
	TripleKills int `json:"tripleKills"`
	QuadraKills int `json:"quadraKills"`
	PentaKills  int `json:"pentaKills"`

	FirstBloodKill bool `json:"firstBloodKill"`
	FirstTowerKill bool `json:"firstTowerKill"`

	GameEndedInSurrender      bool `json:"gameEndedInSurrender"`
	GameEndedInEarlySurrender bool `json:"gameEndedInEarlySurrender"`

	Perks RawPerks `json:"perks"`

	Item0                int `json:"item0"`
	Item1                int `json:"item1"`
	Item2                int `json:"item2"`
	Item3                int `json:"item3"`
	Item4                int `json:"item4"`
	Item5                int `json:"item5"`
	Item6                int `json:"item6"`
	ItemsPurchased       int `json:"itemsPurchased"`
	ConsumablesPurchased int `json:"consumablesPurchased"`
	GoldEarned           int `json:"goldEarned"`
	GoldSpent            int `json:"goldSpent"`

	AllInPings         int `json:"allInPings"`
	AssistMePings      int `json:"assistMePings"`
	BasicPings         int `json:"basicPings"`
	CommandPings       int `json:"commandPings"`
	DangerPings        int `json:"dangerPings"`
	EnemyMissingPings  int `json:"enemyMissingPings"`
	EnemyVisionPings   int `json:"enemyVisionPings"`
	GetBackPings       int `json:"getBackPings"`
	NeedVisionPings    int `json:"needVisionPings"`
	OnMyWayPings       int `json:"onMyWayPings"`
	PushPings          int `json:"pushPings"`
	VisionClearedPings int `json:"visionClearedPings"`

	DamageDealtToBuildings         int `json:"damageDealtToBuildings"`
	DamageDealtToObjectives        int `json:"damageDealtToObjectives"`
	DamageDealtToTurrets           int `json:"damageDealtToTurrets"`
	DamageSelfMitigated            int `json:"damageSelfMitigated"`
	MagicDamageDealt               int `json:"magicDamageDealt"`
	MagicDamageDealtToChampions    int `json:"magicDamageDealtToChampions"`
	MagicDamageTaken               int `json:"magicDamageTaken"`
	PhysicalDamageDealt            int `json:"physicalDamageDealt"`
	PhysicalDamageDealtToChampions int `json:"physicalDamageDealtToChampions"`
	PhysicalDamageTaken            int `json:"physicalDamageTaken"`
	TrueDamageDealt                int `json:"trueDamageDealt"`
	TrueDamageDealtToChampions     int `json:"trueDamageDealtToChampions"`
	TrueDamageTaken                int `json:"trueDamageTaken"`
	TotalDamageDealt               int `json:"totalDamageDealt"`
	TotalDamageDealtToChampions    int `json:"totalDamageDealtToChampions"`
	TotalDamageTaken               int `json:"totalDamageTaken"`
	TotalDamageShieldedOnTeammates int `json:"totalDamageShieldedOnTeammates"`
	TotalHeal                      int `json:"totalHeal"`
	TotalHealsOnTeammates          int `json:"totalHealsOnTeammates"`
	TotalUnitsHealed               int `json:"totalUnitsHealed"`
	TimeCCingOthers                int `json:"timeCCingOthers"`
	TotalTimeCCDealt               int `json:"totalTimeCCDealt"`
	TotalTimeSpentDead             int `json:"totalTimeSpentDead"`
	LongestTimeSpentLiving         int `json:"longestTimeSpentLiving"`

	TotalMinionsKilled            int `json:"totalMinionsKilled"`
	TotalAllyJungleMinionsKilled  int `json:"totalAllyJungleMinionsKilled"`
	TotalEnemyJungleMinionsKilled int `json:"totalEnemyJungleMinionsKilled"`

	Spell1Casts int `json:"spell1Casts"`
	Spell2Casts int `json:"spell2Casts"`
	Spell3Casts int `json:"spell3Casts"`
	Spell4Casts int `json:"spell4Casts"`

	SightWardsBoughtInGame  int `json:"sightWardsBoughtInGame"`
	VisionWardsBoughtInGame int `json:"visionWardsBoughtInGame"`
	DetectorWardsPlaced     int `json:"detectorWardsPlaced"`
	WardsPlaced             int `json:"wardsPlaced"`
	WardsKilled             int `json:"wardsKilled"`
	VisionScore             int `json:"visionScore"`

	Challenges RawChallenges `json:"challenges"`
}

// RawRankEntry is one queue entry of league-v4 entries-by-puuid.
type RawRankEntry struct {
	QueueType    string `json:"queueType"`
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

// RawMastery is one champion-mastery-v4 item.
type RawMastery struct {
	PUUID                        string   `json:"puuid"`
	ChampionID                   int      `json:"championId"`
	ChampionLevel                int64    `json:"championLevel"`
	ChampionPoints               int64    `json:"championPoints"`
	ChampionPointsSinceLastLevel int64    `json:"championPointsSinceLastLevel"`
	ChampionPointsUntilNextLevel int64    `json:"championPointsUntilNextLevel"`
	LastPlayTime                 int64    `json:"lastPlayTime"`
	TokensEarned                 int      `json:"tokensEarned"`
	MilestoneGrades              []string `json:"milestoneGrades"`
}

// RawLeagueEntry is one entry of an apex league list.
type RawLeagueEntry struct {
	PUUID        string `json:"puuid"`
	SummonerID   string `json:"summonerId"`
	LeaguePoints int    `json:"leaguePoints"`
	Rank         string `json:"rank"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
	Veteran      bool   `json:"veteran"`
	Inactive     bool   `json:"inactive"`
	FreshBlood   bool   `json:"freshBlood"`
	HotStreak    bool   `json:"hotStreak"`
}
