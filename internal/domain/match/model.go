package match

import "strconv"

const (
	BlueTeamID = 100
	RedTeamID  = 200

	// EndOfGameComplete is the end result of a game played to a nexus kill or surrender.
	// Remakes and aborted games report other values and may have no winner.
	EndOfGameComplete = "GameComplete"

	// Missing marks absent categorical values such as an unranked player.
	Missing = "Missing"
	// Unavailable marks numeric values that could not be fetched or looked up.
	Unavailable = -1

	PositionTop     = "TOP"
	PositionJungle  = "JUNGLE"
	PositionMiddle  = "MIDDLE"
	PositionBottom  = "BOTTOM"
	PositionUtility = "UTILITY"
	PositionInvalid = "Invalid"

	// VersionPrefixLength is the number of leading characters of a game version compared
	// against the configured target version ("14.20.615.1234" -> "14.20").
	VersionPrefixLength = 5
)

// Match is one completed game. Timestamps are epoch seconds.
type Match struct {
	MatchID                   string
	Participants              []string
	EndOfGameResult           string
	GameVersion               string
	GameStartTimestamp        int64
	GameEndTimestamp          int64
	TimePlayed                float64
	GameEndedInSurrender      bool
	GameEndedInEarlySurrender bool
	// Composition scores are nil until computed and -1 when the analyzer failed.
	CompRiskScore *float64
	CompWinRate   *float64
}

// Team is one side of a match. Exactly one of the two teams of a match has Win set,
// and likewise for FirstTower and FirstKill.
type Team struct {
	MatchID         string
	TeamID          int
	Win             bool
	ChampionPicks   [5]int
	ChampionBans    [5]int
	BaronKills      int
	DragonKills     int
	RiftHeraldKills int
	TowerKills      int
	InhibitorKills  int
	ChampionKills   int
	FirstTower      bool
	FirstKill       bool
}

// Perks are the six selected runes plus styles and stat shards.
type Perks struct {
	Keystone       int
	PrimaryRow1    int
	PrimaryRow2    int
	PrimaryRow3    int
	PrimaryStyle   int
	SecondaryRow1  int
	SecondaryRow2  int
	SecondaryStyle int
	ShardDefense   int
	ShardFlex      int
	ShardOffense   int
}

// RuneIDs returns the six runes that carry win/pick statistics.
func (p Perks) RuneIDs() [6]int {
	return [6]int{p.Keystone, p.PrimaryRow1, p.PrimaryRow2, p.PrimaryRow3, p.SecondaryRow1, p.SecondaryRow2}
}

// Pings counts communication pings by kind.
type Pings struct {
	AllIn         int
	AssistMe      int
	Basic         int
	Command       int
	Danger        int
	EnemyMissing  int
	EnemyVision   int
	GetBack       int
	NeedVision    int
	OnMyWay       int
	Push          int
	VisionCleared int
}

// Enrichment holds the lookup-derived columns. All nil until the enrichment stage ran;
// -1 marks a value that had no lookup.
type Enrichment struct {
	ChampionLevel    *int64
	ChampionPoints   *int64
	RuneWinRate      *float64
	RunePickRate     *float64
	ChampionWinRate  *float64
	ChampionPickRate *float64
}

func (e Enrichment) Done() bool {
	return e.ChampionLevel != nil
}

// PlayerMatch is one participant's line in one match.
type PlayerMatch struct {
	PUUID              string
	MatchID            string
	GameStartTimestamp int64
	ParticipantID      int
	TeamID             int
	SummonerID         string
	SummonerLevel      int
	TierRank           string
	IndividualPosition string
	TeamPosition       string
	Win                bool

	Champion        string
	ChampionID      int
	ChampLevel      int
	ChampExperience int

	Kills       int
	Deaths      int
	Assists     int
	KDA         float64
	DoubleKills int
	TripleKills int
	QuadraKills int
	PentaKills  int

	FirstBloodKill bool
	FirstTowerKill bool

	Perks Perks
	Items [7]int

	ItemsPurchased       int
	ConsumablesPurchased int
	GoldEarned           int
	GoldSpent            int

	Pings Pings

	DamageDealtToBuildings         int
	DamageDealtToObjectives        int
	DamageDealtToTurrets           int
	DamageSelfMitigated            int
	MagicDamageDealt               int
	MagicDamageDealtToChampions    int
	MagicDamageTaken               int
	PhysicalDamageDealt            int
	PhysicalDamageDealtToChampions int
	PhysicalDamageTaken            int
	TrueDamageDealt                int
	TrueDamageDealtToChampions     int
	TrueDamageTaken                int
	TotalDamageDealt               int
	TotalDamageDealtToChampions    int
	TotalDamageTaken               int
	TotalDamageShieldedOnTeammates int
	TotalHeal                      int
	TotalHealsOnTeammates          int
	TotalUnitsHealed               int
	TimeCCingOthers                int
	TotalTimeCCDealt               int
	TotalTimeSpentDead             int
	LongestTimeSpentLiving         int

	TotalMinionsKilled        int
	TotalNeutralMinionsKilled int

	Spell1Casts int
	Spell2Casts int
	Spell3Casts int
	Spell4Casts int

	SightWardsBoughtInGame  int
	VisionWardsBoughtInGame int
	DetectorWardsPlaced     int
	WardsPlaced             int
	WardsKilled             int
	VisionScore             int

	DamagePerMinute             float64
	DamageTakenOnTeamPercentage float64
	GoldPerMinute               float64
	VisionScorePerMinute        float64

	Enrichment Enrichment
}

// Records is the normalized output for one match.
type Records struct {
	Match   Match
	Teams   [2]Team
	Players []PlayerMatch
}

// VersionMatches reports whether the leading characters of gameVersion equal the target patch.
func VersionMatches(gameVersion, target string) bool {
	if len(gameVersion) > VersionPrefixLength {
		gameVersion = gameVersion[:VersionPrefixLength]
	}
	return gameVersion == target
}

// SlotKey is the dataset column for a champion slot, e.g. "100_TOP".
func SlotKey(teamID int, position string) string {
	return strconv.Itoa(teamID) + "_" + position
}
