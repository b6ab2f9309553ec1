package lookup

// Lanes used by the per-champion lane statistics.
const (
	LaneTop     = "top"
	LaneJungle  = "jungle"
	LaneMid     = "mid"
	LaneADC     = "adc"
	LaneSupport = "support"
)

var Lanes = []string{LaneTop, LaneJungle, LaneMid, LaneADC, LaneSupport}

var positionLanes = map[string]string{
	"TOP":     LaneTop,
	"JUNGLE":  LaneJungle,
	"MIDDLE":  LaneMid,
	"BOTTOM":  LaneADC,
	"UTILITY": LaneSupport,
}

// LaneForPosition maps a team position to its lane. "Invalid" and unknown positions have none.
func LaneForPosition(teamPosition string) (string, bool) {
	lane, ok := positionLanes[teamPosition]
	return lane, ok
}

// RuneStat is the win/pick rate (percent) of one rune on one champion; -1 when unknown.
type RuneStat struct {
	ChampionID int
	RuneID     int
	WinRate    float64
	PickRate   float64
}

func (s RuneStat) Known() bool {
	return s.WinRate >= 0 && s.PickRate >= 0
}

// LaneStat is the win/pick rate (percent) of one champion in one lane; -1 when unknown.
type LaneStat struct {
	ChampionID int
	Lane       string
	WinRate    float64
	PickRate   float64
}
