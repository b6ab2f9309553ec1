package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/lol-dataset/internal/domain/match"
)

func TestRecordNormalizer_Normalize(t *testing.T) {
	start := time.UnixMilli(1_700_000_000_000)
	raw := newRawMatch("BR1_100", "14.20.615.1234", start)
	raw.Info.Participants[2].FirstTowerKill = true
	raw.Info.Participants[7].FirstBloodKill = true
	raw.Info.Participants[9].IndividualPosition = ""
	raw.Info.Participants[3].TotalAllyJungleMinionsKilled = 4
	raw.Info.Participants[3].TotalEnemyJungleMinionsKilled = 6

	n := NewRecordNormalizer()
	records, err := n.Normalize(t.Context(), NormalizeInput{
		Payload:     raw,
		TierRanks:   map[string]string{"BR1_100-p0": "CHALLENGER I"},
		Composition: &CompositionScore{Risk: 12.5, WinRate: 51.2},
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	m := records.Match
	if m.GameStartTimestamp != 1_700_000_000 || m.GameEndTimestamp != 1_700_001_800 {
		t.Fatalf("expected epoch seconds, got start=%d end=%d", m.GameStartTimestamp, m.GameEndTimestamp)
	}
	if m.TimePlayed != 1800 {
		t.Fatalf("unexpected time played: %v", m.TimePlayed)
	}
	if m.CompRiskScore == nil || *m.CompRiskScore != 12.5 || m.CompWinRate == nil || *m.CompWinRate != 51.2 {
		t.Fatalf("unexpected composition: %+v %+v", m.CompRiskScore, m.CompWinRate)
	}
	if len(m.Participants) != 10 {
		t.Fatalf("unexpected participants: %v", m.Participants)
	}

	blue, red := records.Teams[0], records.Teams[1]
	if blue.TeamID != match.BlueTeamID || red.TeamID != match.RedTeamID {
		t.Fatalf("unexpected team ids: %d %d", blue.TeamID, red.TeamID)
	}
	if !blue.Win || red.Win {
		t.Fatalf("unexpected win flags: blue=%v red=%v", blue.Win, red.Win)
	}
	if !blue.FirstTower || red.FirstTower {
		t.Fatalf("first tower should belong to blue: blue=%v red=%v", blue.FirstTower, red.FirstTower)
	}
	if blue.FirstKill || !red.FirstKill {
		t.Fatalf("first kill should fall to red: blue=%v red=%v", blue.FirstKill, red.FirstKill)
	}
	if blue.ChampionBans != [5]int{1, 2, 3, 4, 5} {
		t.Fatalf("unexpected blue bans: %v", blue.ChampionBans)
	}
	if red.ChampionBans != [5]int{6, 7, -1, -1, -1} {
		t.Fatalf("missing bans should be -1: %v", red.ChampionBans)
	}
	if red.ChampionPicks != [5]int{105, 106, 107, 108, 109} {
		t.Fatalf("unexpected red picks: %v", red.ChampionPicks)
	}
	if blue.DragonKills != 3 || red.BaronKills != 1 {
		t.Fatalf("unexpected objectives: %+v %+v", blue, red)
	}

	if len(records.Players) != 10 {
		t.Fatalf("unexpected player count: %d", len(records.Players))
	}
	p0 := records.Players[0]
	if p0.TierRank != "CHALLENGER I" || records.Players[1].TierRank != match.Missing {
		t.Fatalf("unexpected tier ranks: %q %q", p0.TierRank, records.Players[1].TierRank)
	}
	if p0.TeamID != 100 || records.Players[6].TeamID != 200 {
		t.Fatalf("unexpected team assignment")
	}
	if p0.GameStartTimestamp != 1_700_000_000 {
		t.Fatalf("unexpected player start: %d", p0.GameStartTimestamp)
	}
	if records.Players[9].IndividualPosition != match.PositionInvalid {
		t.Fatalf("empty position should be Invalid, got %q", records.Players[9].IndividualPosition)
	}
	if records.Players[3].TotalNeutralMinionsKilled != 10 {
		t.Fatalf("unexpected neutral minions: %d", records.Players[3].TotalNeutralMinionsKilled)
	}
	if p0.Perks.RuneIDs() != [6]int{8005, 9111, 9104, 8299, 8444, 8451} {
		t.Fatalf("unexpected runes: %v", p0.Perks.RuneIDs())
	}
	if p0.Enrichment.Done() {
		t.Fatalf("new rows must not be enriched")
	}
}

func TestRecordNormalizer_MissingPerksDefaultToUnavailable(t *testing.T) {
	raw := newRawMatch("BR1_101", "14.20.1", time.Now())
	raw.Info.Participants[0].Perks.Styles = raw.Info.Participants[0].Perks.Styles[:1]
	raw.Info.Participants[0].Perks.Styles[0].Selections = raw.Info.Participants[0].Perks.Styles[0].Selections[:2]

	records, err := NewRecordNormalizer().Normalize(t.Context(), NormalizeInput{Payload: raw})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	perks := records.Players[0].Perks
	if perks.PrimaryRow2 != -1 || perks.PrimaryRow3 != -1 || perks.SecondaryRow1 != -1 || perks.SecondaryStyle != -1 {
		t.Fatalf("missing selections should be -1: %+v", perks)
	}
	if records.Match.CompRiskScore != nil {
		t.Fatalf("composition should stay nil without a scorer")
	}
}

func TestRecordNormalizer_RejectsMalformedPayload(t *testing.T) {
	n := NewRecordNormalizer()

	short := newRawMatch("BR1_102", "14.20.1", time.Now())
	short.Info.Participants = short.Info.Participants[:9]
	if _, err := n.Normalize(t.Context(), NormalizeInput{Payload: short}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for nine participants, got %v", err)
	}

	reversed := newRawMatch("BR1_104", "14.20.1", time.Now())
	reversed.Info.GameEndTimestamp = reversed.Info.GameStartTimestamp - 1
	if err := n.Validate(t.Context(), reversed); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for end before start, got %v", err)
	}
}

func TestRecordNormalizer_FirstFlagsFallToRedWhenUnreported(t *testing.T) {
	raw := newRawMatch("BR1_105", "14.20.1", time.Now())
	for i := range raw.Info.Participants {
		raw.Info.Participants[i].FirstTowerKill = false
		raw.Info.Participants[i].FirstBloodKill = false
	}

	records, err := NewRecordNormalizer().Normalize(t.Context(), NormalizeInput{Payload: raw})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	blue, red := records.Teams[0], records.Teams[1]
	if blue.FirstTower || !red.FirstTower {
		t.Fatalf("first tower should fall to red: blue=%v red=%v", blue.FirstTower, red.FirstTower)
	}
	if blue.FirstKill || !red.FirstKill {
		t.Fatalf("first kill should fall to red: blue=%v red=%v", blue.FirstKill, red.FirstKill)
	}
}

func TestRecordNormalizer_KeepsWinFlagsOfUnfinishedGames(t *testing.T) {
	n := NewRecordNormalizer()

	remake := newRawMatch("BR1_106", "14.20.1", time.Now())
	remake.Info.EndOfGameResult = "Abort_Unexpected"
	remake.Info.Teams[0].Win = false
	if HasSingleWinner(remake) {
		t.Fatalf("expected no single winner")
	}
	records, err := n.Normalize(t.Context(), NormalizeInput{Payload: remake})
	if err != nil {
		t.Fatalf("normalize remake: %v", err)
	}
	if records.Teams[0].Win || records.Teams[1].Win {
		t.Fatalf("win flags should be kept as reported: %+v", records.Teams)
	}
	if records.Match.EndOfGameResult != "Abort_Unexpected" {
		t.Fatalf("unexpected end result: %q", records.Match.EndOfGameResult)
	}

	twoWinners := newRawMatch("BR1_107", "14.20.1", time.Now())
	twoWinners.Info.Teams[1].Win = true
	if HasSingleWinner(twoWinners) {
		t.Fatalf("expected no single winner")
	}
	if _, err := n.Normalize(t.Context(), NormalizeInput{Payload: twoWinners}); err != nil {
		t.Fatalf("normalize two winners: %v", err)
	}
	if !HasSingleWinner(newRawMatch("BR1_108", "14.20.1", time.Now())) {
		t.Fatalf("expected a single winner")
	}
}

func TestTierRankFromEntries(t *testing.T) {
	entries := []RawRankEntry{
		{QueueType: "RANKED_FLEX_SR", Tier: "GOLD", Rank: "II"},
		{QueueType: "RANKED_SOLO_5x5", Tier: "MASTER", Rank: "I"},
	}
	if got := TierRankFromEntries(entries); got != "MASTER I" {
		t.Fatalf("unexpected tier rank: %q", got)
	}
	if got := TierRankFromEntries(entries[:1]); got != match.Missing {
		t.Fatalf("expected Missing without solo entry, got %q", got)
	}
}
