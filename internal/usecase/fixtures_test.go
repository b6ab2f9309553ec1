package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"
)

var positionsBySlot = []string{"TOP", "JUNGLE", "MIDDLE", "BOTTOM", "UTILITY"}

// newRawMatch builds a valid ten-player payload where the blue side wins.
func newRawMatch(matchID, version string, start time.Time) RawMatch {
	startMs := start.UnixMilli()
	raw := RawMatch{
		Metadata: RawMatchMetadata{MatchID: matchID},
		Info: RawMatchInfo{
			EndOfGameResult:    "GameComplete",
			GameStartTimestamp: startMs,
			GameEndTimestamp:   startMs + 1_800_000,
			GameVersion:        version,
			QueueID:            420,
			Teams: []RawTeam{
				{TeamID: 100, Win: true, Bans: []RawBan{{ChampionID: 1}, {ChampionID: 2}, {ChampionID: 3}, {ChampionID: 4}, {ChampionID: 5}}},
				{TeamID: 200, Win: false, Bans: []RawBan{{ChampionID: 6}, {ChampionID: 7}}},
			},
		},
	}
	raw.Info.Teams[0].Objectives.Dragon.Kills = 3
	raw.Info.Teams[1].Objectives.Baron.Kills = 1

	for i := 0; i < 10; i++ {
		puuid := fmt.Sprintf("%s-p%d", matchID, i)
		teamID, win := 100, true
		if i >= 5 {
			teamID, win = 200, false
		}
		raw.Metadata.Participants = append(raw.Metadata.Participants, puuid)
		raw.Info.Participants = append(raw.Info.Participants, RawParticipant{
			PUUID:              puuid,
			ParticipantID:      i + 1,
			TeamID:             teamID,
			IndividualPosition: positionsBySlot[i%5],
			TeamPosition:       positionsBySlot[i%5],
			Win:                win,
			ChampionID:         100 + i,
			ChampionName:       fmt.Sprintf("Champ%d", i),
			Kills:              i,
			Deaths:             1,
			Assists:            2,
			GoldEarned:         1000,
			Perks: RawPerks{
				StatPerks: RawStatPerks{Defense: 5001, Flex: 5008, Offense: 5005},
				Styles: []RawPerkStyle{
					{Description: "primaryStyle", Style: 8000, Selections: []RawPerkSelection{{Perk: 8005}, {Perk: 9111}, {Perk: 9104}, {Perk: 8299}}},
					{Description: "subStyle", Style: 8400, Selections: []RawPerkSelection{{Perk: 8444}, {Perk: 8451}}},
				},
			},
			Challenges: RawChallenges{KDA: 3.5},
		})
	}
	return raw
}

type stubMatchProvider struct {
	mu sync.Mutex

	recent       map[string][]string
	recentErr    map[string]error
	matches      map[string]RawMatch
	matchErr     map[string][]error
	ranks        map[string][]RawRankEntry
	rankErr      error
	masteries    map[string][]RawMastery
	masteryErr   map[string]error
	standings    map[string][]RawLeagueEntry
	standingsErr error

	matchCalls   map[string]int
	masteryCalls []string
}

func newStubMatchProvider() *stubMatchProvider {
	return &stubMatchProvider{
		recent:     make(map[string][]string),
		recentErr:  make(map[string]error),
		matches:    make(map[string]RawMatch),
		matchErr:   make(map[string][]error),
		ranks:      make(map[string][]RawRankEntry),
		masteries:  make(map[string][]RawMastery),
		masteryErr: make(map[string]error),
		standings:  make(map[string][]RawLeagueEntry),
		matchCalls: make(map[string]int),
	}
}

func (p *stubMatchProvider) ListRecentMatches(_ context.Context, puuid string, _, count int) ([]string, error) {
	if err := p.recentErr[puuid]; err != nil {
		return nil, err
	}
	ids := p.recent[puuid]
	if len(ids) > count {
		ids = ids[:count]
	}
	return ids, nil
}

// GetMatch pops queued errors before serving the stored payload.
func (p *stubMatchProvider) GetMatch(_ context.Context, matchID string) (RawMatch, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.matchCalls[matchID]++
	if errs := p.matchErr[matchID]; len(errs) > 0 {
		p.matchErr[matchID] = errs[1:]
		return RawMatch{}, errs[0]
	}
	raw, ok := p.matches[matchID]
	if !ok {
		return RawMatch{}, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}
	return raw, nil
}

func (p *stubMatchProvider) GetRankEntries(_ context.Context, puuid string) ([]RawRankEntry, error) {
	if p.rankErr != nil {
		return nil, p.rankErr
	}
	return p.ranks[puuid], nil
}

func (p *stubMatchProvider) GetChampionMastery(_ context.Context, puuid string) ([]RawMastery, error) {
	p.mu.Lock()
	p.masteryCalls = append(p.masteryCalls, puuid)
	p.mu.Unlock()

	if err := p.masteryErr[puuid]; err != nil {
		return nil, err
	}
	return p.masteries[puuid], nil
}

func (p *stubMatchProvider) GetLeagueStandings(_ context.Context, _ string, tier string) ([]RawLeagueEntry, error) {
	if p.standingsErr != nil {
		return nil, p.standingsErr
	}
	return p.standings[tier], nil
}

type stubScorer struct {
	score CompositionScore
	err   error
}

func (s stubScorer) CompositionScore(_ context.Context, championIDs []int) (CompositionScore, error) {
	if s.err != nil {
		return CompositionScore{}, s.err
	}
	if len(championIDs) != 10 {
		return CompositionScore{}, ErrInvalidComposition
	}
	return s.score, nil
}
