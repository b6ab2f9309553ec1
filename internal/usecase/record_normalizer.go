package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/lol-dataset/internal/domain/match"
)

const (
	rankedSoloQueue   = "RANKED_SOLO_5x5"
	participantsTotal = 10
	participantsSide  = 5
)

// NormalizeInput carries one raw match plus the side lookups resolved for it.
type NormalizeInput struct {
	Payload RawMatch
	// TierRanks maps puuid to "TIER DIVISION"; absent players become "Missing".
	TierRanks map[string]string
	// Composition is nil when no analyzer is configured.
	Composition *CompositionScore
}

// RecordNormalizer turns raw match payloads into Match, Team and PlayerMatch records.
type RecordNormalizer struct {
	validate *validator.Validate
}

func NewRecordNormalizer() *RecordNormalizer {
	return &RecordNormalizer{validate: validator.New()}
}

// Validate checks the structural assumptions Normalize relies on. Win flags are not
// checked: remade and aborted games are stored as reported.
func (n *RecordNormalizer) Validate(ctx context.Context, payload RawMatch) error {
	if err := n.validate.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: match payload: %v", ErrInvalidInput, err)
	}
	return nil
}

// HasSingleWinner reports whether exactly one side is flagged as the winner.
func HasSingleWinner(payload RawMatch) bool {
	if len(payload.Info.Teams) != 2 {
		return false
	}
	return payload.Info.Teams[0].Win != payload.Info.Teams[1].Win
}

// Normalize maps a validated payload. Missing optional values become -1 or "Missing".
func (n *RecordNormalizer) Normalize(ctx context.Context, in NormalizeInput) (match.Records, error) {
	if err := n.Validate(ctx, in.Payload); err != nil {
		return match.Records{}, err
	}

	meta := in.Payload.Metadata
	info := in.Payload.Info

	out := match.Records{
		Match: match.Match{
			MatchID:                   meta.MatchID,
			Participants:              append([]string(nil), meta.Participants...),
			EndOfGameResult:           info.EndOfGameResult,
			GameVersion:               info.GameVersion,
			GameStartTimestamp:        info.GameStartTimestamp / 1000,
			GameEndTimestamp:          info.GameEndTimestamp / 1000,
			TimePlayed:                float64(info.GameEndTimestamp-info.GameStartTimestamp) / 1000,
			GameEndedInSurrender:      info.Participants[0].GameEndedInSurrender,
			GameEndedInEarlySurrender: info.Participants[0].GameEndedInEarlySurrender,
		},
	}
	if in.Composition != nil {
		risk, winRate := in.Composition.Risk, in.Composition.WinRate
		out.Match.CompRiskScore = &risk
		out.Match.CompWinRate = &winRate
	}

	firstTower, firstKill := false, false
	for _, p := range info.Participants[:participantsSide] {
		firstTower = firstTower || p.FirstTowerKill
		firstKill = firstKill || p.FirstBloodKill
	}

	for side := 0; side < 2; side++ {
		raw := info.Teams[side]
		team := match.Team{
			MatchID:         meta.MatchID,
			TeamID:          raw.TeamID,
			Win:             raw.Win,
			BaronKills:      raw.Objectives.Baron.Kills,
			DragonKills:     raw.Objectives.Dragon.Kills,
			RiftHeraldKills: raw.Objectives.RiftHerald.Kills,
			TowerKills:      raw.Objectives.Tower.Kills,
			InhibitorKills:  raw.Objectives.Inhibitor.Kills,
			ChampionKills:   raw.Objectives.Champion.Kills,
			// The first side holds the flag when any of its players reports it; otherwise the second side does.
			FirstTower: firstTower == (side == 0),
			FirstKill:  firstKill == (side == 0),
		}
		for slot := 0; slot < participantsSide; slot++ {
			team.ChampionPicks[slot] = info.Participants[side*participantsSide+slot].ChampionID
			team.ChampionBans[slot] = match.Unavailable
			if slot < len(raw.Bans) {
				team.ChampionBans[slot] = raw.Bans[slot].ChampionID
			}
		}
		out.Teams[side] = team
	}

	out.Players = make([]match.PlayerMatch, 0, participantsTotal)
	for i, puuid := range meta.Participants {
		teamID := out.Teams[0].TeamID
		if i >= participantsSide {
			teamID = out.Teams[1].TeamID
		}
		tierRank, ok := in.TierRanks[puuid]
		if !ok || strings.TrimSpace(tierRank) == "" {
			tierRank = match.Missing
		}
		out.Players = append(out.Players, normalizeParticipant(meta.MatchID, puuid, teamID, tierRank, info.GameStartTimestamp/1000, info.Participants[i]))
	}

	return out, nil
}

// TierRankFromEntries returns "TIER DIVISION" of the solo queue entry, or "Missing".
func TierRankFromEntries(entries []RawRankEntry) string {
	for _, entry := range entries {
		if entry.QueueType == rankedSoloQueue {
			return entry.Tier + " " + entry.Rank
		}
	}
	return match.Missing
}

// CompositionChampions lists the ten picks in participant order.
func CompositionChampions(payload RawMatch) []int {
	out := make([]int, 0, len(payload.Info.Participants))
	for _, p := range payload.Info.Participants {
		out = append(out, p.ChampionID)
	}
	return out
}

func normalizeParticipant(matchID, puuid string, teamID int, tierRank string, startedAt int64, p RawParticipant) match.PlayerMatch {
	return match.PlayerMatch{
		PUUID:              puuid,
		MatchID:            matchID,
		GameStartTimestamp: startedAt,
		ParticipantID:      p.ParticipantID,
		TeamID:             teamID,
		SummonerID:         p.SummonerID,
		SummonerLevel:      p.SummonerLevel,
		TierRank:           tierRank,
		IndividualPosition: normalizePosition(p.IndividualPosition),
		TeamPosition:       p.TeamPosition,
		Win:                p.Win,

		Champion:        p.ChampionName,
		ChampionID:      p.ChampionID,
		ChampLevel:      p.ChampLevel,
		ChampExperience: p.ChampExperience,

		Kills:       p.Kills,
		Deaths:      p.Deaths,
		Assists:     p.Assists,
		KDA:         p.Challenges.KDA,
		DoubleKills: p.DoubleKills,
		TripleKills: p.TripleKills,
		QuadraKills: p.QuadraKills,
		PentaKills:  p.PentaKills,

		FirstBloodKill: p.FirstBloodKill,
		FirstTowerKill: p.FirstTowerKill,

		Perks: normalizePerks(p.Perks),
		Items: [7]int{p.Item0, p.Item1, p.Item2, p.Item3, p.Item4, p.Item5, p.Item6},

		ItemsPurchased:       p.ItemsPurchased,
		ConsumablesPurchased: p.ConsumablesPurchased,
		GoldEarned:           p.GoldEarned,
		GoldSpent:            p.GoldSpent,

		Pings: match.Pings{
			AllIn:         p.AllInPings,
			AssistMe:      p.AssistMePings,
			Basic:         p.BasicPings,
			Command:       p.CommandPings,
			Danger:        p.DangerPings,
			EnemyMissing:  p.EnemyMissingPings,
			EnemyVision:   p.EnemyVisionPings,
			GetBack:       p.GetBackPings,
			NeedVision:    p.NeedVisionPings,
			OnMyWay:       p.OnMyWayPings,
			Push:          p.PushPings,
			VisionCleared: p.VisionClearedPings,
		},

		DamageDealtToBuildings:         p.DamageDealtToBuildings,
		DamageDealtToObjectives:        p.DamageDealtToObjectives,
		DamageDealtToTurrets:           p.DamageDealtToTurrets,
		DamageSelfMitigated:            p.DamageSelfMitigated,
		MagicDamageDealt:               p.MagicDamageDealt,
		MagicDamageDealtToChampions:    p.MagicDamageDealtToChampions,
		MagicDamageTaken:               p.MagicDamageTaken,
		PhysicalDamageDealt:            p.PhysicalDamageDealt,
		PhysicalDamageDealtToChampions: p.PhysicalDamageDealtToChampions,
		PhysicalDamageTaken:            p.PhysicalDamageTaken,
		TrueDamageDealt:                p.TrueDamageDealt,
		TrueDamageDealtToChampions:     p.TrueDamageDealtToChampions,
		TrueDamageTaken:                p.TrueDamageTaken,
		TotalDamageDealt:               p.TotalDamageDealt,
		TotalDamageDealtToChampions:    p.TotalDamageDealtToChampions,
		TotalDamageTaken:               p.TotalDamageTaken,
		TotalDamageShieldedOnTeammates: p.TotalDamageShieldedOnTeammates,
		TotalHeal:                      p.TotalHeal,
		TotalHealsOnTeammates:          p.TotalHealsOnTeammates,
		TotalUnitsHealed:               p.TotalUnitsHealed,
		TimeCCingOthers:                p.TimeCCingOthers,
		TotalTimeCCDealt:               p.TotalTimeCCDealt,
		TotalTimeSpentDead:             p.TotalTimeSpentDead,
		LongestTimeSpentLiving:         p.LongestTimeSpentLiving,

		TotalMinionsKilled:        p.TotalMinionsKilled,
		TotalNeutralMinionsKilled: p.TotalAllyJungleMinionsKilled + p.TotalEnemyJungleMinionsKilled,

		Spell1Casts: p.Spell1Casts,
		Spell2Casts: p.Spell2Casts,
		Spell3Casts: p.Spell3Casts,
		Spell4Casts: p.Spell4Casts,

		SightWardsBoughtInGame:  p.SightWardsBoughtInGame,
		VisionWardsBoughtInGame: p.VisionWardsBoughtInGame,
		DetectorWardsPlaced:     p.DetectorWardsPlaced,
		WardsPlaced:             p.WardsPlaced,
		WardsKilled:             p.WardsKilled,
		VisionScore:             p.VisionScore,

		DamagePerMinute:             p.Challenges.DamagePerMinute,
		DamageTakenOnTeamPercentage: p.Challenges.DamageTakenOnTeamPercentage,
		GoldPerMinute:               p.Challenges.GoldPerMinute,
		VisionScorePerMinute:        p.Challenges.VisionScorePerMinute,
	}
}

func normalizePerks(raw RawPerks) match.Perks {
	primary := perkStyle(raw.Styles, 0)
	secondary := perkStyle(raw.Styles, 1)
	return match.Perks{
		Keystone:       perkSelection(primary, 0),
		PrimaryRow1:    perkSelection(primary, 1),
		PrimaryRow2:    perkSelection(primary, 2),
		PrimaryRow3:    perkSelection(primary, 3),
		PrimaryStyle:   primary.Style,
		SecondaryRow1:  perkSelection(secondary, 0),
		SecondaryRow2:  perkSelection(secondary, 1),
		SecondaryStyle: secondary.Style,
		ShardDefense:   raw.StatPerks.Defense,
		ShardFlex:      raw.StatPerks.Flex,
		ShardOffense:   raw.StatPerks.Offense,
	}
}

func perkStyle(styles []RawPerkStyle, idx int) RawPerkStyle {
	if idx < len(styles) {
		return styles[idx]
	}
	return RawPerkStyle{Style: match.Unavailable}
}

func perkSelection(style RawPerkStyle, idx int) int {
	if idx < len(style.Selections) {
		return style.Selections[idx].Perk
	}
	return match.Unavailable
}

// normalizePosition maps an empty individual position to "Invalid", the value the provider uses for unresolved roles.
func normalizePosition(position string) string {
	position = strings.TrimSpace(position)
	if position == "" {
		return match.PositionInvalid
	}
	return position
}
