package sqldb

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/riskibarqy/lol-dataset/internal/domain/match"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type matchTableModel struct {
	MatchID                   string   `db:"match_id"`
	Participants              string   `db:"participants"`
	EndOfGameResult           string   `db:"end_of_game_result"`
	GameVersion               string   `db:"game_version"`
	GameStartTimestamp        int64    `db:"game_start_timestamp"`
	GameEndTimestamp          int64    `db:"game_end_timestamp"`
	TimePlayed                float64  `db:"time_played"`
	GameEndedInSurrender      bool     `db:"game_ended_in_surrender"`
	GameEndedInEarlySurrender bool     `db:"game_ended_in_early_surrender"`
	CompRiskScore             *float64 `db:"comp_risk_score"`
	CompWinRate               *float64 `db:"comp_win_rate"`
}

type teamTableModel struct {
	MatchID         string `db:"match_id"`
	TeamID          int    `db:"team_id"`
	Win             bool   `db:"win"`
	ChampionPick1   int    `db:"champion_pick_1"`
	ChampionPick2   int    `db:"champion_pick_2"`
	ChampionPick3   int    `db:"champion_pick_3"`
	ChampionPick4   int    `db:"champion_pick_4"`
	ChampionPick5   int    `db:"champion_pick_5"`
	ChampionBan1    int    `db:"champion_ban_1"`
	ChampionBan2    int    `db:"champion_ban_2"`
	ChampionBan3    int    `db:"champion_ban_3"`
	ChampionBan4    int    `db:"champion_ban_4"`
	ChampionBan5    int    `db:"champion_ban_5"`
	BaronKills      int    `db:"baron_kills"`
	DragonKills     int    `db:"dragon_kills"`
	RiftHeraldKills int    `db:"rift_herald_kills"`
	TowerKills      int    `db:"tower_kills"`
	InhibitorKills  int    `db:"inhibitor_kills"`
	ChampionKills   int    `db:"champion_kills"`
	FirstTower      bool   `db:"first_tower"`
	FirstKill       bool   `db:"first_kill"`
}

type playerMatchTableModel struct {
	PUUID              string `db:"puuid"`
	MatchID            string `db:"match_id"`
	GameStartTimestamp int64  `db:"game_start_timestamp"`
	ParticipantID      int    `db:"participant_id"`
	TeamID             int    `db:"team_id"`
	SummonerID         string `db:"summoner_id"`
	SummonerLevel      int    `db:"summoner_level"`
	TierRank           string `db:"tier_rank"`
	IndividualPosition string `db:"individual_position"`
	TeamPosition       string `db:"team_position"`
	Win                bool   `db:"win"`

	Champion        string `db:"champion"`
	ChampionID      int    `db:"champion_id"`
	ChampLevel      int    `db:"champ_level"`
	ChampExperience int    `db:"champ_experience"`

	Kills       int     `db:"kills"`
	Deaths      int     `db:"deaths"`
	Assists     int     `db:"assists"`
	KDA         float64 `db:"kda"`
	DoubleKills int     `db:"double_kills"`
	TripleKills int     `db:"triple_kills"`
	QuadraKills int     `db:"quadra_kills"`
	PentaKills  int     `db:"penta_kills"`

	FirstBloodKill bool `db:"first_blood_kill"`
	FirstTowerKill bool `db:"first_tower_kill"`

	Keystone       int `db:"keystone"`
	PrimaryRow1    int `db:"primary_row_1"`
	PrimaryRow2    int `db:"primary_row_2"`
	PrimaryRow3    int `db:"primary_row_3"`
	PrimaryStyle   int `db:"primary_style"`
	SecondaryRow1  int `db:"secondary_row_1"`
	SecondaryRow2  int `db:"secondary_row_2"`
	SecondaryStyle int `db:"secondary_style"`
	ShardDefense   int `db:"shard_defense"`
	ShardFlex      int `db:"shard_flex"`
	ShardOffense   int `db:"shard_offense"`

	Item0 int `db:"item_0"`
	Item1 int `db:"item_1"`
	Item2 int `db:"item_2"`
	Item3 int `db:"item_3"`
	Item4 int `db:"item_4"`
	Item5 int `db:"item_5"`
	Item6 int `db:"item_6"`

	ItemsPurchased       int `db:"items_purchased"`
	ConsumablesPurchased int `db:"consumables_purchased"`
	GoldEarned           int `db:"gold_earned"`
	GoldSpent            int `db:"gold_spent"`

	AllInPings         int `db:"all_in_pings"`
	AssistMePings      int `db:"assist_me_pings"`
	BasicPings         int `db:"basic_pings"`
	CommandPings       int `db:"command_pings"`
	DangerPings        int `db:"danger_pings"`
	EnemyMissingPings  int `db:"enemy_missing_pings"`
	EnemyVisionPings   int `db:"enemy_vision_pings"`
	GetBackPings       int `db:"get_back_pings"`
	NeedVisionPings    int `db:"need_vision_pings"`
	OnMyWayPings       int `db:"on_my_way_pings"`
	PushPings          int `db:"push_pings"`
	VisionClearedPings int `db:"vision_cleared_pings"`

	DamageDealtToBuildings         int `db:"damage_dealt_to_buildings"`
	DamageDealtToObjectives        int `db:"damage_dealt_to_objectives"`
	DamageDealtToTurrets           int `db:"damage_dealt_to_turrets"`
	DamageSelfMitigated            int `db:"damage_self_mitigated"`
	MagicDamageDealt               int `db:"magic_damage_dealt"`
	MagicDamageDealtToChampions    int `db:"magic_damage_dealt_to_champions"`
	MagicDamageTaken               int `db:"magic_damage_taken"`
	PhysicalDamageDealt            int `db:"physical_damage_dealt"`
	PhysicalDamageDealtToChampions int `db:"physical_damage_dealt_to_champions"`
	PhysicalDamageTaken            int `db:"physical_damage_taken"`
	TrueDamageDealt                int `db:"true_damage_dealt"`
	TrueDamageDealtToChampions     int `db:"true_damage_dealt_to_champions"`
	TrueDamageTaken                int `db:"true_damage_taken"`
	TotalDamageDealt               int `db:"total_damage_dealt"`
	TotalDamageDealtToChampions    int `db:"total_damage_dealt_to_champions"`
	TotalDamageTaken               int `db:"total_damage_taken"`
	TotalDamageShieldedOnTeammates int `db:"total_damage_shielded_on_teammates"`
	TotalHeal                      int `db:"total_heal"`
	TotalHealsOnTeammates          int `db:"total_heals_on_teammates"`
	TotalUnitsHealed               int `db:"total_units_healed"`
	TimeCCingOthers                int `db:"time_ccing_others"`
	TotalTimeCCDealt               int `db:"total_time_cc_dealt"`
	TotalTimeSpentDead             int `db:"total_time_spent_dead"`
	LongestTimeSpentLiving         int `db:"longest_time_spent_living"`

	TotalMinionsKilled        int `db:"total_minions_killed"`
	TotalNeutralMinionsKilled int `db:"total_neutral_minions_killed"`

	Spell1Casts int `db:"spell1_casts"`
	Spell2Casts int `db:"spell2_casts"`
	Spell3Casts int `db:"spell3_casts"`
	Spell4Casts int `db:"spell4_casts"`

	SightWardsBoughtInGame  int `db:"sight_wards_bought_in_game"`
	VisionWardsBoughtInGame int `db:"vision_wards_bought_in_game"`
	DetectorWardsPlaced     int `db:"detector_wards_placed"`
	WardsPlaced             int `db:"wards_placed"`
	WardsKilled             int `db:"wards_killed"`
	VisionScore             int `db:"vision_score"`

	DamagePerMinute             float64 `db:"damage_per_minute"`
	DamageTakenOnTeamPercentage float64 `db:"damage_taken_on_team_percentage"`
	GoldPerMinute               float64 `db:"gold_per_minute"`
	VisionScorePerMinute        float64 `db:"vision_score_per_minute"`

	ChampionLevel    *int64   `db:"champion_level"`
	ChampionPoints   *int64   `db:"champion_points"`
	RuneWinRate      *float64 `db:"rune_win_rate"`
	RunePickRate     *float64 `db:"rune_pick_rate"`
	ChampionWinRate  *float64 `db:"champion_win_rate"`
	ChampionPickRate *float64 `db:"champion_pick_rate"`
}

// playerMatchEnrichmentModel is the update shape for the enrichment columns.
type playerMatchEnrichmentModel struct {
	PUUID            string   `db:"puuid"`
	MatchID          string   `db:"match_id"`
	ChampionLevel    *int64   `db:"champion_level"`
	ChampionPoints   *int64   `db:"champion_points"`
	RuneWinRate      *float64 `db:"rune_win_rate"`
	RunePickRate     *float64 `db:"rune_pick_rate"`
	ChampionWinRate  *float64 `db:"champion_win_rate"`
	ChampionPickRate *float64 `db:"champion_pick_rate"`
}

func toMatchModel(m match.Match) (matchTableModel, error) {
	participants, err := json.MarshalToString(m.Participants)
	if err != nil {
		return matchTableModel{}, err
	}
	return matchTableModel{
		MatchID:                   m.MatchID,
		Participants:              participants,
		EndOfGameResult:           m.EndOfGameResult,
		GameVersion:               m.GameVersion,
		GameStartTimestamp:        m.GameStartTimestamp,
		GameEndTimestamp:          m.GameEndTimestamp,
		TimePlayed:                m.TimePlayed,
		GameEndedInSurrender:      m.GameEndedInSurrender,
		GameEndedInEarlySurrender: m.GameEndedInEarlySurrender,
		CompRiskScore:             m.CompRiskScore,
		CompWinRate:               m.CompWinRate,
	}, nil
}

func (row matchTableModel) toDomain() (match.Match, error) {
	var participants []string
	if row.Participants != "" {
		if err := json.UnmarshalFromString(row.Participants, &participants); err != nil {
			return match.Match{}, err
		}
	}
	return match.Match{
		MatchID:                   row.MatchID,
		Participants:              participants,
		EndOfGameResult:           row.EndOfGameResult,
		GameVersion:               row.GameVersion,
		GameStartTimestamp:        row.GameStartTimestamp,
		GameEndTimestamp:          row.GameEndTimestamp,
		TimePlayed:                row.TimePlayed,
		GameEndedInSurrender:      row.GameEndedInSurrender,
		GameEndedInEarlySurrender: row.GameEndedInEarlySurrender,
		CompRiskScore:             row.CompRiskScore,
		CompWinRate:               row.CompWinRate,
	}, nil
}

func toTeamModel(t match.Team) teamTableModel {
	return teamTableModel{
		MatchID:         t.MatchID,
		TeamID:          t.TeamID,
		Win:             t.Win,
		ChampionPick1:   t.ChampionPicks[0],
		ChampionPick2:   t.ChampionPicks[1],
		ChampionPick3:   t.ChampionPicks[2],
		ChampionPick4:   t.ChampionPicks[3],
		ChampionPick5:   t.ChampionPicks[4],
		ChampionBan1:    t.ChampionBans[0],
		ChampionBan2:    t.ChampionBans[1],
		ChampionBan3:    t.ChampionBans[2],
		ChampionBan4:    t.ChampionBans[3],
		ChampionBan5:    t.ChampionBans[4],
		BaronKills:      t.BaronKills,
		DragonKills:     t.DragonKills,
		RiftHeraldKills: t.RiftHeraldKills,
		TowerKills:      t.TowerKills,
		InhibitorKills:  t.InhibitorKills,
		ChampionKills:   t.ChampionKills,
		FirstTower:      t.FirstTower,
		FirstKill:       t.FirstKill,
	}
}

func (row teamTableModel) toDomain() match.Team {
	return match.Team{
		MatchID:         row.MatchID,
		TeamID:          row.TeamID,
		Win:             row.Win,
		ChampionPicks:   [5]int{row.ChampionPick1, row.ChampionPick2, row.ChampionPick3, row.ChampionPick4, row.ChampionPick5},
		ChampionBans:    [5]int{row.ChampionBan1, row.ChampionBan2, row.ChampionBan3, row.ChampionBan4, row.ChampionBan5},
		BaronKills:      row.BaronKills,
		DragonKills:     row.DragonKills,
		RiftHeraldKills: row.RiftHeraldKills,
		TowerKills:      row.TowerKills,
		InhibitorKills:  row.InhibitorKills,
		ChampionKills:   row.ChampionKills,
		FirstTower:      row.FirstTower,
		FirstKill:       row.FirstKill,
	}
}

func toPlayerMatchModel(p match.PlayerMatch) playerMatchTableModel {
	return playerMatchTableModel{
		PUUID:              p.PUUID,
		MatchID:            p.MatchID,
		GameStartTimestamp: p.GameStartTimestamp,
		ParticipantID:      p.ParticipantID,
		TeamID:             p.TeamID,
		SummonerID:         p.SummonerID,
		SummonerLevel:      p.SummonerLevel,
		TierRank:           p.TierRank,
		IndividualPosition: p.IndividualPosition,
		TeamPosition:       p.TeamPosition,
		Win:                p.Win,

		Champion:        p.Champion,
		ChampionID:      p.ChampionID,
		ChampLevel:      p.ChampLevel,
		ChampExperience: p.ChampExperience,

		Kills:       p.Kills,
		Deaths:      p.Deaths,
		Assists:     p.Assists,
		KDA:         p.KDA,
		DoubleKills: p.DoubleKills,
		TripleKills: p.TripleKills,
		QuadraKills: p.QuadraKills,
		PentaKills:  p.PentaKills,

		FirstBloodKill: p.FirstBloodKill,
		FirstTowerKill: p.FirstTowerKill,

		Keystone:       p.Perks.Keystone,
		PrimaryRow1:    p.Perks.PrimaryRow1,
		PrimaryRow2:    p.Perks.PrimaryRow2,
		PrimaryRow3:    p.Perks.PrimaryRow3,
		PrimaryStyle:   p.Perks.PrimaryStyle,
		SecondaryRow1:  p.Perks.SecondaryRow1,
		SecondaryRow2:  p.Perks.SecondaryRow2,
		SecondaryStyle: p.Perks.SecondaryStyle,
		ShardDefense:   p.Perks.ShardDefense,
		ShardFlex:      p.Perks.ShardFlex,
		ShardOffense:   p.Perks.ShardOffense,

		Item0: p.Items[0],
		Item1: p.Items[1],
		Item2: p.Items[2],
		Item3: p.Items[3],
		Item4: p.Items[4],
		Item5: p.Items[5],
		Item6: p.Items[6],

		ItemsPurchased:       p.ItemsPurchased,
		ConsumablesPurchased: p.ConsumablesPurchased,
		GoldEarned:           p.GoldEarned,
		GoldSpent:            p.GoldSpent,

		AllInPings:         p.Pings.AllIn,
		AssistMePings:      p.Pings.AssistMe,
		BasicPings:         p.Pings.Basic,
		CommandPings:       p.Pings.Command,
		DangerPings:        p.Pings.Danger,
		EnemyMissingPings:  p.Pings.EnemyMissing,
		EnemyVisionPings:   p.Pings.EnemyVision,
		GetBackPings:       p.Pings.GetBack,
		NeedVisionPings:    p.Pings.NeedVision,
		OnMyWayPings:       p.Pings.OnMyWay,
		PushPings:          p.Pings.Push,
		VisionClearedPings: p.Pings.VisionCleared,

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
		TotalNeutralMinionsKilled: p.TotalNeutralMinionsKilled,

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

		DamagePerMinute:             p.DamagePerMinute,
		DamageTakenOnTeamPercentage: p.DamageTakenOnTeamPercentage,
		GoldPerMinute:               p.GoldPerMinute,
		VisionScorePerMinute:        p.VisionScorePerMinute,

		ChampionLevel:    p.Enrichment.ChampionLevel,
		ChampionPoints:   p.Enrichment.ChampionPoints,
		RuneWinRate:      p.Enrichment.RuneWinRate,
		RunePickRate:     p.Enrichment.RunePickRate,
		ChampionWinRate:  p.Enrichment.ChampionWinRate,
		ChampionPickRate: p.Enrichment.ChampionPickRate,
	}
}

func (row playerMatchTableModel) toDomain() match.PlayerMatch {
	return match.PlayerMatch{
		PUUID:              row.PUUID,
		MatchID:            row.MatchID,
		GameStartTimestamp: row.GameStartTimestamp,
		ParticipantID:      row.ParticipantID,
		TeamID:             row.TeamID,
		SummonerID:         row.SummonerID,
		SummonerLevel:      row.SummonerLevel,
		TierRank:           row.TierRank,
		IndividualPosition: row.IndividualPosition,
		TeamPosition:       row.TeamPosition,
		Win:                row.Win,

		Champion:        row.Champion,
		ChampionID:      row.ChampionID,
		ChampLevel:      row.ChampLevel,
		ChampExperience: row.ChampExperience,

		Kills:       row.Kills,
		Deaths:      row.Deaths,
		Assists:     row.Assists,
		KDA:         row.KDA,
		DoubleKills: row.DoubleKills,
		TripleKills: row.TripleKills,
		QuadraKills: row.QuadraKills,
		PentaKills:  row.PentaKills,

		FirstBloodKill: row.FirstBloodKill,
		FirstTowerKill: row.FirstTowerKill,

		Perks: match.Perks{
			Keystone:       row.Keystone,
			PrimaryRow1:    row.PrimaryRow1,
			PrimaryRow2:    row.PrimaryRow2,
			PrimaryRow3:    row.PrimaryRow3,
			PrimaryStyle:   row.PrimaryStyle,
			SecondaryRow1:  row.SecondaryRow1,
			SecondaryRow2:  row.SecondaryRow2,
			SecondaryStyle: row.SecondaryStyle,
			ShardDefense:   row.ShardDefense,
			ShardFlex:      row.ShardFlex,
			ShardOffense:   row.ShardOffense,
		},
		Items: [7]int{row.Item0, row.Item1, row.Item2, row.Item3, row.Item4, row.Item5, row.Item6},

		ItemsPurchased:       row.ItemsPurchased,
		ConsumablesPurchased: row.ConsumablesPurchased,
		GoldEarned:           row.GoldEarned,
		GoldSpent:            row.GoldSpent,

		Pings: match.Pings{
			AllIn:         row.AllInPings,
			AssistMe:      row.AssistMePings,
			Basic:         row.BasicPings,
			Command:       row.CommandPings,
			Danger:        row.DangerPings,
			EnemyMissing:  row.EnemyMissingPings,
			EnemyVision:   row.EnemyVisionPings,
			GetBack:       row.GetBackPings,
			NeedVision:    row.NeedVisionPings,
			OnMyWay:       row.OnMyWayPings,
			Push:          row.PushPings,
			VisionCleared: row.VisionClearedPings,
		},

		DamageDealtToBuildings:         row.DamageDealtToBuildings,
		DamageDealtToObjectives:        row.DamageDealtToObjectives,
		DamageDealtToTurrets:           row.DamageDealtToTurrets,
		DamageSelfMitigated:            row.DamageSelfMitigated,
		MagicDamageDealt:               row.MagicDamageDealt,
		MagicDamageDealtToChampions:    row.MagicDamageDealtToChampions,
		MagicDamageTaken:               row.MagicDamageTaken,
		PhysicalDamageDealt:            row.PhysicalDamageDealt,
		PhysicalDamageDealtToChampions: row.PhysicalDamageDealtToChampions,
		PhysicalDamageTaken:            row.PhysicalDamageTaken,
		TrueDamageDealt:                row.TrueDamageDealt,
		TrueDamageDealtToChampions:     row.TrueDamageDealtToChampions,
		TrueDamageTaken:                row.TrueDamageTaken,
		TotalDamageDealt:               row.TotalDamageDealt,
		TotalDamageDealtToChampions:    row.TotalDamageDealtToChampions,
		TotalDamageTaken:               row.TotalDamageTaken,
		TotalDamageShieldedOnTeammates: row.TotalDamageShieldedOnTeammates,
		TotalHeal:                      row.TotalHeal,
		TotalHealsOnTeammates:          row.TotalHealsOnTeammates,
		TotalUnitsHealed:               row.TotalUnitsHealed,
		TimeCCingOthers:                row.TimeCCingOthers,
		TotalTimeCCDealt:               row.TotalTimeCCDealt,
		TotalTimeSpentDead:             row.TotalTimeSpentDead,
		LongestTimeSpentLiving:         row.LongestTimeSpentLiving,

		TotalMinionsKilled:        row.TotalMinionsKilled,
		TotalNeutralMinionsKilled: row.TotalNeutralMinionsKilled,

		Spell1Casts: row.Spell1Casts,
		Spell2Casts: row.Spell2Casts,
		Spell3Casts: row.Spell3Casts,
		Spell4Casts: row.Spell4Casts,

		SightWardsBoughtInGame:  row.SightWardsBoughtInGame,
		VisionWardsBoughtInGame: row.VisionWardsBoughtInGame,
		DetectorWardsPlaced:     row.DetectorWardsPlaced,
		WardsPlaced:             row.WardsPlaced,
		WardsKilled:             row.WardsKilled,
		VisionScore:             row.VisionScore,

		DamagePerMinute:             row.DamagePerMinute,
		DamageTakenOnTeamPercentage: row.DamageTakenOnTeamPercentage,
		GoldPerMinute:               row.GoldPerMinute,
		VisionScorePerMinute:        row.VisionScorePerMinute,

		Enrichment: match.Enrichment{
			ChampionLevel:    row.ChampionLevel,
			ChampionPoints:   row.ChampionPoints,
			RuneWinRate:      row.RuneWinRate,
			RunePickRate:     row.RunePickRate,
			ChampionWinRate:  row.ChampionWinRate,
			ChampionPickRate: row.ChampionPickRate,
		},
	}
}
