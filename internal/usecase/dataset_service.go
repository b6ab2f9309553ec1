package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/lol-dataset/internal/domain/match"
	"github.com/riskibarqy/lol-dataset/internal/platform/logging"
)

const (
	blueSidePrefix = "blue_side_"
	redSidePrefix  = "red_side_"

	datasetDateLayout = "2006-01-02"
)

var datasetJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Dataset is the flat analytics table: one row per eligible match. Missing values are empty cells.
type Dataset struct {
	Columns []string
	Rows    [][]string
}

// Column returns the values of one column keyed by match id.
func (d Dataset) Column(name string) map[string]string {
	idx, matchIdx := -1, -1
	for i, c := range d.Columns {
		if c == name {
			idx = i
		}
		if c == "match_id" {
			matchIdx = i
		}
	}
	if idx < 0 || matchIdx < 0 {
		return nil
	}
	out := make(map[string]string, len(d.Rows))
	for _, row := range d.Rows {
		out[row[matchIdx]] = row[idx]
	}
	return out
}

type DatasetConfig struct {
	DocsPath string
	FileName string
}

type DatasetService struct {
	repo   match.Repository
	cfg    DatasetConfig
	logger *logging.Logger
}

func NewDatasetService(repo match.Repository, cfg DatasetConfig, logger *logging.Logger) *DatasetService {
	if strings.TrimSpace(cfg.FileName) == "" {
		cfg.FileName = "data.csv"
	}
	return &DatasetService{repo: repo, cfg: cfg, logger: logging.OrNop(logger)}
}

type matchColumn struct {
	name  string
	value func(match.Match) string
}

var matchColumns = []matchColumn{
	{"match_id", func(m match.Match) string { return m.MatchID }},
	{"participants", func(m match.Match) string {
		raw, err := datasetJSON.MarshalToString(m.Participants)
		if err != nil {
			return ""
		}
		return raw
	}},
	{"end_of_game_result", func(m match.Match) string { return m.EndOfGameResult }},
	{"game_version", func(m match.Match) string { return m.GameVersion }},
	{"game_start_timestamp", func(m match.Match) string { return strconv.FormatInt(m.GameStartTimestamp, 10) }},
	{"game_end_timestamp", func(m match.Match) string { return strconv.FormatInt(m.GameEndTimestamp, 10) }},
	{"time_played", func(m match.Match) string { return formatFloat(m.TimePlayed) }},
	{"game_ended_in_surrender", func(m match.Match) string { return strconv.FormatBool(m.GameEndedInSurrender) }},
	{"game_ended_in_early_surrender", func(m match.Match) string { return strconv.FormatBool(m.GameEndedInEarlySurrender) }},
	{"comp_risk_score", func(m match.Match) string { return formatOptionalFloat(m.CompRiskScore) }},
	{"comp_win_rate", func(m match.Match) string { return formatOptionalFloat(m.CompWinRate) }},
}

type teamMetric struct {
	name  string
	value func(match.Team) int
}

var teamMetrics = []teamMetric{
	{"baron_kills", func(t match.Team) int { return t.BaronKills }},
	{"champion_kills", func(t match.Team) int { return t.ChampionKills }},
	{"dragon_kills", func(t match.Team) int { return t.DragonKills }},
	{"inhibitor_kills", func(t match.Team) int { return t.InhibitorKills }},
	{"rift_herald_kills", func(t match.Team) int { return t.RiftHeraldKills }},
	{"tower_kills", func(t match.Team) int { return t.TowerKills }},
}

type aggregateKind int

const (
	aggregateMean aggregateKind = iota
	aggregateSum
)

// playerMetric reads one PlayerMatch value; ok is false for values not yet known.
type playerMetric struct {
	name  string
	kind  aggregateKind
	value func(match.PlayerMatch) (float64, bool)
}

func intMetric(f func(match.PlayerMatch) int) func(match.PlayerMatch) (float64, bool) {
	return func(p match.PlayerMatch) (float64, bool) { return float64(f(p)), true }
}

func optionalInt(f func(match.PlayerMatch) *int64) func(match.PlayerMatch) (float64, bool) {
	return func(p match.PlayerMatch) (float64, bool) {
		v := f(p)
		if v == nil {
			return 0, false
		}
		return float64(*v), true
	}
}

func optionalFloat(f func(match.PlayerMatch) *float64) func(match.PlayerMatch) (float64, bool) {
	return func(p match.PlayerMatch) (float64, bool) {
		v := f(p)
		if v == nil {
			return 0, false
		}
		return *v, true
	}
}

var playerMetrics = []playerMetric{
	{"avg_summoner_level", aggregateMean, intMetric(func(p match.PlayerMatch) int { return p.SummonerLevel })},
	{"avg_kda", aggregateMean, func(p match.PlayerMatch) (float64, bool) { return p.KDA, true }},
	{"avg_champion_level", aggregateMean, optionalInt(func(p match.PlayerMatch) *int64 { return p.Enrichment.ChampionLevel })},
	{"avg_champion_points", aggregateMean, optionalInt(func(p match.PlayerMatch) *int64 { return p.Enrichment.ChampionPoints })},
	{"avg_champion_win_rate", aggregateMean, optionalFloat(func(p match.PlayerMatch) *float64 { return p.Enrichment.ChampionWinRate })},
	{"avg_champion_pick_rate", aggregateMean, optionalFloat(func(p match.PlayerMatch) *float64 { return p.Enrichment.ChampionPickRate })},
	{"avg_champ_experience", aggregateMean, intMetric(func(p match.PlayerMatch) int { return p.ChampExperience })},
	{"avg_rune_win_rate", aggregateMean, optionalFloat(func(p match.PlayerMatch) *float64 { return p.Enrichment.RuneWinRate })},
	{"avg_rune_pick_rate", aggregateMean, optionalFloat(func(p match.PlayerMatch) *float64 { return p.Enrichment.RunePickRate })},
	{"avg_vision_score", aggregateMean, intMetric(func(p match.PlayerMatch) int { return p.VisionScore })},
	{"avg_longest_time_spent_living", aggregateMean, intMetric(func(p match.PlayerMatch) int { return p.LongestTimeSpentLiving })},

	{"total_kills", aggregateSum, intMetric(func(p match.PlayerMatch) int { return p.Kills })},
	{"total_deaths", aggregateSum, intMetric(func(p match.PlayerMatch) int { return p.Deaths })},
	{"total_assists", aggregateSum, intMetric(func(p match.PlayerMatch) int { return p.Assists })},
	{"total_gold_earned", aggregateSum, intMetric(func(p match.PlayerMatch) int { return p.GoldEarned })},
	{"total_consumables_purchased", aggregateSum, intMetric(func(p match.PlayerMatch) int { return p.ConsumablesPurchased })},
	{"total_all_in_pings", aggregateSum, intMetric(func(p match.PlayerMatch) int { return p.Pings.AllIn })},
	{"total_assist_me_pings", aggregateSum, intMetric(func(p match.PlayerMatch) int { return p.Pings.AssistMe })},
	{"total_basic_pings", aggregateSum, intMetric(func(p match.PlayerMatch) int { return p.Pings.Basic })},
	{"total_command_pings", aggregateSum, intMetric(func(p match.PlayerMatch) int { return p.Pings.Command })},
	{"total_danger_pings", aggregateSum, intMetric(func(p match.PlayerMatch) int { return p.Pings.Danger })},
	{"total_enemy_missing_pings", aggregateSum, intMetric(func(p match.PlayerMatch) int { return p.Pings.EnemyMissing })},
	{"total_enemy_vision_pings", aggregateSum, intMetric(func(p match.PlayerMatch) int { return p.Pings.EnemyVision })},
	{"total_get_back_pings", aggregateSum, intMetric(func(p match.PlayerMatch) int { return p.Pings.GetBack })},
	{"total_need_vision_pings", aggregateSum, intMetric(func(p match.PlayerMatch) int { return p.Pings.NeedVision })},
	{"total_on_my_way_pings", aggregateSum, intMetric(func(p match.PlayerMatch) int { return p.Pings.OnMyWay })},
	{"total_push_pings", aggregateSum, intMetric(func(p match.PlayerMatch) int { return p.Pings.Push })},
	{"total_vision_cleared_pings", aggregateSum, intMetric(func(p match.PlayerMatch) int { return p.Pings.VisionCleared })},
	{"total_damage_taken", aggregateSum, intMetric(func(p match.PlayerMatch) int { return p.TotalDamageTaken })},
	{"total_damage_dealt_to_champions", aggregateSum, intMetric(func(p match.PlayerMatch) int { return p.TotalDamageDealtToChampions })},
	{"total_heal", aggregateSum, intMetric(func(p match.PlayerMatch) int { return p.TotalHeal })},
	{"total_time_ccing_others", aggregateSum, intMetric(func(p match.PlayerMatch) int { return p.TimeCCingOthers })},
	{"total_minions_killed", aggregateSum, intMetric(func(p match.PlayerMatch) int { return p.TotalMinionsKilled })},
	{"total_neutral_minions_killed", aggregateSum, intMetric(func(p match.PlayerMatch) int { return p.TotalNeutralMinionsKilled })},
	{"total_time_spent_dead", aggregateSum, intMetric(func(p match.PlayerMatch) int { return p.TotalTimeSpentDead })},
	{"total_detector_wards_placed", aggregateSum, intMetric(func(p match.PlayerMatch) int { return p.DetectorWardsPlaced })},
	{"total_vision_wards_bought_in_game", aggregateSum, intMetric(func(p match.PlayerMatch) int { return p.VisionWardsBoughtInGame })},
	{"total_wards_placed", aggregateSum, intMetric(func(p match.PlayerMatch) int { return p.WardsPlaced })},
}

type sideKey struct {
	matchID string
	teamID  int
}

// Build joins the stored tables into the analytics table.
func (s *DatasetService) Build(ctx context.Context) (Dataset, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DatasetService.Build")
	defer span.End()

	matches, err := s.repo.ListMatches(ctx)
	if err != nil {
		return Dataset{}, fmt.Errorf("list matches: %w", err)
	}
	teams, err := s.repo.ListTeams(ctx)
	if err != nil {
		return Dataset{}, fmt.Errorf("list teams: %w", err)
	}
	players, err := s.repo.ListPlayerMatches(ctx)
	if err != nil {
		return Dataset{}, fmt.Errorf("list player matches: %w", err)
	}

	dataset, ambiguous := BuildDataset(matches, teams, players)
	for _, matchID := range ambiguous {
		s.logger.WarnContext(ctx, "match excluded from dataset",
			"match_id", matchID,
			"reason", ErrAmbiguousMatch.Error(),
		)
	}
	span.SetAttributes(attribute.Int("rows", len(dataset.Rows)), attribute.Int("ambiguous", len(ambiguous)))
	s.logger.InfoContext(ctx, "dataset built",
		"matches", len(matches),
		"rows", len(dataset.Rows),
		"columns", len(dataset.Columns),
		"ambiguous", len(ambiguous),
	)
	return dataset, nil
}

// Export builds the dataset and writes it as CSV to the configured docs path.
func (s *DatasetService) Export(ctx context.Context) (string, error) {
	dataset, err := s.Build(ctx)
	if err != nil {
		return "", err
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := WriteCSV(buf, dataset); err != nil {
		return "", fmt.Errorf("render dataset: %w", err)
	}

	if s.cfg.DocsPath != "" {
		if err := os.MkdirAll(s.cfg.DocsPath, 0o755); err != nil {
			return "", fmt.Errorf("create docs path: %w", err)
		}
	}
	path := filepath.Join(s.cfg.DocsPath, s.cfg.FileName)
	if err := os.WriteFile(path, buf.B, 0o644); err != nil {
		return "", fmt.Errorf("write dataset %s: %w", path, err)
	}

	s.logger.InfoContext(ctx, "dataset exported", "path", path, "rows", len(dataset.Rows), "bytes", buf.Len())
	return path, nil
}

func WriteCSV(w io.Writer, dataset Dataset) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(dataset.Columns); err != nil {
		return err
	}
	if err := writer.WriteAll(dataset.Rows); err != nil {
		return err
	}
	return writer.Error()
}

// BuildDataset is the pure join behind Build. It also returns the ids of matches dropped
// because two players shared a side and position.
func BuildDataset(matches []match.Match, teams []match.Team, players []match.PlayerMatch) (Dataset, []string) {
	teamsBySide := make(map[sideKey]match.Team, len(teams))
	for _, t := range teams {
		teamsBySide[sideKey{matchID: t.MatchID, teamID: t.TeamID}] = t
	}

	playersBySide := make(map[sideKey][]match.PlayerMatch)
	playersByMatch := make(map[string][]match.PlayerMatch)
	for _, p := range players {
		key := sideKey{matchID: p.MatchID, teamID: p.TeamID}
		playersBySide[key] = append(playersBySide[key], p)
		playersByMatch[p.MatchID] = append(playersByMatch[p.MatchID], p)
	}

	slots, slotColumns, ambiguous := pivotChampionSlots(playersByMatch)

	columns := make([]string, 0, len(matchColumns)+1+2*len(teamMetrics)+2*len(playerMetrics)+len(slotColumns)+1)
	for _, c := range matchColumns {
		columns = append(columns, c.name)
	}
	columns = append(columns, "win")
	for _, m := range teamMetrics {
		columns = append(columns, blueSidePrefix+m.name, redSidePrefix+m.name)
	}
	for _, m := range playerMetrics {
		columns = append(columns, blueSidePrefix+m.name, redSidePrefix+m.name)
	}
	columns = append(columns, slotColumns...)
	columns = append(columns, "game_start_date")

	rows := make([][]string, 0, len(matches))
	for _, m := range matches {
		champions, ok := slots[m.MatchID]
		if !ok {
			continue
		}

		row := make([]string, 0, len(columns))
		for _, c := range matchColumns {
			row = append(row, c.value(m))
		}

		blueKey := sideKey{matchID: m.MatchID, teamID: match.BlueTeamID}
		redKey := sideKey{matchID: m.MatchID, teamID: match.RedTeamID}

		blue, hasBlue := teamsBySide[blueKey]
		red, hasRed := teamsBySide[redKey]
		if hasBlue {
			row = append(row, strconv.FormatBool(blue.Win))
		} else {
			row = append(row, "")
		}
		for _, metric := range teamMetrics {
			row = append(row, teamValue(metric, blue, hasBlue), teamValue(metric, red, hasRed))
		}
		for _, metric := range playerMetrics {
			row = append(row,
				aggregate(metric, playersBySide[blueKey]),
				aggregate(metric, playersBySide[redKey]),
			)
		}
		for _, col := range slotColumns {
			row = append(row, champions[col])
		}
		row = append(row, time.Unix(m.GameStartTimestamp, 0).UTC().Format(datasetDateLayout))

		rows = append(rows, row)
	}

	return Dataset{Columns: columns, Rows: rows}, ambiguous
}

// pivotChampionSlots maps each unambiguous match to champion by "<teamId>_<position>".
// Values recorded under the side's Invalid slot fill that side's empty slots, then the
// Invalid columns are dropped. Columns are returned sorted.
func pivotChampionSlots(playersByMatch map[string][]match.PlayerMatch) (map[string]map[string]string, []string, []string) {
	out := make(map[string]map[string]string, len(playersByMatch))
	columnSet := make(map[string]struct{})
	ambiguous := make([]string, 0)

	for matchID, players := range playersByMatch {
		champions := make(map[string]string, len(players))
		duplicate := false
		for _, p := range players {
			key := match.SlotKey(p.TeamID, p.IndividualPosition)
			if _, exists := champions[key]; exists {
				duplicate = true
				break
			}
			champions[key] = p.Champion
		}
		if duplicate {
			ambiguous = append(ambiguous, matchID)
			continue
		}
		for key := range champions {
			columnSet[key] = struct{}{}
		}
		out[matchID] = champions
	}

	columns := make([]string, 0, len(columnSet))
	for key := range columnSet {
		if !isInvalidSlot(key) {
			columns = append(columns, key)
		}
	}
	sort.Strings(columns)

	for _, champions := range out {
		for _, col := range columns {
			if _, ok := champions[col]; ok {
				continue
			}
			side := col[:strings.IndexByte(col, '_')]
			if filler, ok := champions[side+"_"+match.PositionInvalid]; ok {
				champions[col] = filler
			}
		}
		for key := range champions {
			if isInvalidSlot(key) {
				delete(champions, key)
			}
		}
	}

	sort.Strings(ambiguous)
	return out, columns, ambiguous
}

func isInvalidSlot(key string) bool {
	return strings.HasSuffix(key, "_"+match.PositionInvalid)
}

func teamValue(metric teamMetric, team match.Team, ok bool) string {
	if !ok {
		return ""
	}
	return strconv.Itoa(metric.value(team))
}

// aggregate skips unknown values; a mean with nothing to average is an empty cell.
func aggregate(metric playerMetric, players []match.PlayerMatch) string {
	if len(players) == 0 {
		return ""
	}
	var total float64
	count := 0
	for _, p := range players {
		v, ok := metric.value(p)
		if !ok {
			continue
		}
		total += v
		count++
	}
	if metric.kind == aggregateSum {
		return formatFloat(total)
	}
	if count == 0 {
		return ""
	}
	return formatFloat(total / float64(count))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
