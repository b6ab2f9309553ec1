package mastery

import "math"

// ChampionMastery is a player's progress on one champion. Rows are written once.
type ChampionMastery struct {
	PUUID                        string
	ChampionID                   int
	ChampionLevel                int64
	ChampionPoints               int64
	ChampionPointsSinceLastLevel int64
	ChampionPointsUntilNextLevel int64
	LastPlayTime                 int64
	TokensEarned                 int
	MilestoneGrade               string
}

const GradeMissing = "Missing"

var gradeScores = map[string]int{
	"S+": 12, "S": 11, "S-": 10,
	"A+": 9, "A": 8, "A-": 7,
	"B+": 6, "B": 5, "B-": 4,
	"C+": 3, "C": 2, "C-": 1,
	"D": 0,
}

var scoreGrades = func() map[int]string {
	out := make(map[int]string, len(gradeScores))
	for grade, score := range gradeScores {
		out[score] = grade
	}
	return out
}()

// ReduceGrades averages the milestone grades on the S+..D scale and maps the rounded
// mean back to a grade. Rounding is half to even. Unknown grades are ignored.
func ReduceGrades(grades []string) string {
	total, count := 0, 0
	for _, grade := range grades {
		score, ok := gradeScores[grade]
		if !ok {
			continue
		}
		total += score
		count++
	}
	if count == 0 {
		return GradeMissing
	}
	mean := math.RoundToEven(float64(total) / float64(count))
	return scoreGrades[int(mean)]
}
