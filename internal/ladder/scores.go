package ladder

import (
	"sort"

	"github.com/vytor/millionaire/internal/models"
)

// Aggregate combines the scores of a user's finished sessions, given oldest first, under mode.
// Average is rounded half up. An unknown mode aggregates like best.
func Aggregate(mode string, scores []int) int {
	if len(scores) == 0 {
		return 0
	}
	switch mode {
	case models.HighscoreModeLast:
		return scores[len(scores)-1]
	case models.HighscoreModeAverage:
		sum := 0
		for _, s := range scores {
			sum += s
		}
		// Level scores are non-negative, so integer half-up rounding is exact.
		n := len(scores)
		return (2*sum + n) / (2 * n)
	default:
		best := scores[0]
		for _, s := range scores[1:] {
			if s > best {
				best = s
			}
		}
		return best
	}
}

// AggregateSessions groups finished sessions by user. sessions must be ordered oldest first.
func AggregateSessions(mode string, sessions []models.GameSession) []models.UserAggregate {
	byUser := make(map[int64][]int)
	var order []int64
	for _, s := range sessions {
		if s.State != models.SessionStateFinished {
			continue
		}
		if _, ok := byUser[s.UserID]; !ok {
			order = append(order, s.UserID)
		}
		byUser[s.UserID] = append(byUser[s.UserID], s.Score)
	}

	out := make([]models.UserAggregate, 0, len(order))
	for _, user := range order {
		scores := byUser[user]
		out = append(out, models.UserAggregate{UserID: user, Score: Aggregate(mode, scores), Sessions: len(scores)})
	}
	return out
}

// Rank sorts rows by score descending, then user id, and assigns ranks. Teacher rows only
// advance the rank counter when showTeachers is set; hidden rows keep the current rank.
func Rank(rows []models.ScoreRow, showTeachers bool) []models.ScoreRow {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		return rows[i].UserID < rows[j].UserID
	})
	rank := 0
	for i := range rows {
		if !rows[i].Teacher || showTeachers {
			rank++
		}
		rows[i].Rank = rank
	}
	return rows
}
