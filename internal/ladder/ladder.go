// Package ladder holds the pure rules of the level ladder: position normalization,
// answer scoring and leaderboard aggregation. Nothing here touches storage.
package ladder

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/vytor/millionaire/internal/models"
)

// FixPositions sorts levels by (position, id) and renumbers them 0..N-1.
// It returns the sorted levels and the new positions of the levels that moved.
func FixPositions(levels []models.Level) ([]models.Level, map[int64]int) {
	sorted := make([]models.Level, len(levels))
	copy(sorted, levels)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Position != sorted[j].Position {
			return sorted[i].Position < sorted[j].Position
		}
		return sorted[i].ID < sorted[j].ID
	})

	changed := make(map[int64]int)
	for i := range sorted {
		if sorted[i].Position != i {
			changed[sorted[i].ID] = i
			sorted[i].Position = i
		}
	}
	return sorted, changed
}

// Swap exchanges the position of level with its neighbour delta steps away, delta being -1 or +1.
// levels must be normalized. moved is false when no neighbour exists in that direction.
func Swap(levels []models.Level, levelID int64, delta int) (positions map[int64]int, moved bool, err error) {
	if delta != -1 && delta != 1 {
		return nil, false, fmt.Errorf("delta must be -1 or +1, got %d", delta)
	}
	idx := -1
	for i, l := range levels {
		if l.ID == levelID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false, fmt.Errorf("level %d is not an active level of this ladder", levelID)
	}
	other := idx + delta
	if other < 0 || other >= len(levels) {
		return nil, false, nil
	}
	return map[int64]int{
		levels[idx].ID:   levels[other].Position,
		levels[other].ID: levels[idx].Position,
	}, true, nil
}

// Outcome is the session state after one answer.
type Outcome struct {
	Score          int
	AnswersTotal   int
	AnswersCorrect int
	Finished       bool
	Won            bool
}

// Answer applies one answer to session. levels is the normalized active ladder, current the level
// being answered and passed the session's finished questions other than the current one.
func Answer(levels []models.Level, session models.GameSession, current models.Level, correct bool, passed []models.Question) Outcome {
	out := Outcome{
		AnswersTotal:   session.AnswersTotal + 1,
		AnswersCorrect: session.AnswersCorrect,
	}

	switch {
	case correct:
		out.Score = current.Score
		out.AnswersCorrect++
	case session.ContinueOnFailure:
		out.Score = scoreAt(levels, session.AnswersCorrect-1)
	default:
		out.Score = safeSpotScore(levels, current.ID, passed)
		out.Finished = true
		out.Won = false
	}

	if !out.Finished && out.AnswersTotal >= len(levels) {
		out.Finished = true
		out.Won = session.ContinueOnFailure || correct
	}
	return out
}

// ReachedLevel is the level standing for k correct answers: the k-th rung, or nil for k == 0.
func ReachedLevel(levels []models.Level, answersCorrect int) *models.Level {
	i := answersCorrect - 1
	if i < 0 || i >= len(levels) {
		return nil
	}
	return &levels[i]
}

func scoreAt(levels []models.Level, i int) int {
	if i < 0 || i >= len(levels) {
		return 0
	}
	return levels[i].Score
}

func safeSpotScore(levels []models.Level, currentID int64, passed []models.Question) int {
	reached := make(map[int64]bool, len(passed))
	for _, q := range passed {
		if q.Finished && q.Correct && q.LevelID != currentID {
			reached[q.LevelID] = true
		}
	}
	best, score := -1, 0
	for _, l := range levels {
		if l.SafeSpot && reached[l.ID] && l.Position > best {
			best, score = l.Position, l.Score
		}
	}
	return score
}

// ScoreName is the title of the rung reached with answersCorrect correct answers,
// or "0 {currency}" before the first one.
func ScoreName(levels []models.Level, answersCorrect int, currency string) string {
	if l := ReachedLevel(levels, answersCorrect); l != nil {
		return l.Title(currency)
	}
	return "0 " + currency
}

// FormatScore renders a score with the game currency.
func FormatScore(score int, currency string) string {
	return strconv.Itoa(score) + " " + currency
}
