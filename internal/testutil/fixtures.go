package testutil

import (
	"database/sql"
	"testing"

	"github.com/vytor/millionaire/internal/models"
)

// LadderLevel describes one active level for SeedGame.
type LadderLevel struct {
	Score    int
	SafeSpot bool
}

// SeedGame inserts game and one active level per entry of ladder, at positions 0..N-1.
func SeedGame(t *testing.T, sqlDB *sql.DB, game models.Game, ladder ...LadderLevel) (int64, []int64) {
	if game.CurrencyForLevels == "" {
		game.CurrencyForLevels = "€"
	}
	if game.HighscoreMode == "" {
		game.HighscoreMode = models.HighscoreModeBest
	}
	gameID := MustExec(t, sqlDB, `
INSERT INTO games (name, currency_for_levels, continue_on_failure, question_repeatable, question_shuffle_answers,
                   highscore_count, highscore_mode, highscore_teachers, completion_rounds, completion_points)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, game.Name, game.CurrencyForLevels, game.ContinueOnFailure, game.QuestionRepeatable, game.QuestionShuffleAnswers,
		game.HighscoreCount, game.HighscoreMode, game.HighscoreTeachers, game.CompletionRounds, game.CompletionPoints)

	levelIDs := make([]int64, len(ladder))
	for i, l := range ladder {
		levelIDs[i] = MustExec(t, sqlDB, `INSERT INTO levels (game, state, name, position, score, safe_spot) VALUES (?, ?, '', ?, ?, ?)`,
			gameID, models.LevelStateActive, i, l.Score, l.SafeSpot)
	}
	return gameID, levelIDs
}

// SeedBankQuestion inserts a bank question in category with the given answer fractions.
// Answer ids are questionID*10+i so tests can name them.
func SeedBankQuestion(t *testing.T, sqlDB *sql.DB, category, questionID int64, feedback string, fractions ...float64) models.BankQuestion {
	MustExec(t, sqlDB, `INSERT OR IGNORE INTO bank_categories (id, parent, name) VALUES (?, 0, '')`, category)
	MustExec(t, sqlDB, `INSERT INTO bank_questions (id, category, qtype, name, question_text, general_feedback) VALUES (?, ?, ?, ?, ?, ?)`,
		questionID, category, models.QTypeSingleChoice, "q", "Question text", feedback)
	q := models.BankQuestion{
		ID:              questionID,
		CategoryID:      category,
		QType:           models.QTypeSingleChoice,
		Name:            "q",
		Text:            "Question text",
		GeneralFeedback: feedback,
	}
	for i, f := range fractions {
		a := models.BankAnswer{ID: questionID*10 + int64(i), Text: "answer", Fraction: f}
		MustExec(t, sqlDB, `INSERT INTO bank_answers (id, question, answer, feedback, fraction) VALUES (?, ?, ?, '', ?)`,
			a.ID, questionID, a.Text, a.Fraction)
		q.Answers = append(q.Answers, a)
	}
	return q
}
