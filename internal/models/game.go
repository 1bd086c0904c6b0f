package models

import "time"

// Game is the configuration of one activity instance. It owns the levels.
type Game struct {
	ID                     int64     `json:"id"`
	CreatedAt              time.Time `json:"created_at"`
	ModifiedAt             time.Time `json:"modified_at"`
	Name                   string    `json:"name"`
	CurrencyForLevels      string    `json:"currency_for_levels"`
	ContinueOnFailure      bool      `json:"continue_on_failure"`
	QuestionRepeatable     bool      `json:"question_repeatable"`
	QuestionShuffleAnswers bool      `json:"question_shuffle_answers"`
	HighscoreCount         int       `json:"highscore_count"`
	HighscoreMode          string    `json:"highscore_mode"`
	HighscoreTeachers      bool      `json:"highscore_teachers"`
	CompletionRounds       int       `json:"completion_rounds"`
	CompletionPoints       int       `json:"completion_points"`
}

// NewGame returns a game with the plugin defaults applied.
func NewGame(name string) Game {
	return Game{
		Name:                   name,
		CurrencyForLevels:      "€",
		QuestionRepeatable:     true,
		QuestionShuffleAnswers: true,
		HighscoreCount:         5,
		HighscoreMode:          HighscoreModeBest,
	}
}
