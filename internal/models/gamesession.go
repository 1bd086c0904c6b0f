package models

import "time"

type GameSession struct {
	ID                int64     `json:"id"`
	CreatedAt         time.Time `json:"timecreated"`
	ModifiedAt        time.Time `json:"timemodified"`
	GameID            int64     `json:"game"`
	UserID            int64     `json:"mdl_user"`
	ContinueOnFailure bool      `json:"continue_on_failure"` // copied from the game at creation
	Score             int       `json:"score"`
	AnswersTotal      int       `json:"answers_total"`
	AnswersCorrect    int       `json:"answers_correct"`
	State             string    `json:"state"`
	Won               bool      `json:"won"`
}

func (s GameSession) InProgress() bool {
	return s.State == SessionStateProgress
}

type SessionFilter struct {
	GameID int64
	UserID int64
	States []string
}
