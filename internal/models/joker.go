package models

import "time"

type JokerType string

const (
	JokerEliminate JokerType = "eliminate"
	JokerAudience  JokerType = "audience"
	JokerHint      JokerType = "hint"
)

// JokerTypes lists every lifeline a session can use, once each.
var JokerTypes = []JokerType{JokerEliminate, JokerAudience, JokerHint}

func (t JokerType) Valid() bool {
	switch t {
	case JokerEliminate, JokerAudience, JokerHint:
		return true
	}
	return false
}

type Joker struct {
	ID         int64     `json:"id"`
	CreatedAt  time.Time `json:"timecreated"`
	ModifiedAt time.Time `json:"timemodified"`
	SessionID  int64     `json:"gamesession"`
	QuestionID int64     `json:"question"`
	Type       JokerType `json:"joker_type"`
	Data       string    `json:"joker_data"`
}
