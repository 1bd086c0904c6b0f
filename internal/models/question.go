package models

import (
	"strconv"
	"strings"
	"time"
)

// Question records which bank question a session was shown for one level.
type Question struct {
	ID             int64     `json:"id"`
	CreatedAt      time.Time `json:"timecreated"`
	ModifiedAt     time.Time `json:"timemodified"`
	SessionID      int64     `json:"gamesession"`
	LevelID        int64     `json:"level"`
	BankQuestionID int64     `json:"mdl_question"`
	AnswerOrder    []int64   `json:"mdl_answers_order"`
	BankAnswerID   int64     `json:"mdl_answer"`
	Score          int       `json:"score"`
	Correct        bool      `json:"correct"`
	Finished       bool      `json:"finished"`
}

// HasAnswer reports whether id is one of the answers shown for this question.
func (q Question) HasAnswer(id int64) bool {
	for _, a := range q.AnswerOrder {
		if a == id {
			return true
		}
	}
	return false
}

// JoinIDs renders ids as a comma separated list.
func JoinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// SplitIDs parses a comma separated id list. Empty input yields an empty slice.
func SplitIDs(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []int64{}, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
