package models

import "strconv"

type Level struct {
	ID       int64  `json:"id"`
	GameID   int64  `json:"game"`
	State    string `json:"state"`
	Name     string `json:"name"`
	Position int    `json:"position"`
	Score    int    `json:"score"`
	SafeSpot bool   `json:"safe_spot"`
}

// Title returns the level name, or "{score} {currency}" when no name is set.
func (l Level) Title(currency string) string {
	if l.Name != "" {
		return l.Name
	}
	return strconv.Itoa(l.Score) + " " + currency
}

type LevelFilter struct {
	GameID int64
	States []string
}
