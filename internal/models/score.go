package models

// ScoreRow is one leaderboard line.
type ScoreRow struct {
	Rank     int    `json:"rank"`
	Score    int    `json:"score"`
	Sessions int    `json:"sessions"`
	UserID   int64  `json:"mdl_user"`
	UserName string `json:"mdl_user_name"`
	Teacher  bool   `json:"teacher"`
}

// UserAggregate is the per-user input to the leaderboard, before ranking.
type UserAggregate struct {
	UserID   int64
	Score    int
	Sessions int
}

// CompletionState reports whether the game's completion rules are met by a user.
type CompletionState struct {
	Applicable     bool `json:"applicable"`
	Completed      bool `json:"completed"`
	RoundsRequired int  `json:"rounds_required"`
	RoundsFinished int  `json:"rounds_finished"`
	PointsRequired int  `json:"points_required"`
	PointsReached  int  `json:"points_reached"`
}
