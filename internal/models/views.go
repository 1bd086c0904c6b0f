package models

// GameView is the game configuration as exported to a player.
type GameView struct {
	Game
	Manager      bool              `json:"manager"`
	ActiveLevels int               `json:"active_levels"`
	Strings      map[string]string `json:"strings"`
}

// SessionView adds the derived fields a client needs to render a session.
type SessionView struct {
	GameSession
	ScoreName    string `json:"score_name"`
	CurrentLevel int    `json:"current_level"`
}

// LevelView annotates a level with the player's progress on it.
type LevelView struct {
	Level
	Title        string `json:"title"`
	Seen         bool   `json:"seen"`
	Finished     bool   `json:"finished"`
	Correct      bool   `json:"correct"`
	ReachedScore int    `json:"reached_score"` // -1 when the level was not seen
}

// AnswerView is one shown answer. Fraction and feedback are only present once the question is finished.
type AnswerView struct {
	ID       int64    `json:"id"`
	Text     string   `json:"text"`
	Fraction *float64 `json:"fraction,omitempty"`
	Feedback string   `json:"feedback,omitempty"`
}

// QuestionView is a question instance together with its bank content in the frozen answer order.
type QuestionView struct {
	Question
	Index           int          `json:"index"`
	Text            string       `json:"questiontext"`
	Answers         []AnswerView `json:"answers"`
	GeneralFeedback string       `json:"generalfeedback,omitempty"`
}

// JokerView locates a used joker on the ladder.
type JokerView struct {
	Joker
	LevelID    int64 `json:"level_id"`
	LevelIndex int   `json:"level_index"`
}
