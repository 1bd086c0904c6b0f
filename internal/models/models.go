package models

// Level states.
const (
	LevelStatePrivate = "private"
	LevelStateActive  = "active"
	LevelStateDeleted = "deleted"
)

// Game session states. Neither finished nor dumped is ever left once entered.
const (
	SessionStateProgress = "progress"
	SessionStateFinished = "finished"
	SessionStateDumped   = "dumped"
)

// Highscore aggregation modes.
const (
	HighscoreModeBest    = "best"
	HighscoreModeLast    = "last"
	HighscoreModeAverage = "average"
)

// ValidHighscoreMode reports whether mode is one of the supported aggregation modes.
func ValidHighscoreMode(mode string) bool {
	switch mode {
	case HighscoreModeBest, HighscoreModeLast, HighscoreModeAverage:
		return true
	}
	return false
}

// CapabilityManage gates level, category and game administration.
const CapabilityManage = "manage"

// QTypeSingleChoice is the only bank question type the ladder can score.
const QTypeSingleChoice = "multichoice"

// SingleChoiceQTypes lists the bank question types eligible for selection.
var SingleChoiceQTypes = []string{QTypeSingleChoice}
