package repository

import (
	"context"
	"errors"

	"github.com/vytor/millionaire/internal/models"
)

// ErrDuplicate is returned when an insert violates a unique constraint.
var ErrDuplicate = errors.New("duplicate row")

// GameRepository handles game configuration data access
type GameRepository interface {
	Get(ctx context.Context, id int64) (*models.Game, error)
	List(ctx context.Context) ([]models.Game, error)
	Insert(ctx context.Context, game models.Game) (int64, error)
	Update(ctx context.Context, game models.Game) error
}

// LevelRepository handles level data access. Lists are ordered by position, then id.
type LevelRepository interface {
	Get(ctx context.Context, id int64) (*models.Level, error)
	List(ctx context.Context, filter models.LevelFilter) ([]models.Level, error)
	Count(ctx context.Context, filter models.LevelFilter) (int, error)
	Insert(ctx context.Context, level models.Level) (int64, error)
	Update(ctx context.Context, level models.Level) error
	UpdatePositions(ctx context.Context, positions map[int64]int) error
	DeleteByGame(ctx context.Context, gameID int64) error
}

// CategoryRepository handles level-to-bank-category links
type CategoryRepository interface {
	Get(ctx context.Context, id int64) (*models.Category, error)
	ListByLevel(ctx context.Context, levelID int64) ([]models.Category, error)
	Insert(ctx context.Context, category models.Category) (int64, error)
	Delete(ctx context.Context, id int64) error
	DeleteByGame(ctx context.Context, gameID int64) error
}

// SessionRepository handles game session data access
type SessionRepository interface {
	Get(ctx context.Context, id int64) (*models.GameSession, error)
	// Latest returns the most recently modified session matching the filter, or nil.
	Latest(ctx context.Context, filter models.SessionFilter) (*models.GameSession, error)
	// List returns sessions ordered by creation time, oldest first.
	List(ctx context.Context, filter models.SessionFilter) ([]models.GameSession, error)
	Insert(ctx context.Context, session models.GameSession) (int64, error)
	Update(ctx context.Context, session models.GameSession) error
	DumpInProgress(ctx context.Context, gameID, userID int64) (int64, error)
	DeleteByGame(ctx context.Context, gameID int64) error
}

// QuestionRepository handles question instance data access
type QuestionRepository interface {
	Get(ctx context.Context, id int64) (*models.Question, error)
	// GetBySessionLevel returns the question of a session for one level, or nil.
	GetBySessionLevel(ctx context.Context, sessionID, levelID int64) (*models.Question, error)
	ListBySession(ctx context.Context, sessionID int64) ([]models.Question, error)
	// Latest returns the session's question on the highest level position, or nil.
	Latest(ctx context.Context, sessionID int64) (*models.Question, error)
	ShownBankQuestionIDs(ctx context.Context, gameID, userID int64) ([]int64, error)
	Insert(ctx context.Context, question models.Question) (int64, error)
	Update(ctx context.Context, question models.Question) error
	DeleteByGame(ctx context.Context, gameID int64) error
}

// JokerRepository handles joker data access
type JokerRepository interface {
	ListBySession(ctx context.Context, sessionID int64) ([]models.Joker, error)
	// Insert returns ErrDuplicate when the session already used the joker type.
	Insert(ctx context.Context, joker models.Joker) (int64, error)
	DeleteByGame(ctx context.Context, gameID int64) error
}

// Store groups the game repositories over one connection or transaction.
type Store interface {
	Games() GameRepository
	Levels() LevelRepository
	Categories() CategoryRepository
	Sessions() SessionRepository
	Questions() QuestionRepository
	Jokers() JokerRepository
	// WithTx runs fn against a Store bound to a single transaction.
	// The transaction is committed when fn returns nil and rolled back otherwise.
	WithTx(ctx context.Context, fn func(Store) error) error
}

// QuestionBank is read access to the host question bank.
type QuestionBank interface {
	// CategoryIDs returns id itself, plus every descendant when includeSubcategories is set.
	CategoryIDs(ctx context.Context, id int64, includeSubcategories bool) ([]int64, error)
	QuestionIDs(ctx context.Context, categoryIDs []int64, qtypes []string) ([]int64, error)
	Question(ctx context.Context, id int64) (*models.BankQuestion, error)
}

// BankWriter loads question bank content.
type BankWriter interface {
	UpsertCategory(ctx context.Context, category models.BankCategory) error
	UpsertQuestion(ctx context.Context, question models.BankQuestion) error
}

// Directory resolves host users and their capabilities.
type Directory interface {
	UserName(ctx context.Context, userID int64) (string, error)
	HasCapability(ctx context.Context, gameID, userID int64, capability string) (bool, error)
	UpsertUser(ctx context.Context, userID int64, name string) error
	Grant(ctx context.Context, gameID, userID int64, capability string) error
}
