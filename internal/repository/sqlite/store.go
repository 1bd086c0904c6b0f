package sqlite

import (
	"context"
	"database/sql"

	"github.com/vytor/millionaire/internal/repository"
)

type store struct {
	db *sql.DB
	q  querier
}

// NewStore returns a repository.Store backed by db.
func NewStore(db *sql.DB) repository.Store {
	return &store{db: db, q: db}
}

func (s *store) Games() repository.GameRepository         { return &gameRepository{q: s.q} }
func (s *store) Levels() repository.LevelRepository       { return &levelRepository{q: s.q} }
func (s *store) Categories() repository.CategoryRepository { return &categoryRepository{q: s.q} }
func (s *store) Sessions() repository.SessionRepository   { return &sessionRepository{q: s.q} }
func (s *store) Questions() repository.QuestionRepository { return &questionRepository{q: s.q} }
func (s *store) Jokers() repository.JokerRepository       { return &jokerRepository{q: s.q} }

func (s *store) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	if s.db == nil {
		// Already inside a transaction.
		return fn(s)
	}
	return tx(ctx, s.db, func(t *sql.Tx) error {
		return fn(&store{q: t})
	})
}
