package api

import (
	"context"

	"github.com/vytor/millionaire/internal/services"
)

// Pinger is a dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	GameService    services.GameService
	LevelService   services.LevelService
	SessionService services.GameSessionService
	ScoreService   services.ScoreService
	DB             Pinger
	Cache          Pinger // nil when no cache is configured
	DefaultLang    string
}
