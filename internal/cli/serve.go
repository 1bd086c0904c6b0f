package cli

import (
	"context"
	"math/rand"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/vytor/millionaire/internal/api"
	"github.com/vytor/millionaire/internal/cache"
	"github.com/vytor/millionaire/internal/config"
	"github.com/vytor/millionaire/internal/db"
	"github.com/vytor/millionaire/internal/logger"
	"github.com/vytor/millionaire/internal/repository/sqlite"
	"github.com/vytor/millionaire/internal/services"
)

// newServeCmd builds the CLI subcommand to start the server.
func newServeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "address to listen on")
	return cmd
}

// lockedRand serializes access to one *rand.Rand for concurrent requests.
type lockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func newLockedRand(seed int64) *lockedRand {
	return &lockedRand{rnd: rand.New(rand.NewSource(seed))}
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Intn(n)
}

func (r *lockedRand) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rnd.Shuffle(n, swap)
}

func runServer(ctx context.Context, cfg *config.Config) error {
	log := logger.Default()

	log.Info("===========================================")
	log.Info("Millionaire Server Starting")
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("redis_addr=%s", cfg.RedisAddr)
	log.Debug("score_cache_ttl=%s", cfg.ScoreCacheTTL)
	log.Debug("default_lang=%s", cfg.DefaultLang)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	if cfg.SeedPath != "" {
		if err := seedInto(ctx, database, cfg.SeedPath); err != nil {
			return err
		}
	}

	var scores cache.ScoreCache = cache.Noop{}
	var cachePinger api.Pinger
	if cfg.CacheEnabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()
		redisCache := cache.NewRedisScoreCache(client, cfg.ScoreCacheTTL)
		if err := redisCache.Ping(ctx); err != nil {
			log.Warn("score cache unreachable, leaderboards are rebuilt until it answers: %v", err)
		}
		scores = redisCache
		cachePinger = redisCache
	}

	store := sqlite.NewStore(database.DB)
	bank := sqlite.NewBankRepository(database.DB)
	dir := sqlite.NewDirectory(database.DB)
	rnd := newLockedRand(time.Now().UnixNano())

	srv := &api.Server{
		GameService:    services.NewGameService(store, dir, scores),
		LevelService:   services.NewLevelService(store, dir),
		SessionService: services.NewGameSessionService(store, bank, services.NewQuestionPicker(store, bank, rnd), scores, rnd),
		ScoreService:   services.NewScoreService(store, dir, scores),
		DB:             database,
		Cache:          cachePinger,
		DefaultLang:    cfg.DefaultLang,
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("HTTP server error: %v", err)
			return err
		}
	case <-ctx.Done():
		log.Info("received shutdown signal, initiating graceful shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("Millionaire Server Stopped")
	log.Info("===========================================")
	return nil
}
