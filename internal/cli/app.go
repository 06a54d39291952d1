package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rogerio-castellano/wabot-dashboard/internal/auth"
	"github.com/rogerio-castellano/wabot-dashboard/internal/backend"
	"github.com/rogerio-castellano/wabot-dashboard/internal/cache"
	"github.com/rogerio-castellano/wabot-dashboard/internal/config"
	"github.com/rogerio-castellano/wabot-dashboard/internal/db"
	"github.com/rogerio-castellano/wabot-dashboard/internal/format"
	"github.com/rogerio-castellano/wabot-dashboard/internal/http/ban"
	"github.com/rogerio-castellano/wabot-dashboard/internal/insights"
	"github.com/rogerio-castellano/wabot-dashboard/internal/llm"
	"github.com/rogerio-castellano/wabot-dashboard/internal/repo"
	"github.com/rs/zerolog/log"
)

// app is the set of services shared by every command.
type app struct {
	cfg       config.Settings
	loc       *time.Location
	formatter *format.Formatter

	store    cache.Store
	upstream *backend.HTTPClient
	client   *backend.CachedClient

	admins      repo.AdminRepository
	insightRepo repo.InsightRepository
	insights    *insights.Service
	auth        *auth.AuthService
	guard       *ban.Guard

	closers []func() error
}

func newApp(ctx context.Context, cfg config.Settings) (*app, error) {
	a := &app{
		cfg:       cfg,
		loc:       cfg.Location(),
		formatter: format.New(cfg.Format.Currency, cfg.Format.Locale),
	}

	if err := a.openCache(ctx); err != nil {
		return nil, err
	}
	if err := a.openRepositories(); err != nil {
		a.Close()
		return nil, err
	}

	upstream, err := backend.NewHTTPClient(backend.HTTPConfig{
		BaseURL: cfg.Backend.BaseURL,
		APIKey:  cfg.Backend.APIKey,
		Timeout: cfg.Backend.Timeout,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.upstream = upstream
	a.client = backend.NewCachedClient(upstream, a.store, cfg.Cache.TTL)

	opts := insights.Options{
		Formatter: a.formatter,
		TTL:       cfg.Cache.InsightTTL,
		Location:  a.loc,
	}
	if cfg.Insights.Enabled {
		gen, err := newAIGenerator(cfg.Insights)
		if err != nil {
			log.Warn().Err(err).Msg("ai insights disabled, using templates only")
		} else {
			opts.AI = gen
		}
	}
	a.insights = insights.NewService(a.client, a.store, a.insightRepo, opts)

	a.auth = auth.NewAuthService(a.admins, a.store, auth.Config{
		Secret:     cfg.Auth.JWTSecret,
		TokenTTL:   cfg.Auth.TokenTTL,
		RefreshTTL: cfg.Auth.RefreshTTL,
	})
	a.guard = ban.NewGuard(a.store, cfg.Auth.MaxStrikes, cfg.Auth.BanDuration)
	return a, nil
}

// openCache prefers Redis and falls back to process memory when no address is
// configured.
func (a *app) openCache(ctx context.Context) error {
	if a.cfg.Cache.RedisAddr == "" {
		log.Info().Msg("using in-memory cache")
		a.store = cache.NewMemoryStore()
		return nil
	}
	rdb, err := cache.Connect(ctx, a.cfg.Cache.RedisAddr, a.cfg.Cache.RedisPassword, a.cfg.Cache.RedisDB)
	if err != nil {
		return fmt.Errorf("could not connect to redis: %w", err)
	}
	log.Info().Str("addr", a.cfg.Cache.RedisAddr).Msg("using redis cache")
	a.store = cache.NewRedisStore(rdb)
	a.closers = append(a.closers, rdb.Close)
	return nil
}

func (a *app) openRepositories() error {
	if a.cfg.Database.URL == "" {
		log.Info().Msg("no database configured, admin users and insight history are kept in memory")
		a.admins = repo.NewInMemoryAdminRepository()
		a.insightRepo = repo.NewInMemoryInsightRepository()
		return nil
	}

	database, err := db.Connect(a.cfg.Database.URL)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, database.Close)
	if err := db.Migrate(database); err != nil {
		return err
	}
	a.useDatabase(database)
	return nil
}

func (a *app) useDatabase(database *sql.DB) {
	a.admins = repo.NewPostgresAdminRepository(database)
	a.insightRepo = repo.NewPostgresInsightRepository(database)
}

func newAIGenerator(s config.InsightSettings) (*insights.AIGenerator, error) {
	client, err := llm.NewClient(llm.Config{
		Provider: s.Provider,
		Model:    s.Model,
		APIKey:   s.APIKey,
		BaseURL:  s.BaseURL,
		Timeout:  s.Timeout,
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("provider", client.Provider()).Str("model", client.Model()).Msg("ai insights enabled")
	return insights.NewAIGenerator(client, insights.AIConfig{
		Timeout:       s.Timeout,
		MaxTokens:     s.MaxTokens,
		Temperature:   s.Temperature,
		RatePerMinute: s.RatePerMinute,
	}), nil
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
