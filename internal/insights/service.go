// Package insights produces short narrative briefings about the shop from
// the commerce backend's data, using a hosted model when one is configured
// and deterministic templates otherwise.
package insights

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/wabot-dashboard/internal/analytics"
	"github.com/rogerio-castellano/wabot-dashboard/internal/backend"
	"github.com/rogerio-castellano/wabot-dashboard/internal/cache"
	"github.com/rogerio-castellano/wabot-dashboard/internal/format"
	"github.com/rogerio-castellano/wabot-dashboard/internal/models"
	"github.com/rogerio-castellano/wabot-dashboard/internal/repo"
	"github.com/rs/zerolog/log"
)

const keyPrefix = "insight:"

func cacheKey(kind string) string { return keyPrefix + kind }

type invalidator interface {
	Invalidate(ctx context.Context) error
}

type Options struct {
	// AI is tried first when set. Failures fall back to the templates.
	AI        Generator
	Formatter *format.Formatter
	TTL       time.Duration
	Location  *time.Location
	Now       func() time.Time
}

type Service struct {
	backend   backend.Client
	store     cache.Store
	repo      repo.InsightRepository
	ai        Generator
	fallback  Generator
	formatter *format.Formatter
	ttl       time.Duration
	loc       *time.Location
	now       func() time.Time
}

func NewService(client backend.Client, store cache.Store, insights repo.InsightRepository, opts Options) *Service {
	s := &Service{
		backend:   client,
		store:     store,
		repo:      insights,
		ai:        opts.AI,
		fallback:  FallbackGenerator{},
		formatter: opts.Formatter,
		ttl:       opts.TTL,
		loc:       opts.Location,
		now:       opts.Now,
	}
	if s.formatter == nil {
		s.formatter = format.New("", "")
	}
	if s.ttl <= 0 {
		s.ttl = time.Hour
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Generate returns the cached insight for kind, producing a new one on a miss.
func (s *Service) Generate(ctx context.Context, kind string) (models.Insight, error) {
	if !models.ValidInsightKind(kind) {
		return models.Insight{}, ErrUnknownKind
	}
	if in, ok := s.cached(ctx, kind); ok {
		return in, nil
	}

	ds, err := backend.Snapshot(ctx, s.backend)
	if err != nil {
		return models.Insight{}, err
	}
	return s.produce(ctx, kind, s.facts(ds))
}

// All returns one insight per kind, sharing a single backend snapshot between
// the kinds that are not cached.
func (s *Service) All(ctx context.Context) ([]models.Insight, error) {
	out := make([]models.Insight, 0, len(models.InsightKinds))
	var facts *Facts

	for _, kind := range models.InsightKinds {
		if in, ok := s.cached(ctx, kind); ok {
			out = append(out, in)
			continue
		}
		if facts == nil {
			ds, err := backend.Snapshot(ctx, s.backend)
			if err != nil {
				return nil, err
			}
			f := s.facts(ds)
			facts = &f
		}
		in, err := s.produce(ctx, kind, *facts)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, nil
}

// Refresh regenerates every kind from fresh backend data.
func (s *Service) Refresh(ctx context.Context) ([]models.Insight, error) {
	if inv, ok := s.backend.(invalidator); ok {
		if err := inv.Invalidate(ctx); err != nil {
			log.Warn().Err(err).Msg("backend cache invalidation failed")
		}
	}
	if err := s.store.DeletePrefix(ctx, keyPrefix); err != nil {
		log.Warn().Err(err).Msg("insight cache invalidation failed")
	}
	return s.All(ctx)
}

func (s *Service) History(kind string, limit int) ([]models.Insight, error) {
	if !models.ValidInsightKind(kind) {
		return nil, ErrUnknownKind
	}
	return s.repo.History(kind, limit)
}

func (s *Service) facts(ds analytics.Dataset) Facts {
	return BuildFacts(ds, s.now().In(s.loc), s.formatter)
}

func (s *Service) cached(ctx context.Context, kind string) (models.Insight, bool) {
	var in models.Insight
	err := cache.GetJSON(ctx, s.store, cacheKey(kind), &in)
	if err == nil {
		return in, true
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		log.Warn().Err(err).Str("kind", kind).Msg("insight cache read failed")
	}
	return models.Insight{}, false
}

func (s *Service) produce(ctx context.Context, kind string, facts Facts) (models.Insight, error) {
	in, err := s.generate(ctx, kind, facts)
	if err != nil {
		return models.Insight{}, err
	}
	in.ID = uuid.NewString()
	in.GeneratedAt = s.now().UTC()

	if err := s.repo.Save(in); err != nil {
		log.Error().Err(err).Str("kind", kind).Msg("failed to persist insight")
	}
	if err := cache.SetJSON(ctx, s.store, cacheKey(kind), in, s.ttl); err != nil {
		log.Warn().Err(err).Str("kind", kind).Msg("insight cache write failed")
	}
	return in, nil
}

func (s *Service) generate(ctx context.Context, kind string, facts Facts) (models.Insight, error) {
	if s.ai != nil {
		in, err := s.ai.Generate(ctx, kind, facts)
		if err == nil {
			return in, nil
		}
		log.Warn().Err(err).Str("kind", kind).Msg("ai insight failed, using fallback")
	}
	return s.fallback.Generate(ctx, kind, facts)
}
