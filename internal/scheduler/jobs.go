package scheduler

import (
	"context"
	"fmt"

	"github.com/rogerio-castellano/wabot-dashboard/internal/backend"
	"github.com/rogerio-castellano/wabot-dashboard/internal/models"
	"github.com/rs/zerolog/log"
)

type InsightRefresher interface {
	Refresh(ctx context.Context) ([]models.Insight, error)
}

type BanReporter interface {
	LogDailySummary(ctx context.Context) error
}

func RefreshInsights(svc InsightRefresher) Job {
	return func(ctx context.Context) error {
		all, err := svc.Refresh(ctx)
		if err != nil {
			return fmt.Errorf("refresh insights: %w", err)
		}
		log.Info().Int("count", len(all)).Msg("insights regenerated")
		return nil
	}
}

// WarmCache pulls a full snapshot through the client so later dashboard
// requests are served from cache.
func WarmCache(client backend.Client) Job {
	return func(ctx context.Context) error {
		ds, err := backend.Snapshot(ctx, client)
		if err != nil {
			return fmt.Errorf("warm cache: %w", err)
		}
		log.Debug().
			Int("users", len(ds.Users)).
			Int("products", len(ds.Products)).
			Int("transactions", len(ds.Transactions)).
			Msg("backend cache warmed")
		return nil
	}
}

func BanSummary(r BanReporter) Job {
	return r.LogDailySummary
}
