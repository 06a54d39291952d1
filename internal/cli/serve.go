package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rogerio-castellano/wabot-dashboard/internal/http/handlers"
	mw "github.com/rogerio-castellano/wabot-dashboard/internal/http/middleware"
	rl "github.com/rogerio-castellano/wabot-dashboard/internal/http/rate_limiter"
	"github.com/rogerio-castellano/wabot-dashboard/internal/http/router"
	"github.com/rogerio-castellano/wabot-dashboard/internal/scheduler"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := settings.Validate(); err != nil {
				return err
			}

			sigCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(sigCtx, settings)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.auth.EnsureAdmin(settings.Auth.AdminUsername, settings.Auth.AdminPassword); err != nil {
				return err
			}

			limiter := rl.New(settings.RateLimit.RPS, settings.RateLimit.Burst)
			go limiter.StartCleanupLoop(sigCtx)
			a.wireHTTP(limiter)

			sched, err := a.scheduler()
			if err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			srv := &http.Server{
				Addr:    settings.Server.Addr,
				Handler: router.NewRouter(),
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", settings.Server.Addr).Msg("server running")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return err
				}
			case <-sigCtx.Done():
			}
			log.Info().Msg("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), settings.Server.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			log.Info().Msg("server stopped")
			return nil
		},
	}
}

func (a *app) wireHTTP(limiter *rl.Limiter) {
	handlers.SetBackend(a.client)
	handlers.SetHealthChecker(a.upstream)
	handlers.SetInsightService(a.insights)
	handlers.SetAuthService(a.auth)
	handlers.SetBanGuard(a.guard)
	handlers.SetFormatter(a.formatter, a.loc)

	mw.SetAuthService(a.auth)
	mw.SetRateLimiter(limiter)
}

func (a *app) scheduler() (*scheduler.Scheduler, error) {
	s := scheduler.New(a.loc)
	if err := s.Add("insights", a.cfg.Insights.Schedule, scheduler.RefreshInsights(a.insights)); err != nil {
		return nil, err
	}
	if err := s.Add("cache-warm", a.cfg.Cache.WarmSchedule, scheduler.WarmCache(a.client)); err != nil {
		return nil, err
	}
	if err := s.Add("ban-summary", scheduler.BanSummarySchedule, scheduler.BanSummary(a.guard)); err != nil {
		return nil, err
	}
	return s, nil
}
