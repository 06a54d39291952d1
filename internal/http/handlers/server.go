package handlers

import (
	"context"
	"time"

	"github.com/rogerio-castellano/wabot-dashboard/internal/auth"
	"github.com/rogerio-castellano/wabot-dashboard/internal/backend"
	"github.com/rogerio-castellano/wabot-dashboard/internal/format"
	"github.com/rogerio-castellano/wabot-dashboard/internal/http/ban"
	"github.com/rogerio-castellano/wabot-dashboard/internal/insights"
)

type Invalidator interface {
	Invalidate(ctx context.Context) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

var (
	backendClient  backend.Client
	insightService *insights.Service
	authService    *auth.AuthService
	banGuard       *ban.Guard
	formatter      = format.New("", "")
	location       = time.UTC
	nowFunc        = time.Now

	cacheInvalidator Invalidator
	backendPinger    Pinger
)

// SetBackend installs the client used for every read. When the client is a
// caching decorator it also backs the cache invalidation endpoint.
func SetBackend(c backend.Client) {
	backendClient = c
	if inv, ok := c.(Invalidator); ok {
		cacheInvalidator = inv
	} else {
		cacheInvalidator = nil
	}
}

func SetHealthChecker(p Pinger) {
	backendPinger = p
}

func SetInsightService(s *insights.Service) {
	insightService = s
}

func SetAuthService(a *auth.AuthService) {
	authService = a
}

func SetBanGuard(g *ban.Guard) {
	banGuard = g
}

func SetFormatter(f *format.Formatter, loc *time.Location) {
	formatter = f
	if loc != nil {
		location = loc
	}
}

func SetClock(now func() time.Time) {
	nowFunc = now
}

func now() time.Time {
	return nowFunc().In(location)
}
