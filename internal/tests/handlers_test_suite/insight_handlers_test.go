package handlers_test_suite

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	handler "github.com/rogerio-castellano/wabot-dashboard/internal/http/handlers"
	"github.com/rogerio-castellano/wabot-dashboard/internal/models"
)

func clearInsights() {
	store.DeletePrefix(context.Background(), "insight:")
	insightRepo.Clear()
}

func TestInsightHandlers(t *testing.T) {
	t.Cleanup(clearInsights)
	r := newRouter()

	t.Run("All kinds from templates", func(t *testing.T) {
		w := get(r, "/api/insights", token)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 OK, got %d", w.Code)
		}
		var resp handler.InsightsResponse
		json.NewDecoder(w.Body).Decode(&resp)
		if len(resp.Insights) != len(models.InsightKinds) {
			t.Fatalf("expected %d insights, got %d", len(models.InsightKinds), len(resp.Insights))
		}
		for i, in := range resp.Insights {
			if in.Kind != models.InsightKinds[i] {
				t.Errorf("expected %s at %d, got %s", models.InsightKinds[i], i, in.Kind)
			}
			if in.Source != models.SourceFallback {
				t.Errorf("expected fallback source, got %s", in.Source)
			}
			if in.Title == "" || in.Summary == "" {
				t.Errorf("expected title and summary for %s", in.Kind)
			}
		}
	})

	t.Run("One kind is served from cache", func(t *testing.T) {
		first := get(r, "/api/insights/sales", token)
		second := get(r, "/api/insights/sales", token)
		var a, b models.Insight
		json.NewDecoder(first.Body).Decode(&a)
		json.NewDecoder(second.Body).Decode(&b)
		if a.ID == "" || a.ID != b.ID {
			t.Errorf("expected the cached insight to be returned, got %q and %q", a.ID, b.ID)
		}
	})

	t.Run("Unknown kind", func(t *testing.T) {
		w := get(r, "/api/insights/weather", token)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})

	t.Run("History", func(t *testing.T) {
		w := get(r, "/api/insights/overview/history?limit=5", token)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 OK, got %d", w.Code)
		}
		var resp handler.InsightsResponse
		json.NewDecoder(w.Body).Decode(&resp)
		if len(resp.Insights) == 0 {
			t.Error("expected persisted overview insights")
		}

		if w := get(r, "/api/insights/overview/history?limit=0", token); w.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for limit=0, got %d", w.Code)
		}
		if w := get(r, "/api/insights/weather/history", token); w.Code != http.StatusNotFound {
			t.Errorf("expected 404 for unknown kind, got %d", w.Code)
		}
	})

	t.Run("Refresh requires admin", func(t *testing.T) {
		w := post(r, "/api/insights/refresh", viewerToken, nil)
		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", w.Code)
		}
	})

	t.Run("Refresh regenerates every kind", func(t *testing.T) {
		before := get(r, "/api/insights/sales", token)
		var old models.Insight
		json.NewDecoder(before.Body).Decode(&old)

		w := post(r, "/api/insights/refresh", token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 OK, got %d", w.Code)
		}
		var resp handler.InsightsResponse
		json.NewDecoder(w.Body).Decode(&resp)
		if len(resp.Insights) != len(models.InsightKinds) {
			t.Fatalf("expected every kind, got %d", len(resp.Insights))
		}
		if resp.Insights[1].ID == old.ID {
			t.Error("expected a freshly generated sales insight")
		}
	})
}

func TestInsightHandlersBackendDown(t *testing.T) {
	t.Cleanup(resetBackend)
	t.Cleanup(clearInsights)
	clearInsights()
	r := newRouter()

	client.FailWith(errors.New("connection refused"))
	w := get(r, "/api/insights/sales", token)
	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", w.Code)
	}
}
