package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/rogerio-castellano/wabot-dashboard/internal/backend"
)

func TestQueryTime(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    time.Time
		wantErr bool
	}{
		{"empty", "", time.Time{}, false},
		{"rfc3339 utc", "2024-03-10T08:00:00Z", time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC), false},
		{"plus decoded as space", "2024-03-10T15:00:00 07:00", time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC), false},
		{"fractional seconds with offset", "2024-03-10T15:00:00.250 07:00", time.Date(2024, 3, 10, 8, 0, 0, 250_000_000, time.UTC), false},
		{"fractional seconds utc", "2024-03-10T08:00:00.5Z", time.Date(2024, 3, 10, 8, 0, 0, 500_000_000, time.UTC), false},
		{"date only", "2024-03-10", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), false},
		{"garbage", "last week", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := queryTime(url.Values{"since": {tt.raw}}, "since")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.raw == "" {
				if got != nil {
					t.Errorf("expected nil, got %v", got)
				}
				return
			}
			if !got.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPagination(t *testing.T) {
	offset, limit, err := pagination(url.Values{"offset": {"10"}, "limit": {"5"}})
	if err != nil || *offset != 10 || *limit != 5 {
		t.Fatalf("unexpected result %v %v %v", offset, limit, err)
	}

	offset, limit, err = pagination(url.Values{})
	if err != nil || offset != nil || limit != nil {
		t.Errorf("expected no pagination, got %v %v %v", offset, limit, err)
	}

	for _, q := range []url.Values{{"limit": {"0"}}, {"limit": {"-1"}}, {"offset": {"-1"}}, {"limit": {"ten"}}} {
		if _, _, err := pagination(q); err == nil {
			t.Errorf("expected %v to be rejected", q)
		}
	}
}

func TestBoundedInt(t *testing.T) {
	q := url.Values{"days": {"400"}}
	if v, _ := boundedInt(q, "days", 30, 365); v != 365 {
		t.Errorf("expected cap at 365, got %d", v)
	}
	if v, _ := boundedInt(url.Values{}, "days", 30, 365); v != 30 {
		t.Errorf("expected default 30, got %d", v)
	}
	if _, err := boundedInt(url.Values{"days": {"0"}}, "days", 30, 365); err == nil {
		t.Error("expected zero to be rejected")
	}
}

func TestPageMeta(t *testing.T) {
	m := pageMeta(42, nil, nil)
	if m.TotalCount != 42 || m.Offset != 0 || m.Limit != 100 {
		t.Errorf("unexpected defaults %+v", m)
	}
	offset, limit := 5, 500
	m = pageMeta(42, &offset, &limit)
	if m.Offset != 5 || m.Limit != 100 {
		t.Errorf("expected limit capped at 100, got %+v", m)
	}
}

func TestBackendError(t *testing.T) {
	w := httptest.NewRecorder()
	backendError(w, backend.ErrNotFound, "user")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	backendError(w, &backend.APIError{StatusCode: http.StatusInternalServerError}, "user")
	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	backendError(w, errors.New("timeout"), "users")
	if w.Body.String() != "could not fetch users\n" {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}
