package format

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCurrencyIDR(t *testing.T) {
	f := New("IDR", "id")
	got := f.Currency(1250000)
	assert.True(t, strings.HasSuffix(got, "1.250.000"), got)
	assert.NotContains(t, got, ",")
}

func TestCurrencyUSD(t *testing.T) {
	f := New("usd", "en")
	got := f.Currency(1234.5)
	assert.True(t, strings.HasSuffix(got, "1,234.50"), got)
}

func TestNewFallsBackOnUnknownCodes(t *testing.T) {
	f := New("???", "!!")
	assert.True(t, strings.HasSuffix(f.Currency(1000), "1.000"))
}

func TestPercent(t *testing.T) {
	f := New("USD", "en")
	assert.Equal(t, "12.5%", f.Percent(12.5))
	assert.Equal(t, "+3%", f.SignedPercent(3))
	assert.Equal(t, "-4.2%", f.SignedPercent(-4.2))
}

func TestCompactNumber(t *testing.T) {
	tests := map[float64]string{
		950:        "950",
		1200:       "1.2K",
		1000:       "1K",
		3400000:    "3.4M",
		2500000000: "2.5B",
		-1500:      "-1.5K",
	}
	for in, want := range tests {
		assert.Equal(t, want, CompactNumber(in), "input %v", in)
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"zero", time.Time{}, "never"},
		{"future", now.Add(time.Hour), "just now"},
		{"seconds", now.Add(-10 * time.Second), "just now"},
		{"one minute", now.Add(-time.Minute), "1 minute ago"},
		{"minutes", now.Add(-5 * time.Minute), "5 minutes ago"},
		{"hours", now.Add(-3 * time.Hour), "3 hours ago"},
		{"days", now.Add(-72 * time.Hour), "3 days ago"},
		{"months", now.Add(-65 * 24 * time.Hour), "2 months ago"},
		{"years", now.Add(-800 * 24 * time.Hour), "2 years ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeTime(tt.t, now))
		})
	}
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "Mar 2024", MonthLabel("2024-03"))
	assert.Equal(t, "garbage", MonthLabel("garbage"))
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "+6281*****7890", MaskPhone("+6281234567890"))
	assert.Equal(t, "12345", MaskPhone("12345"))
}

func TestDate(t *testing.T) {
	assert.Equal(t, "-", Date(time.Time{}))
	assert.Equal(t, "02 Mar 2024", Date(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)))
}
