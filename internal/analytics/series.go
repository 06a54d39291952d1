package analytics

import "time"

// Series is a chart-ready sequence of labelled values.
type Series struct {
	Name   string    `json:"name"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

func newSeries(name string, n int) Series {
	return Series{Name: name, Labels: make([]string, 0, n), Values: make([]float64, 0, n)}
}

func (s *Series) add(label string, value float64) {
	s.Labels = append(s.Labels, label)
	s.Values = append(s.Values, value)
}

func DailyRevenueSeries(points []DailyPoint) Series {
	s := newSeries("revenue", len(points))
	for _, p := range points {
		s.add(p.Date, p.Revenue)
	}
	return s
}

func DailyOrdersSeries(points []DailyPoint) Series {
	s := newSeries("orders", len(points))
	for _, p := range points {
		s.add(p.Date, float64(p.Orders))
	}
	return s
}

func MonthlyRevenueSeries(months []MonthlySummary) Series {
	s := newSeries("revenue", len(months))
	for _, m := range months {
		s.add(m.Month, m.Revenue)
	}
	return s
}

func MonthlyOrdersSeries(months []MonthlySummary) Series {
	s := newSeries("orders", len(months))
	for _, m := range months {
		s.add(m.Month, float64(m.Orders))
	}
	return s
}

func BreakdownSeries(name string, counts []StatusCount) Series {
	s := newSeries(name, len(counts))
	for _, c := range counts {
		s.add(c.Status, float64(c.Count))
	}
	return s
}

func TopProductsSeries(perf []ProductPerformance) Series {
	s := newSeries("revenue", len(perf))
	for _, p := range perf {
		s.add(p.Name, p.Revenue)
	}
	return s
}

// LastMonths trims a monthly report to the most recent n months ending at now.
func LastMonths(months []MonthlySummary, now time.Time, n int) []MonthlySummary {
	if n <= 0 {
		return months
	}
	cutoff := monthStart(now).AddDate(0, -(n - 1), 0).Format("2006-01")
	out := []MonthlySummary{}
	for _, m := range months {
		if m.Month >= cutoff {
			out = append(out, m)
		}
	}
	return out
}
