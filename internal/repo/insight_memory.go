package repo

import (
	"slices"
	"sync"

	"github.com/rogerio-castellano/wabot-dashboard/internal/models"
)

type InMemoryInsightRepository struct {
	mu       sync.RWMutex
	insights []models.Insight
}

func NewInMemoryInsightRepository() *InMemoryInsightRepository {
	return &InMemoryInsightRepository{
		insights: []models.Insight{},
	}
}

func (r *InMemoryInsightRepository) Save(insight models.Insight) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	insight.Highlights = slices.Clone(insight.Highlights)
	r.insights = append(r.insights, insight)
	return nil
}

func (r *InMemoryInsightRepository) Latest(kind string) (models.Insight, error) {
	history, _ := r.History(kind, 1)
	if len(history) == 0 {
		return models.Insight{}, ErrInsightNotFound
	}
	return history[0], nil
}

func (r *InMemoryInsightRepository) History(kind string, limit int) ([]models.Insight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Insight{}
	for _, in := range r.insights {
		if in.Kind == kind {
			out = append(out, in)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Insight) int { return b.GeneratedAt.Compare(a.GeneratedAt) })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *InMemoryInsightRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insights = []models.Insight{}
}
