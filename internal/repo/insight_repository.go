package repo

import (
	"errors"

	"github.com/rogerio-castellano/wabot-dashboard/internal/models"
)

var ErrInsightNotFound = errors.New("insight not found")

// InsightRepository keeps every generated insight so the dashboard can show
// how the narrative changed over time.
type InsightRepository interface {
	Save(insight models.Insight) error
	Latest(kind string) (models.Insight, error)
	// History returns up to limit insights of kind, newest first.
	History(kind string, limit int) ([]models.Insight, error)
}
