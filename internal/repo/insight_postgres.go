package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rogerio-castellano/wabot-dashboard/internal/models"
)

type PostgresInsightRepository struct {
	db *sql.DB
}

func NewPostgresInsightRepository(db *sql.DB) *PostgresInsightRepository {
	return &PostgresInsightRepository{db: db}
}

func (r *PostgresInsightRepository) Save(in models.Insight) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	highlights, err := json.Marshal(in.Highlights)
	if err != nil {
		return fmt.Errorf("encode highlights: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO insights (id, kind, title, summary, highlights, source, provider, model, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		in.ID, in.Kind, in.Title, in.Summary, string(highlights), in.Source, in.Provider, in.Model, in.GeneratedAt)
	return err
}

func (r *PostgresInsightRepository) Latest(kind string) (models.Insight, error) {
	history, err := r.History(kind, 1)
	if err != nil {
		return models.Insight{}, err
	}
	if len(history) == 0 {
		return models.Insight{}, ErrInsightNotFound
	}
	return history[0], nil
}

func (r *PostgresInsightRepository) History(kind string, limit int) ([]models.Insight, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, title, summary, highlights, source, provider, model, generated_at
		FROM insights
		WHERE kind = $1
		ORDER BY generated_at DESC
		LIMIT $2`, kind, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	insights := []models.Insight{}
	for rows.Next() {
		var in models.Insight
		var highlights string
		if err := rows.Scan(&in.ID, &in.Kind, &in.Title, &in.Summary, &highlights, &in.Source, &in.Provider, &in.Model, &in.GeneratedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(highlights), &in.Highlights); err != nil {
			return nil, fmt.Errorf("decode highlights for insight %s: %w", in.ID, err)
		}
		insights = append(insights, in)
	}
	if err := rows.Err(); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return insights, nil
}
