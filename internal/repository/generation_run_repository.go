package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/unischeduler-api/internal/models"
)

// GenerationRunRepository appends finished runs to the generation log.
type GenerationRunRepository struct {
	db *sqlx.DB
}

// NewGenerationRunRepository constructs the repository.
func NewGenerationRunRepository(db *sqlx.DB) *GenerationRunRepository {
	return &GenerationRunRepository{db: db}
}

// Insert stores a run, assigning an ID and timestamp when absent.
func (r *GenerationRunRepository) Insert(ctx context.Context, run *models.GenerationRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO generation_runs (id, courses, classes, attempts, tokens_used, email, created_at)
		VALUES (:id, :courses, :classes, :attempts, :tokens_used, :email, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, run); err != nil {
		return fmt.Errorf("insert generation run: %w", err)
	}
	return nil
}

// ListRecent returns the newest runs first.
func (r *GenerationRunRepository) ListRecent(ctx context.Context, limit int) ([]models.GenerationRun, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `SELECT id, courses, classes, attempts, tokens_used, email, created_at FROM generation_runs ORDER BY created_at DESC LIMIT $1`
	var runs []models.GenerationRun
	if err := r.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, fmt.Errorf("list generation runs: %w", err)
	}
	return runs, nil
}
