package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// usageCounter names the single row holding the all-time token total.
const usageCounter = "generator_tokens"

// UsageRepository keeps the running token total in postgres.
type UsageRepository struct {
	db *sqlx.DB
}

// NewUsageRepository constructs the repository.
func NewUsageRepository(db *sqlx.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// Add increments the total by tokens and returns the new total.
func (r *UsageRepository) Add(ctx context.Context, tokens int64) (int64, error) {
	const query = `INSERT INTO token_usage (counter, total_tokens, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (counter) DO UPDATE
		SET total_tokens = token_usage.total_tokens + EXCLUDED.total_tokens,
		    updated_at = NOW()
		RETURNING total_tokens`
	var total int64
	if err := r.db.QueryRowxContext(ctx, query, usageCounter, tokens).Scan(&total); err != nil {
		return 0, fmt.Errorf("add token usage: %w", err)
	}
	return total, nil
}

// Total returns the running total, zero when nothing was recorded yet.
func (r *UsageRepository) Total(ctx context.Context) (int64, error) {
	const query = `SELECT total_tokens FROM token_usage WHERE counter = $1`
	var total int64
	if err := r.db.GetContext(ctx, &total, query, usageCounter); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get token usage: %w", err)
	}
	return total, nil
}
