package models

import "time"

// GenerationRun records the outcome of one scheduling request for the run log.
type GenerationRun struct {
	ID         string    `db:"id" json:"id"`
	Courses    string    `db:"courses" json:"courses"`
	Classes    int       `db:"classes" json:"classes"`
	Attempts   int       `db:"attempts" json:"attempts"`
	TokensUsed int64     `db:"tokens_used" json:"tokens_used"`
	Email      *string   `db:"email" json:"-"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// UsageSummary exposes the running token total.
type UsageSummary struct {
	TotalTokens int64     `json:"totalTokens"`
	ObservedAt  time.Time `json:"observedAt"`
}
