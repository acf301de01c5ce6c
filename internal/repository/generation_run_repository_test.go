package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/unischeduler-api/internal/models"
)

func TestGenerationRunRepositoryInsert(t *testing.T) {
	db, mock, cleanup := newSQLMock(t)
	defer cleanup()
	repo := NewGenerationRunRepository(db)

	mock.ExpectExec("INSERT INTO generation_runs").
		WithArgs(sqlmock.AnyArg(), "CS2114,MATH1226", 4, 2, int64(900), nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	run := &models.GenerationRun{Courses: "CS2114,MATH1226", Classes: 4, Attempts: 2, TokensUsed: 900}
	require.NoError(t, repo.Insert(context.Background(), run))
	assert.NotEmpty(t, run.ID)
	assert.False(t, run.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerationRunRepositoryListRecent(t *testing.T) {
	db, mock, cleanup := newSQLMock(t)
	defer cleanup()
	repo := NewGenerationRunRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "courses", "classes", "attempts", "tokens_used", "email", "created_at"}).
		AddRow("run-2", "CS2114", 3, 1, int64(400), "student@vt.edu", now).
		AddRow("run-1", "MATH1226", 0, 5, int64(2000), nil, now.Add(-time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, courses, classes, attempts, tokens_used, email, created_at FROM generation_runs ORDER BY created_at DESC LIMIT $1")).
		WithArgs(20).
		WillReturnRows(rows)

	runs, err := repo.ListRecent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	require.NotNil(t, runs[0].Email)
	assert.Equal(t, "student@vt.edu", *runs[0].Email)
	assert.Nil(t, runs[1].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}
