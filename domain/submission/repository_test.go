package submission

import (
	"context"
	"testing"
	"time"

	"github.com/akeren/event-rsvp/internal/models"
	"github.com/akeren/event-rsvp/internal/rsvp"
	apperrors "github.com/akeren/event-rsvp/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestRepository(t *testing.T) SubmissionRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Submission{}))
	return NewSubmissionRepository(db)
}

func TestSubmissionRepository_CreateAndSummarize(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	first, err := repo.Create(ctx, &models.Submission{Name: "A", Email: "a@x.com", Code: "c", Veg: 2, NonVeg: 1, CreatedAt: now})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	_, err = repo.Create(ctx, &models.Submission{Name: "B", Email: "b@x.com", Code: "c", NonVeg: 3, CreatedAt: now.Add(time.Minute)})
	require.NoError(t, err)

	rows, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "B", rows[0].Name)

	summary, err := repo.Summarize(ctx)
	require.NoError(t, err)
	assert.Equal(t, rsvp.Summary{Total: 2, TotalPeople: 6, VegCount: 2, NonVegCount: 4}, summary)
}

func TestSubmissionRepository_DuplicateIDIsAConflict(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	row := func() *models.Submission {
		return &models.Submission{ID: "fixed-id", Name: "A", Email: "a@x.com", Code: "c", Veg: 1, CreatedAt: time.Now()}
	}

	_, err := repo.Create(ctx, row())
	require.NoError(t, err)

	_, err = repo.Create(ctx, row())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeConflict, apperrors.GetErrorType(err))
	assert.Equal(t, apperrors.StatusConflict, apperrors.HTTPStatusCode(err))
}
