package submission

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=submission

import (
	"context"

	"github.com/akeren/event-rsvp/internal/models"
	"github.com/akeren/event-rsvp/internal/rsvp"
	apperrors "github.com/akeren/event-rsvp/pkg/errors"
	"gorm.io/gorm"
)

type SubmissionRepository interface {
	// Create appends a submission. The store assigns the ID; CreatedAt must already be set.
	Create(ctx context.Context, submission *models.Submission) (*models.Submission, error)
	// FindAll returns every submission, newest first.
	FindAll(ctx context.Context) ([]*models.Submission, error)
	// Summarize aggregates the KPI block over every stored submission.
	Summarize(ctx context.Context) (rsvp.Summary, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (sr *submissionRepository) Create(ctx context.Context, submission *models.Submission) (*models.Submission, error) {
	if err := sr.db.WithContext(ctx).Create(submission).Error; err != nil {
		if apperrors.IsDuplicateKeyError(err) {
			return nil, apperrors.NewConflictError("Submission already exists", err)
		}
		return nil, apperrors.NewDatabaseError("unable to save submission", err)
	}

	return submission, nil
}

func (sr *submissionRepository) FindAll(ctx context.Context) ([]*models.Submission, error) {
	var submissions []*models.Submission

	if err := sr.db.WithContext(ctx).Order("created_at DESC").Find(&submissions).Error; err != nil {
		return nil, apperrors.NewDatabaseError("unable to fetch submissions", err)
	}

	return submissions, nil
}

type summaryRow struct {
	Total       int
	VegCount    int
	NonVegCount int
}

func (sr *submissionRepository) Summarize(ctx context.Context) (rsvp.Summary, error) {
	var row summaryRow

	err := sr.db.WithContext(ctx).
		Model(&models.Submission{}).
		Select("COUNT(*) AS total, COALESCE(SUM(veg), 0) AS veg_count, COALESCE(SUM(non_veg), 0) AS non_veg_count").
		Scan(&row).Error
	if err != nil {
		return rsvp.Summary{}, apperrors.NewDatabaseError("unable to summarize submissions", err)
	}

	return rsvp.Summary{
		Total:       row.Total,
		TotalPeople: row.VegCount + row.NonVegCount,
		VegCount:    row.VegCount,
		NonVegCount: row.NonVegCount,
	}, nil
}
