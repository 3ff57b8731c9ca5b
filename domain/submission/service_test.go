package submission

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/akeren/event-rsvp/internal/gate"
	"github.com/akeren/event-rsvp/internal/log"
	"github.com/akeren/event-rsvp/internal/models"
	"github.com/akeren/event-rsvp/internal/rsvp"
	apperrors "github.com/akeren/event-rsvp/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func intPtr(n int) *int { return &n }

func newTestService(t *testing.T, repo SubmissionRepository, metrics *Metrics) SubmissionService {
	t.Helper()

	submitGate, err := gate.New(gate.Config{ExpectedDigest: gate.Digest("Party2024", true), Normalize: true})
	require.NoError(t, err)

	return NewSubmissionService(
		log.NewLogger(io.Discard),
		repo,
		submitGate,
		WithClock(func() time.Time { return fixedNow }),
		WithMetrics(metrics),
	)
}

func validRequest() *CreateSubmissionRequest {
	return &CreateSubmissionRequest{
		Name:   " Ana ",
		Email:  "ana@x.io",
		Code:   "party2024",
		Veg:    intPtr(2),
		NonVeg: intPtr(1),
	}
}

func TestSubmissionService_CreateSubmission(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := NewMockSubmissionRepository(ctrl)
	metrics := NewMetrics(prometheus.NewRegistry())
	service := newTestService(t, mockRepo, metrics)

	t.Run("successful creation stamps the server clock", func(t *testing.T) {
		mockRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, s *models.Submission) (*models.Submission, error) {
				assert.Equal(t, "Ana", s.Name)
				assert.Equal(t, "party2024", s.Code)
				assert.Equal(t, fixedNow, s.CreatedAt)
				s.ID = "sub-1"
				return s, nil
			})

		result, err := service.CreateSubmission(context.Background(), validRequest())

		require.NoError(t, err)
		assert.Equal(t, "sub-1", result.ID)
		assert.Equal(t, 2, result.Veg)
		assert.Equal(t, 1, result.NonVeg)
		assert.Equal(t, "2024-05-01T10:00:00Z", result.CreatedAt)
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.submissions.WithLabelValues(outcomeCreated)))
		assert.Equal(t, 2.0, testutil.ToFloat64(metrics.guests.WithLabelValues("veg")))
	})

	t.Run("password alias is accepted", func(t *testing.T) {
		req := validRequest()
		req.Code = ""
		req.Password = "PARTY2024"

		mockRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, s *models.Submission) (*models.Submission, error) {
				return s, nil
			})

		_, err := service.CreateSubmission(context.Background(), req)
		assert.NoError(t, err)
	})

	t.Run("zero guests is a business rule error and never reaches the store", func(t *testing.T) {
		req := validRequest()
		req.Veg = intPtr(0)
		req.NonVeg = intPtr(0)

		result, err := service.CreateSubmission(context.Background(), req)

		assert.Nil(t, result)
		assert.Equal(t, apperrors.ErrorTypeBusinessRule, apperrors.GetErrorType(err))
		assert.Equal(t, rsvp.NoGuestsMessage, apperrors.GetHumanReadableMessage(err))
		assert.Equal(t, apperrors.StatusBadRequest, apperrors.HTTPStatusCode(err))
	})

	t.Run("missing and malformed fields are listed", func(t *testing.T) {
		req := &CreateSubmissionRequest{Name: "   ", Email: "not-an-email", Code: "party2024", Veg: intPtr(1)}

		_, err := service.CreateSubmission(context.Background(), req)

		assert.Equal(t, apperrors.ErrorTypeInvalidRequest, apperrors.GetErrorType(err))
		fields, ok := apperrors.GetDetails(err).([]rsvp.FieldError)
		require.True(t, ok)

		names := fieldNames(fields)
		assert.ElementsMatch(t, []string{"nonVeg", "name", "email"}, names)
	})

	t.Run("wrong code alone is unauthorized", func(t *testing.T) {
		req := validRequest()
		req.Code = "guess"

		_, err := service.CreateSubmission(context.Background(), req)

		assert.Equal(t, apperrors.StatusUnauthorized, apperrors.HTTPStatusCode(err))
		assert.Equal(t, rsvp.PasswordIncorrectMessage, apperrors.GetHumanReadableMessage(err))
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.submissions.WithLabelValues(outcomeUnauthorized)))
	})

	t.Run("store failure hides the cause", func(t *testing.T) {
		mockRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			Return(nil, apperrors.NewDatabaseError("unable to save submission", errors.New("pq: relation does not exist")))

		result, err := service.CreateSubmission(context.Background(), validRequest())

		assert.Nil(t, result)
		assert.Equal(t, apperrors.StatusInternalServerError, apperrors.HTTPStatusCode(err))
		assert.Equal(t, "An unexpected error occurred", apperrors.GetHumanReadableMessage(err))
	})

	t.Run("nil request", func(t *testing.T) {
		_, err := service.CreateSubmission(context.Background(), nil)
		assert.Equal(t, apperrors.ErrorTypeInvalidRequest, apperrors.GetErrorType(err))
	})
}

func TestSubmissionService_NoSubmitGateOnlyRequiresCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := NewMockSubmissionRepository(ctrl)
	service := NewSubmissionService(log.NewLogger(io.Discard), mockRepo, nil)

	mockRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s *models.Submission) (*models.Submission, error) { return s, nil })

	req := validRequest()
	req.Code = "anything"
	_, err := service.CreateSubmission(context.Background(), req)
	assert.NoError(t, err)
}

func TestSubmissionService_ListSubmissions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := NewMockSubmissionRepository(ctrl)
	service := newTestService(t, mockRepo, NewMetrics(nil))

	stored := []*models.Submission{
		{ID: "2", Name: "bob", Veg: 0, NonVeg: 3, CreatedAt: fixedNow.Add(time.Hour)},
		{ID: "1", Name: "Ana", Veg: 2, NonVeg: 1, CreatedAt: fixedNow},
	}

	t.Run("default order is newest first", func(t *testing.T) {
		mockRepo.EXPECT().FindAll(gomock.Any()).Return(stored, nil)

		result, err := service.ListSubmissions(context.Background(), rsvp.DefaultSort())

		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, "2", result[0].ID)
	})

	t.Run("numeric column ascending", func(t *testing.T) {
		mockRepo.EXPECT().FindAll(gomock.Any()).Return(stored, nil)

		result, err := service.ListSubmissions(context.Background(), rsvp.SortSpec{Column: rsvp.ColumnNonVeg, Direction: rsvp.Asc})

		require.NoError(t, err)
		assert.Equal(t, "1", result[0].ID)
	})

	t.Run("repository error", func(t *testing.T) {
		mockRepo.EXPECT().FindAll(gomock.Any()).Return(nil, apperrors.NewDatabaseError("unable to fetch submissions", nil))

		result, err := service.ListSubmissions(context.Background(), rsvp.DefaultSort())

		assert.Error(t, err)
		assert.Nil(t, result)
	})
}

func TestSubmissionService_Summary(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := NewMockSubmissionRepository(ctrl)
	service := newTestService(t, mockRepo, NewMetrics(nil))

	mockRepo.EXPECT().Summarize(gomock.Any()).Return(rsvp.Summary{Total: 2, TotalPeople: 6, VegCount: 2, NonVegCount: 4}, nil)

	result, err := service.Summary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 6, result.TotalPeople)
	require.Len(t, result.Cards, 4)
	assert.Equal(t, "Total Submissions", result.Cards[0].Label)
}
