package submission

import (
	"context"
	"errors"
	"time"

	"github.com/akeren/event-rsvp/internal/log"
	"github.com/akeren/event-rsvp/internal/rsvp"
	apperrors "github.com/akeren/event-rsvp/pkg/errors"
)

const invalidSubmissionMessage = "Invalid request payload"

type SubmissionService interface {
	// CreateSubmission validates the request with the same rules as the form and stores it
	// with a server-assigned timestamp.
	CreateSubmission(ctx context.Context, req *CreateSubmissionRequest) (*SubmissionResponse, error)

	// ListSubmissions returns every submission ordered by spec.
	ListSubmissions(ctx context.Context, spec rsvp.SortSpec) ([]SubmissionResponse, error)

	// Summary returns the KPI block over every stored submission.
	Summary(ctx context.Context) (*SummaryResponse, error)
}

type submissionService struct {
	logger     *log.Logger
	repository SubmissionRepository
	validator  *rsvp.Validator
	metrics    *Metrics
	now        func() time.Time
}

type ServiceOption func(*submissionService)

func WithClock(now func() time.Time) ServiceOption {
	return func(s *submissionService) { s.now = now }
}

func WithMetrics(metrics *Metrics) ServiceOption {
	return func(s *submissionService) { s.metrics = metrics }
}

// NewSubmissionService builds the service. codes may be nil, in which case any non-empty code is accepted.
func NewSubmissionService(logger *log.Logger, repository SubmissionRepository, codes rsvp.CodeChecker, opts ...ServiceOption) SubmissionService {
	s := &submissionService{
		logger:     logger,
		repository: repository,
		validator:  rsvp.NewValidator(codes),
		metrics:    NewMetrics(nil),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *submissionService) CreateSubmission(ctx context.Context, req *CreateSubmissionRequest) (*SubmissionResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil {
		logger.Error("CreateSubmission received empty request")
		return nil, apperrors.NewInvalidRequestError("request cannot be nil", nil)
	}

	draft, fields := req.ToDraft()

	err := s.validator.Validate(draft)

	var validationErr *rsvp.ValidationError
	if errors.As(err, &validationErr) {
		fields = append(fields, validationErr.Fields...)
	}

	if len(fields) > 0 {
		if onlyCodeRejected(fields) {
			s.metrics.observe(outcomeUnauthorized)
			logger.Warn("Submission rejected: access code mismatch")
			return nil, apperrors.NewUnauthorizedError(rsvp.PasswordIncorrectMessage, nil)
		}

		s.metrics.observe(outcomeInvalid)
		logger.Info("Submission rejected: invalid fields", "fields", fieldNames(fields))
		return nil, apperrors.NewInvalidRequestError(invalidSubmissionMessage, err).WithDetails(fields)
	}

	if errors.Is(err, rsvp.ErrNoGuests) {
		s.metrics.observe(outcomeNoGuests)
		logger.Info("Submission rejected: no guests")
		return nil, apperrors.NewBusinessRuleError(rsvp.NoGuestsMessage, err)
	}

	if err != nil {
		s.metrics.observe(outcomeError)
		logger.Error("Submission validation failed unexpectedly", "error", err)
		return nil, apperrors.NewInternalServerError("validation failed", err)
	}

	model := ToSubmissionModel(draft)
	model.CreatedAt = s.now().UTC()

	created, err := s.repository.Create(ctx, model)
	if err != nil {
		s.metrics.observe(outcomeError)
		logger.Error("Failed to store submission", "error", err)
		return nil, err
	}

	s.metrics.observe(outcomeCreated)
	s.metrics.observeGuests(created.Veg, created.NonVeg)
	logger.Info("Submission stored", "id", created.ID, "people", created.Veg+created.NonVeg)

	response := ToSubmissionResponse(created)
	return &response, nil
}

func (s *submissionService) ListSubmissions(ctx context.Context, spec rsvp.SortSpec) ([]SubmissionResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	stored, err := s.repository.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to list submissions", "error", err)
		return nil, err
	}

	rows := make([]rsvp.Submission, 0, len(stored))
	for _, submission := range stored {
		rows = append(rows, ToRSVPSubmission(submission))
	}

	sorted := rsvp.Sort(rows, spec)

	responses := make([]SubmissionResponse, 0, len(sorted))
	for _, row := range sorted {
		responses = append(responses, FromRSVPSubmission(row))
	}

	return responses, nil
}

func (s *submissionService) Summary(ctx context.Context) (*SummaryResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	summary, err := s.repository.Summarize(ctx)
	if err != nil {
		logger.Error("Failed to summarize submissions", "error", err)
		return nil, err
	}

	response := ToSummaryResponse(summary)
	return &response, nil
}

// onlyCodeRejected is true when the code check is the sole failure: a wrong password, not a bad form.
func onlyCodeRejected(fields []rsvp.FieldError) bool {
	return len(fields) == 1 && fields[0].Field == "code" && fields[0].Message == rsvp.PasswordIncorrectMessage
}

func fieldNames(fields []rsvp.FieldError) []string {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Field)
	}
	return names
}
