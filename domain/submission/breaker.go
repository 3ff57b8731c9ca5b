package submission

import (
	"context"
	"errors"

	"github.com/akeren/event-rsvp/internal/log"
	"github.com/akeren/event-rsvp/internal/models"
	"github.com/akeren/event-rsvp/internal/rsvp"
	"github.com/akeren/event-rsvp/pkg/circuitbreaker"
	apperrors "github.com/akeren/event-rsvp/pkg/errors"
)

const storeUnavailableMessage = "Submissions are temporarily unavailable. Please try again shortly."

// breakerRepository fails fast with 503 while the store keeps failing, instead of letting every
// request wait out its own timeout.
type breakerRepository struct {
	next    SubmissionRepository
	breaker circuitbreaker.CircuitBreaker
}

// NewBreakerRepository wraps next. Only database errors count against the circuit; cancelled
// requests and validation failures do not.
func NewBreakerRepository(next SubmissionRepository, config *circuitbreaker.Config, logger *log.Logger) SubmissionRepository {
	if config == nil {
		config = circuitbreaker.DefaultConfig()
	}
	config.IsFailure = func(err error) bool {
		if err == nil || errors.Is(err, context.Canceled) {
			return false
		}
		return apperrors.GetErrorType(err) == apperrors.ErrorTypeDatabaseError
	}
	if logger != nil {
		config.OnStateChange = func(from, to circuitbreaker.CircuitState) {
			logger.Warn("Submission store circuit changed state", "from", from.String(), "to", to.String())
		}
	}

	return &breakerRepository{next: next, breaker: circuitbreaker.NewCircuitBreaker(config)}
}

func (br *breakerRepository) call(fn func() error) error {
	err := br.breaker.Call(fn)
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return apperrors.NewServiceUnavailableError(storeUnavailableMessage, err)
	}
	return err
}

func (br *breakerRepository) Create(ctx context.Context, submission *models.Submission) (*models.Submission, error) {
	var created *models.Submission
	err := br.call(func() error {
		var err error
		created, err = br.next.Create(ctx, submission)
		return err
	})
	return created, err
}

func (br *breakerRepository) FindAll(ctx context.Context) ([]*models.Submission, error) {
	var submissions []*models.Submission
	err := br.call(func() error {
		var err error
		submissions, err = br.next.FindAll(ctx)
		return err
	})
	return submissions, err
}

func (br *breakerRepository) Summarize(ctx context.Context) (rsvp.Summary, error) {
	var summary rsvp.Summary
	err := br.call(func() error {
		var err error
		summary, err = br.next.Summarize(ctx)
		return err
	})
	return summary, err
}
