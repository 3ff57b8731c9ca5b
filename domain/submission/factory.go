package submission

import (
	"github.com/akeren/event-rsvp/config/router"
	"github.com/akeren/event-rsvp/internal/log"
	"github.com/akeren/event-rsvp/internal/rsvp"
	"github.com/akeren/event-rsvp/pkg/circuitbreaker"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type SubmissionServiceFactory interface {
	CreateService() SubmissionService
	CreateController(authenticate router.BearerValidator) *router.RESTController
}

type DefaultSubmissionServiceFactory struct {
	db       *gorm.DB
	logger   *log.Logger
	codes    rsvp.CodeChecker
	registry prometheus.Registerer
	breaker  *circuitbreaker.Config

	service SubmissionService
}

// NewSubmissionServiceFactory wires the gorm repository behind a circuit breaker. codes may be nil.
func NewSubmissionServiceFactory(db *gorm.DB, logger *log.Logger, codes rsvp.CodeChecker, registry prometheus.Registerer) *DefaultSubmissionServiceFactory {
	return &DefaultSubmissionServiceFactory{
		db:       db,
		logger:   logger,
		codes:    codes,
		registry: registry,
		breaker:  circuitbreaker.DefaultConfig(),
	}
}

// CreateService builds the service once; metrics can only be registered a single time.
func (f *DefaultSubmissionServiceFactory) CreateService() SubmissionService {
	if f.service != nil {
		return f.service
	}

	repository := NewBreakerRepository(NewSubmissionRepository(f.db), f.breaker, f.logger)
	f.service = NewSubmissionService(f.logger, repository, f.codes, WithMetrics(NewMetrics(f.registry)))
	return f.service
}

func (f *DefaultSubmissionServiceFactory) CreateController(authenticate router.BearerValidator) *router.RESTController {
	return NewSubmissionController(f.CreateService(), authenticate)
}
