package admin

import (
	"github.com/akeren/event-rsvp/config/router"
	"github.com/akeren/event-rsvp/internal/log"
	"github.com/prometheus/client_golang/prometheus"
)

type SessionServiceFactory interface {
	CreateService() SessionService
	CreateController() *router.RESTController
}

type DefaultSessionServiceFactory struct {
	logger   *log.Logger
	gate     PasswordChecker
	sessions Sessions
	registry prometheus.Registerer

	service SessionService
}

func NewSessionServiceFactory(logger *log.Logger, gate PasswordChecker, sessions Sessions, registry prometheus.Registerer) *DefaultSessionServiceFactory {
	return &DefaultSessionServiceFactory{
		logger:   logger,
		gate:     gate,
		sessions: sessions,
		registry: registry,
	}
}

// CreateService builds the service once so its login counter is registered a single time.
func (f *DefaultSessionServiceFactory) CreateService() SessionService {
	if f.service == nil {
		f.service = NewSessionService(f.logger, f.gate, f.sessions, f.registry)
	}
	return f.service
}

func (f *DefaultSessionServiceFactory) CreateController() *router.RESTController {
	return NewSessionController(f.CreateService())
}
