package admin

//go:generate mockgen -source=service.go -destination=mock_sessions.go -package=admin -exclude_interfaces=SessionService

import (
	"context"
	"errors"

	"github.com/akeren/event-rsvp/internal/log"
	"github.com/akeren/event-rsvp/internal/session"
	apperrors "github.com/akeren/event-rsvp/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	IncorrectPasswordMessage = "Incorrect password. Please try again."
	sessionInvalidMessage    = "Session expired or invalid"
)

// PasswordChecker is the admin gate.
type PasswordChecker interface {
	Verify(password string) bool
}

// Sessions issues, validates and revokes admin sessions.
type Sessions interface {
	Issue(ctx context.Context) (*session.Session, error)
	Validate(ctx context.Context, token string) (*session.Session, error)
	Revoke(ctx context.Context, token string) error
}

type SessionService interface {
	// Login exchanges the admin password for a session.
	Login(ctx context.Context, req *LoginRequest) (*SessionResponse, error)
	// Current describes the session carried by token.
	Current(ctx context.Context, token string) (*SessionResponse, error)
	// Logout revokes the session carried by token until it would have expired.
	Logout(ctx context.Context, token string) error
	// Authenticate backs the bearer middleware on guarded routes.
	Authenticate(ctx context.Context, token string) (any, error)
}

type sessionService struct {
	logger   *log.Logger
	gate     PasswordChecker
	sessions Sessions
	logins   *prometheus.CounterVec
}

// NewSessionService registers rsvp_admin_logins_total on reg when reg is not nil.
func NewSessionService(logger *log.Logger, gate PasswordChecker, sessions Sessions, reg prometheus.Registerer) SessionService {
	logins := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rsvp_admin_logins_total",
			Help: "Admin unlock attempts by outcome.",
		},
		[]string{"outcome"},
	)
	if reg != nil {
		reg.MustRegister(logins)
	}

	return &sessionService{logger: logger, gate: gate, sessions: sessions, logins: logins}
}

func (s *sessionService) Login(ctx context.Context, req *LoginRequest) (*SessionResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil || !s.gate.Verify(req.Password) {
		s.logins.WithLabelValues("rejected").Inc()
		logger.Warn("Admin unlock rejected")
		return nil, apperrors.NewUnauthorizedError(IncorrectPasswordMessage, nil)
	}

	issued, err := s.sessions.Issue(ctx)
	if err != nil {
		s.logins.WithLabelValues("error").Inc()
		logger.Error("Failed to issue admin session", "error", err)
		return nil, apperrors.NewInternalServerError("unable to start session", err)
	}

	s.logins.WithLabelValues("accepted").Inc()
	logger.Info("Admin session issued", "session_id", issued.ID, "expires_at", issued.ExpiresAt)

	response := ToSessionResponse(issued)
	return &response, nil
}

func (s *sessionService) Current(ctx context.Context, token string) (*SessionResponse, error) {
	current, err := s.validate(ctx, token)
	if err != nil {
		return nil, err
	}

	response := ToSessionResponse(current)
	return &response, nil
}

func (s *sessionService) Logout(ctx context.Context, token string) error {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if err := s.sessions.Revoke(ctx, token); err != nil {
		logger.Error("Failed to revoke admin session", "error", err)
		return apperrors.NewInternalServerError("unable to end session", err)
	}

	logger.Info("Admin session revoked")
	return nil
}

func (s *sessionService) Authenticate(ctx context.Context, token string) (any, error) {
	return s.validate(ctx, token)
}

func (s *sessionService) validate(ctx context.Context, token string) (*session.Session, error) {
	current, err := s.sessions.Validate(ctx, token)
	if err == nil {
		return current, nil
	}

	if errors.Is(err, session.ErrInvalidSession) || errors.Is(err, session.ErrRevoked) {
		return nil, apperrors.NewUnauthorizedError(sessionInvalidMessage, err)
	}

	log.GetLoggerInstanceFromContext(ctx, s.logger).Error("Session lookup failed", "error", err)
	return nil, apperrors.NewServiceUnavailableError("unable to verify session", err)
}
