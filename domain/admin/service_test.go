package admin

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/akeren/event-rsvp/internal/log"
	"github.com/akeren/event-rsvp/internal/session"
	apperrors "github.com/akeren/event-rsvp/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var issuedAt = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func issuedSession() *session.Session {
	return &session.Session{
		ID:        "sess-1",
		Token:     "signed.token.value",
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(12 * time.Hour),
	}
}

type serviceFixture struct {
	service  SessionService
	gate     *MockPasswordChecker
	sessions *MockSessions
	registry *prometheus.Registry
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	reg := prometheus.NewRegistry()
	gate := NewMockPasswordChecker(ctrl)
	sessions := NewMockSessions(ctrl)

	return &serviceFixture{
		service:  NewSessionService(log.NewLogger(io.Discard), gate, sessions, reg),
		gate:     gate,
		sessions: sessions,
		registry: reg,
	}
}

func (f *serviceFixture) logins(outcome string) float64 {
	return testutil.ToFloat64(f.service.(*sessionService).logins.WithLabelValues(outcome))
}

func TestSessionService_Login(t *testing.T) {
	t.Run("correct password issues a session", func(t *testing.T) {
		f := newFixture(t)
		f.gate.EXPECT().Verify("admin-pass").Return(true)
		f.sessions.EXPECT().Issue(gomock.Any()).Return(issuedSession(), nil)

		resp, err := f.service.Login(context.Background(), &LoginRequest{Password: "admin-pass"})

		require.NoError(t, err)
		assert.Equal(t, "signed.token.value", resp.Token)
		assert.Equal(t, "2024-05-01T09:00:00Z", resp.IssuedAt)
		assert.Equal(t, "2024-05-01T21:00:00Z", resp.ExpiresAt)
		assert.Equal(t, 1.0, f.logins("accepted"))
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		f := newFixture(t)
		f.gate.EXPECT().Verify("nope").Return(false)

		resp, err := f.service.Login(context.Background(), &LoginRequest{Password: "nope"})

		assert.Nil(t, resp)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeUnauthorized, apperrors.GetErrorType(err))
		assert.Equal(t, IncorrectPasswordMessage, apperrors.GetHumanReadableMessage(err))
		assert.Equal(t, 1.0, f.logins("rejected"))
	})

	t.Run("nil request is rejected without consulting the gate", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.Login(context.Background(), nil)

		assert.Equal(t, apperrors.ErrorTypeUnauthorized, apperrors.GetErrorType(err))
	})

	t.Run("signing failure is an internal error", func(t *testing.T) {
		f := newFixture(t)
		f.gate.EXPECT().Verify("admin-pass").Return(true)
		f.sessions.EXPECT().Issue(gomock.Any()).Return(nil, errors.New("hmac broke"))

		_, err := f.service.Login(context.Background(), &LoginRequest{Password: "admin-pass"})

		assert.Equal(t, apperrors.ErrorTypeInternalServerError, apperrors.GetErrorType(err))
		assert.Equal(t, "An unexpected error occurred", apperrors.GetHumanReadableMessage(err))
		assert.Equal(t, 1.0, f.logins("error"))
	})
}

func TestSessionService_Authenticate(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantType string
	}{
		{"expired token", session.ErrInvalidSession, apperrors.ErrorTypeUnauthorized},
		{"revoked token", session.ErrRevoked, apperrors.ErrorTypeUnauthorized},
		{"revocation store down", errors.New("redis: connection refused"), apperrors.ErrorTypeServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.sessions.EXPECT().Validate(gomock.Any(), "tok").Return(nil, tc.err)

			got, err := f.service.Authenticate(context.Background(), "tok")

			assert.Nil(t, got)
			assert.Equal(t, tc.wantType, apperrors.GetErrorType(err))
		})
	}

	t.Run("valid token resolves the session", func(t *testing.T) {
		f := newFixture(t)
		current := issuedSession()
		f.sessions.EXPECT().Validate(gomock.Any(), "tok").Return(current, nil)

		got, err := f.service.Authenticate(context.Background(), "tok")

		require.NoError(t, err)
		assert.Same(t, current, got)
	})
}

func TestSessionService_CurrentOmitsToken(t *testing.T) {
	f := newFixture(t)
	current := issuedSession()
	current.Token = ""
	f.sessions.EXPECT().Validate(gomock.Any(), "tok").Return(current, nil)

	resp, err := f.service.Current(context.Background(), "tok")

	require.NoError(t, err)
	assert.Empty(t, resp.Token)
	assert.Equal(t, "2024-05-01T21:00:00Z", resp.ExpiresAt)
}

func TestSessionService_Logout(t *testing.T) {
	t.Run("revokes the token", func(t *testing.T) {
		f := newFixture(t)
		f.sessions.EXPECT().Revoke(gomock.Any(), "tok").Return(nil)

		assert.NoError(t, f.service.Logout(context.Background(), "tok"))
	})

	t.Run("store failure surfaces as internal error", func(t *testing.T) {
		f := newFixture(t)
		f.sessions.EXPECT().Revoke(gomock.Any(), "tok").Return(errors.New("redis down"))

		err := f.service.Logout(context.Background(), "tok")

		assert.Equal(t, apperrors.ErrorTypeInternalServerError, apperrors.GetErrorType(err))
	})
}
