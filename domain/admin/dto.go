package admin

import (
	"github.com/akeren/event-rsvp/internal/session"
	"github.com/akeren/event-rsvp/pkg/constants"
)

type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

type SessionResponse struct {
	Token     string `json:"token,omitempty"`
	IssuedAt  string `json:"issuedAt"`
	ExpiresAt string `json:"expiresAt"`
}

func ToSessionResponse(s *session.Session) SessionResponse {
	if s == nil {
		return SessionResponse{}
	}
	return SessionResponse{
		Token:     s.Token,
		IssuedAt:  s.IssuedAt.UTC().Format(constants.RFC3339DateTimeFormat),
		ExpiresAt: s.ExpiresAt.UTC().Format(constants.RFC3339DateTimeFormat),
	}
}
