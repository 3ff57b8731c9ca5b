package config

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/akeren/event-rsvp/internal/gate"
	"github.com/akeren/event-rsvp/internal/log"
	"github.com/akeren/event-rsvp/internal/rsvp"
	"github.com/akeren/event-rsvp/internal/session"
	"github.com/akeren/event-rsvp/pkg/constants"
	"github.com/akeren/event-rsvp/pkg/utils"
)

// EventDetails is the copy shown on the public RSVP page.
type EventDetails struct {
	Title       string
	Date        string
	Venue       string
	Description string
}

type RSVPConfig struct {
	// SubmitPasswordDigest gates the public form. Empty disables the check.
	SubmitPasswordDigest string
	AdminPasswordDigest  string
	NormalizePasswords   bool

	SessionSecret string
	SessionTTL    time.Duration

	Event           EventDetails
	DisplayLocale   string
	DisplayTimezone string
	ClientTimeout   time.Duration
}

func NewRSVPConfig() *RSVPConfig {
	return &RSVPConfig{
		SubmitPasswordDigest: sanitizeEnv(utils.GetEnvTrimmed("SUBMIT_PASSWORD_DIGEST")),
		AdminPasswordDigest:  sanitizeEnv(utils.GetEnvTrimmed("ADMIN_PASSWORD_DIGEST")),
		NormalizePasswords:   utils.GetEnvBool("PASSWORD_NORMALIZE", true),
		SessionSecret:        sanitizeEnv(utils.GetEnvTrimmed("SESSION_SECRET")),
		SessionTTL:           utils.GetEnvPositiveDuration("SESSION_TTL", constants.DefaultSessionTTL),
		Event: EventDetails{
			Title:       utils.GetEnvTrimmedOrDefault("EVENT_TITLE", "You're invited"),
			Date:        utils.GetEnvTrimmed("EVENT_DATE"),
			Venue:       utils.GetEnvTrimmed("EVENT_VENUE"),
			Description: utils.GetEnvTrimmed("EVENT_DESCRIPTION"),
		},
		DisplayLocale:   utils.GetEnvTrimmedOrDefault("DISPLAY_LOCALE", constants.DefaultDisplayLocale),
		DisplayTimezone: utils.GetEnvTrimmedOrDefault("DISPLAY_TIMEZONE", "UTC"),
		ClientTimeout:   utils.GetEnvPositiveDuration("CLIENT_TIMEOUT", constants.DefaultClientTimeout),
	}
}

// NewSubmitGate returns nil when no submit digest is configured.
func (c *RSVPConfig) NewSubmitGate() (*gate.Gate, error) {
	if c.SubmitPasswordDigest == "" {
		return nil, nil
	}

	g, err := gate.New(gate.Config{ExpectedDigest: c.SubmitPasswordDigest, Normalize: c.NormalizePasswords})
	if err != nil {
		return nil, fmt.Errorf("SUBMIT_PASSWORD_DIGEST: %w", err)
	}
	return g, nil
}

func (c *RSVPConfig) NewAdminGate() (*gate.Gate, error) {
	if c.AdminPasswordDigest == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD_DIGEST is required (generate one with `cli hash-password`)")
	}

	g, err := gate.New(gate.Config{ExpectedDigest: c.AdminPasswordDigest, Normalize: c.NormalizePasswords})
	if err != nil {
		return nil, fmt.Errorf("ADMIN_PASSWORD_DIGEST: %w", err)
	}
	return g, nil
}

// NewSessionManager signs sessions with SESSION_SECRET. Outside production a missing secret is
// replaced by a random one, which logs every admin out on restart.
func (c *RSVPConfig) NewSessionManager(logger *log.Logger, appEnv string, store session.RevocationStore) (*session.Manager, error) {
	secret := []byte(c.SessionSecret)

	if len(secret) == 0 {
		if !IsDevelopmentEnv(appEnv) {
			return nil, fmt.Errorf("SESSION_SECRET is required when %s=%q", AppEnvKey, appEnv)
		}

		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
		logger.Warn("SESSION_SECRET not set; using an ephemeral secret")
	}

	return session.NewManager(session.Config{
		Secret: secret,
		TTL:    c.SessionTTL,
		Issuer: utils.OTelServiceName(),
	}, store)
}

func (c *RSVPConfig) NewFormatter() (*rsvp.Formatter, error) {
	location, err := time.LoadLocation(strings.TrimSpace(c.DisplayTimezone))
	if err != nil {
		return nil, fmt.Errorf("DISPLAY_TIMEZONE: %w", err)
	}

	return rsvp.NewFormatter(c.DisplayLocale, location)
}
