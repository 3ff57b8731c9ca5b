package constants

import "time"

// RFC 3339 date-time format string used for every timestamp on the wire.
const RFC3339DateTimeFormat = "2006-01-02T15:04:05Z07:00"

// Default rate limiting configuration
const (
	// DefaultRateLimitRequests is the default number of requests allowed per time window
	DefaultRateLimitRequests = 100
	// DefaultRateLimitWindow is the default time window for rate limiting
	DefaultRateLimitWindowMinutes = 1

	// SubmissionRateLimitRequests caps public RSVP writes per client IP per minute.
	SubmissionRateLimitRequests = 20
	// AdminLoginRateLimitRequests caps password attempts per client IP per minute.
	AdminLoginRateLimitRequests = 10
	// PageRateLimitRequests caps HTML page loads per client IP per minute.
	PageRateLimitRequests = 60
)

const (
	DefaultRequestTimeout = 30 * time.Second
	DefaultSessionTTL     = 12 * time.Hour
	DefaultDisplayLocale  = "en-US"
	// DefaultClientTimeout bounds each request the RSVP pages and rsvpclient make.
	DefaultClientTimeout  = 10 * time.Second
)

// DefaultRateLimitWindow returns the default rate limit window duration
func DefaultRateLimitWindow() time.Duration {
	return time.Duration(DefaultRateLimitWindowMinutes) * time.Minute
}
