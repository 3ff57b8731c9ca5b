package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvBool(t *testing.T) {
	t.Setenv("RSVP_FLAG", "false")
	assert.False(t, GetEnvBool("RSVP_FLAG", true))

	t.Setenv("RSVP_FLAG", "nope")
	assert.True(t, GetEnvBool("RSVP_FLAG", true))

	t.Setenv("RSVP_FLAG", "")
	assert.True(t, GetEnvBool("RSVP_FLAG", true))
}

func TestGetEnvPositiveInt(t *testing.T) {
	t.Setenv("RSVP_INT", " 25 ")
	assert.Equal(t, 25, GetEnvPositiveInt("RSVP_INT", 10))

	t.Setenv("RSVP_INT", "-3")
	assert.Equal(t, 10, GetEnvPositiveInt("RSVP_INT", 10))
}

func TestGetEnvPositiveDuration(t *testing.T) {
	t.Setenv("RSVP_TTL", "90m")
	assert.Equal(t, 90*time.Minute, GetEnvPositiveDuration("RSVP_TTL", time.Hour))

	t.Setenv("RSVP_TTL", "soon")
	assert.Equal(t, time.Hour, GetEnvPositiveDuration("RSVP_TTL", time.Hour))
}

func TestOTelServiceName_Default(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "")
	assert.Equal(t, "event-rsvp", OTelServiceName())
}
