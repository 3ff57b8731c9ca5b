package rsvp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatter(t *testing.T) {
	f, err := NewFormatter("en-US", time.UTC)
	require.NoError(t, err)

	ts := time.Date(2024, 12, 2, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "12/2/2024, 3:04:05 PM", f.Timestamp(ts))
	assert.Equal(t, "1,234", f.Count(1234))
}

func TestFormatter_UnknownLanguageFallsBack(t *testing.T) {
	f, err := NewFormatter("lv", nil)
	require.NoError(t, err)

	ts := time.Date(2024, 12, 2, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "2024-12-02 15:04:05", f.Timestamp(ts))
}

func TestFormatter_InvalidLocale(t *testing.T) {
	_, err := NewFormatter("!!", nil)
	assert.Error(t, err)
}
