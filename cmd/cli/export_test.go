package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/akeren/event-rsvp/internal/rsvp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	formatter, err := rsvp.NewFormatter("en-US", nil)
	require.NoError(t, err)

	rows := []rsvp.Submission{
		{ID: "a", Name: "Ana, Jr.", Email: "ana@x.io", Code: "party", Veg: 2, NonVeg: 1,
			CreatedAt: time.Date(2024, 5, 1, 14, 30, 0, 0, time.UTC)},
	}

	var buf bytes.Buffer
	require.NoError(t, writeCSV(&buf, rows, formatter))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, exportHeader, records[0])
	assert.Equal(t, []string{"a", "2024-05-01T14:30:00Z", "5/1/2024, 2:30:00 PM", "Ana, Jr.", "ana@x.io", "party", "2", "1"}, records[1])
}

func TestWriteCSVFile(t *testing.T) {
	formatter, err := rsvp.NewFormatter("en-US", nil)
	require.NoError(t, err)
	rows := []rsvp.Submission{{ID: "a", Name: "Ana", Veg: 1, CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}}

	t.Run("writes and closes the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rsvps.csv")
		require.NoError(t, writeCSVFile(path, rows, formatter))

		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()
		records, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("missing directory", func(t *testing.T) {
		assert.Error(t, writeCSVFile(filepath.Join(t.TempDir(), "nope", "rsvps.csv"), rows, formatter))
	})

	t.Run("failed flush is reported", func(t *testing.T) {
		if _, err := os.Stat("/dev/full"); err != nil {
			t.Skip("/dev/full not available")
		}
		assert.Error(t, writeCSVFile("/dev/full", rows, formatter))
	})
}

func TestHashPassword_MatchesGateNormalization(t *testing.T) {
	assert.Equal(t, hashPassword("abc", false), hashPassword("  ABC ", true))
	assert.NotEqual(t, hashPassword("abc", false), hashPassword("ABC", false))
}
