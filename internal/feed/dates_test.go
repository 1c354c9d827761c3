package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseNotionDateTime(t *testing.T) {
	t.Run("keeps an explicit offset", func(t *testing.T) {
		parsed, err := parseNotionDateTime("2024-03-01T10:00:00.000+01:00", testZone)
		assert.NoError(t, err)
		assert.True(t, parsed.Equal(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)))
	})

	t.Run("interprets bare timestamps in the given zone", func(t *testing.T) {
		parsed, err := parseNotionDateTime("2024-07-01T10:00:00", testZone)
		assert.NoError(t, err)
		assert.Equal(t, time.Date(2024, 7, 1, 10, 0, 0, 0, testZone), parsed)
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		parsed, err := parseNotionDateTime("  2024-07-01T10:00:00 ", testZone)
		assert.NoError(t, err)
		assert.Equal(t, time.Date(2024, 7, 1, 10, 0, 0, 0, testZone), parsed)
	})

	t.Run("falls back to a zone-less parse", func(t *testing.T) {
		// Space-separated timestamps fail the zone-hinted layouts and land
		// in the fallback, which yields UTC.
		parsed, err := parseNotionDateTime("2024-07-01 10:00:00", testZone)
		assert.NoError(t, err)
		assert.Equal(t, time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC), parsed)
	})

	t.Run("fails after both attempts", func(t *testing.T) {
		_, err := parseNotionDateTime("yesterday-ish", testZone)
		assert.ErrorIs(t, err, ErrParseDate)
	})
}

func TestParseNotionDate(t *testing.T) {
	t.Run("anchors at midnight in the given zone", func(t *testing.T) {
		parsed, err := parseNotionDate("2024-03-05", testZone)
		assert.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, testZone), parsed)
	})

	t.Run("rejects a malformed date", func(t *testing.T) {
		_, err := parseNotionDate("2024-13-99", testZone)
		assert.ErrorIs(t, err, ErrParseDate)
	})
}
