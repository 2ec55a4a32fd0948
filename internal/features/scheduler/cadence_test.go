package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCadence(t *testing.T) {
	valid := []string{
		"24h",
		"every 24h",
		"Every 30m",
		"90s",
		"1h30m",
		"0 9 * * 1",
		"@every 1h",
		"@daily",
		"  every 6h  ",
	}
	for _, spec := range valid {
		t.Run(spec, func(t *testing.T) {
			_, err := ParseCadence(spec)
			assert.NoError(t, err)
		})
	}

	invalid := []string{
		"",
		"   ",
		"soon",
		"every",
		"-1h",
		"0h",
		"* * * * * *",
	}
	for _, spec := range invalid {
		t.Run("invalid "+spec, func(t *testing.T) {
			_, err := ParseCadence(spec)
			assert.Error(t, err)
		})
	}
}

func TestCadenceDueInterval(t *testing.T) {
	cadence, err := ParseCadence("every 24h")
	require.NoError(t, err)

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("never ran is always due", func(t *testing.T) {
		assert.True(t, cadence.Due(nil, now))
	})

	t.Run("elapsed past interval is due", func(t *testing.T) {
		last := now.Add(-25 * time.Hour)
		assert.True(t, cadence.Due(&last, now))
	})

	t.Run("exactly at interval is due", func(t *testing.T) {
		last := now.Add(-24 * time.Hour)
		assert.True(t, cadence.Due(&last, now))
	})

	t.Run("inside interval is not due", func(t *testing.T) {
		last := now.Add(-23 * time.Hour)
		assert.False(t, cadence.Due(&last, now))
	})
}

func TestCadenceDueCron(t *testing.T) {
	// Every Monday at 09:00.
	cadence, err := ParseCadence("0 9 * * 1")
	require.NoError(t, err)

	monday9 := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)

	t.Run("never ran is always due", func(t *testing.T) {
		assert.True(t, cadence.Due(nil, monday9))
	})

	t.Run("due once the next cron time passes", func(t *testing.T) {
		last := monday9.Add(-7 * 24 * time.Hour)
		assert.True(t, cadence.Due(&last, monday9))
	})

	t.Run("not due before the next cron time", func(t *testing.T) {
		last := monday9
		assert.False(t, cadence.Due(&last, monday9.Add(time.Hour)))
	})
}
