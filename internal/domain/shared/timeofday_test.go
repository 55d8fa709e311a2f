package shared_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

func TestParseMinuteOfDay_ValidTimes(t *testing.T) {
	cases := []struct {
		clock  string
		minute int
	}{
		{"00:00", 0},
		{"06:00", 360},
		{"09:30", 570},
		{"12:05", 725},
		{"23:59", 1439},
	}

	for _, tc := range cases {
		// Act
		minute, err := shared.ParseMinuteOfDay(tc.clock)

		// Assert
		require.NoError(t, err, tc.clock)
		assert.Equal(t, tc.minute, minute, tc.clock)
	}
}

func TestParseMinuteOfDay_RejectsInvalidInput(t *testing.T) {
	cases := []string{
		"",
		"24:00",
		"12:60",
		"-1:30",
		"9:-5",
		"0930",
		"9:30:00",
		"ab:cd",
	}

	for _, clock := range cases {
		// Act
		_, err := shared.ParseMinuteOfDay(clock)

		// Assert
		assert.Error(t, err, clock)

		var validationErr *shared.ValidationError
		assert.ErrorAs(t, err, &validationErr, clock)
	}
}

func TestFormatMinuteOfDay(t *testing.T) {
	// Assert
	assert.Equal(t, "00:00", shared.FormatMinuteOfDay(0))
	assert.Equal(t, "06:00", shared.FormatMinuteOfDay(360))
	assert.Equal(t, "23:59", shared.FormatMinuteOfDay(1439))
}

func TestFormatMinuteOfDay_WrapsPastMidnight(t *testing.T) {
	// A route returning after midnight reports next-day clock time
	assert.Equal(t, "00:30", shared.FormatMinuteOfDay(1470))
	assert.Equal(t, "00:00", shared.FormatMinuteOfDay(shared.MinutesPerDay))
}

func TestFormatMinuteOfDay_ClampsNegative(t *testing.T) {
	assert.Equal(t, "00:00", shared.FormatMinuteOfDay(-15))
}

func TestParseFormatRoundTrip(t *testing.T) {
	// Arrange
	clocks := []string{"00:00", "08:45", "18:20", "23:59"}

	for _, clock := range clocks {
		// Act
		minute, err := shared.ParseMinuteOfDay(clock)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, clock, shared.FormatMinuteOfDay(minute))
	}
}
