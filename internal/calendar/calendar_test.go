package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDropsTimeAndZone(t *testing.T) {
	zone := time.FixedZone("UTC+3", 3*3600)
	// 23:45 at UTC+3 is 20:45 UTC, still July 1st.
	in := time.Date(2026, 7, 1, 23, 45, 12, 999, zone)
	got := Normalize(in)
	assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2026, 7, 1, 23, 59, 59, 0, time.UTC)
	assert.True(t, SameDay(a, b))
	assert.False(t, SameDay(a, b.AddDate(0, 0, 1)))
}

func TestNightsBetween(t *testing.T) {
	in := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	n, err := NightsBetween(in, in.AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// Check-out day itself is never occupied: one night for a next-day
	// departure.
	n, err = NightsBetween(in, in.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNightsBetweenRejectsEmptyAndInvertedRanges(t *testing.T) {
	in := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	_, err := NightsBetween(in, in)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = NightsBetween(in, in.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestNightsEnumeratesHalfOpenInterval(t *testing.T) {
	in := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	out := in.AddDate(0, 0, 3)

	nights := Nights(in, out)
	require.Len(t, nights, 3)
	assert.Equal(t, in, nights[0])
	assert.Equal(t, in.AddDate(0, 0, 2), nights[2])
	for _, n := range nights {
		assert.True(t, n.Before(out), "check-out day must not be enumerated")
	}

	assert.Empty(t, Nights(in, in))
	assert.Empty(t, Nights(out, in))
}

func TestContains(t *testing.T) {
	in := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	out := in.AddDate(0, 0, 3)

	assert.True(t, Contains(in, out, in))
	assert.True(t, Contains(in, out, in.AddDate(0, 0, 2)))
	assert.False(t, Contains(in, out, out), "check-out day is outside the stay")
	assert.False(t, Contains(in, out, in.AddDate(0, 0, -1)))
}

func TestBackToBackStaysShareNoNight(t *testing.T) {
	// Guest A departs the day guest B arrives; the turnover day belongs to
	// B only.
	aIn := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	turnover := aIn.AddDate(0, 0, 2)
	bOut := turnover.AddDate(0, 0, 2)

	assert.False(t, Contains(aIn, turnover, turnover))
	assert.True(t, Contains(turnover, bOut, turnover))
}
