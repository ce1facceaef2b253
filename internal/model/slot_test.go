package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSlotTime(t *testing.T) {
	cases := map[string]string{
		"09:00":    "09:00",
		"09:00:00": "09:00",
		"9:0:0":    "09:00",
		"9:00":     "09:00",
		" 13:00 ":  "13:00",
		"13:00:59": "13:00",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeSlotTime(in), "input %q", in)
	}
}

func TestNormalizeSlotTimeLeavesGarbageAlone(t *testing.T) {
	for _, in := range []string{"", "morning", "1300", "x:y"} {
		assert.Equal(t, in, NormalizeSlotTime(in), "input %q", in)
	}
}

func TestBuildAvailability(t *testing.T) {
	counts := map[string]int{
		"09:00": 3,
		"10:00": 1,
		"14:00": 5, // over capacity, e.g. walk-ins recorded by staff
	}
	got := BuildAvailability(counts)
	require.Len(t, got, len(SlotTimes))

	full := got["09:00"]
	assert.False(t, full.Available)
	assert.Equal(t, 0, full.Remaining)
	assert.Equal(t, 3, full.CurrentBookings)

	partial := got["10:00"]
	assert.True(t, partial.Available)
	assert.Equal(t, 2, partial.Remaining)

	over := got["14:00"]
	assert.False(t, over.Available)
	assert.Equal(t, 0, over.Remaining, "remaining never goes negative")

	free := got["15:00"]
	assert.True(t, free.Available)
	assert.Equal(t, SlotCapacity, free.Remaining)
	assert.Equal(t, SlotCapacity, free.MaxBookings)
}

func TestBuildAvailabilityIgnoresUnknownSlots(t *testing.T) {
	got := BuildAvailability(map[string]int{"12:00": 2})
	_, ok := got["12:00"]
	assert.False(t, ok, "lunch hour is not a bookable slot")
}
