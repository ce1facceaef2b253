package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBookingStatus(t *testing.T) {
	cases := []struct {
		in   string
		want BookingStatus
	}{
		{string(StatusPending), StatusPending},
		{"pending", StatusPending},
		{string(StatusCompleted), StatusCompleted},
		{"done", StatusCompleted},
		{"completed", StatusCompleted},
		{string(StatusCancelled), StatusCancelled},
		{"cancelled", StatusCancelled},
		{"canceled", StatusCancelled},
	}
	for _, tc := range cases {
		got, err := ParseBookingStatus(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestParseBookingStatusRejectsUnknown(t *testing.T) {
	for _, in := range []string{"", "PENDING", "in progress", "สำเร็จแล้ว", "drop table"} {
		_, err := ParseBookingStatus(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestBookingStatusEnglish(t *testing.T) {
	assert.Equal(t, "pending", StatusPending.English())
	assert.Equal(t, "done", StatusCompleted.English())
	assert.Equal(t, "cancelled", StatusCancelled.English())
}

func TestBookingStatusValid(t *testing.T) {
	for _, st := range BookingStatuses {
		assert.True(t, st.Valid())
	}
	assert.False(t, BookingStatus("anything").Valid())
}
