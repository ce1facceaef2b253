package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tireweb/tire-shop-api/internal/model"
)

func validForm() bookingForm {
	return bookingForm{
		ServiceDate: "2026-09-15",
		ServiceTime: "10:00",
		Services:    []serviceSelection{{ServiceID: 2, OptionIDs: []uint64{5}}},
		Vehicle:     vehicleForm{LicensePlate: "กข 1234", LicenseProvince: "เชียงใหม่"},
	}
}

func TestBookingFormNormalize(t *testing.T) {
	f := validForm()
	f.ServiceTime = " 10:00:00 "
	f.Note = "  รีบหน่อย  "
	f.Vehicle.LicensePlate = " กข 1234 "

	require.NoError(t, f.normalize())
	assert.Equal(t, "10:00", f.ServiceTime)
	assert.Equal(t, "รีบหน่อย", f.Note)
	assert.Equal(t, "กข 1234", f.Vehicle.LicensePlate)
}

func TestBookingFormAcceptsEmptyServiceList(t *testing.T) {
	f := validForm()
	f.Services = nil
	require.NoError(t, f.normalize(), "tires-only bookings carry no service items")
}

func TestBookingFormDefaultsServiceTime(t *testing.T) {
	f := validForm()
	f.ServiceTime = ""
	require.NoError(t, f.normalize())
	assert.Equal(t, model.DefaultServiceTime, f.ServiceTime)
}

func TestBookingFormRejectsBadInput(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*bookingForm)
		want   error
	}{
		{"missing date", func(f *bookingForm) { f.ServiceDate = "" }, errServiceDateRequired},
		{"malformed date", func(f *bookingForm) { f.ServiceDate = "15/09/2026" }, errServiceDateInvalid},
		{"lunch slot", func(f *bookingForm) { f.ServiceTime = "12:00" }, errServiceTimeInvalid},
		{"after hours", func(f *bookingForm) { f.ServiceTime = "18:00" }, errServiceTimeInvalid},
		{"zero service id", func(f *bookingForm) { f.Services = []serviceSelection{{ServiceID: 0}} }, errServiceIDRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := validForm()
			tc.mutate(&f)
			assert.ErrorIs(t, f.normalize(), tc.want)
		})
	}
}

func TestHasVehicleInfo(t *testing.T) {
	var f bookingForm
	assert.False(t, f.hasVehicleInfo())

	f.Vehicle.VehicleID = 7
	assert.True(t, f.hasVehicleInfo())

	f.Vehicle.VehicleID = 0
	f.Vehicle.LicensePlate = "1กก 999"
	assert.True(t, f.hasVehicleInfo())
}

func TestAssembleServiceTiresAlwaysFourRows(t *testing.T) {
	front := axleTires{Brand: "Michelin", Model: "Primacy 4", Size: "215/55R17", DOTLeft: "2325", DOTRight: "2425"}
	rows := assembleServiceTires(42, front, axleTires{})
	require.Len(t, rows, 4)

	byPos := map[string]model.ServiceTire{}
	for _, r := range rows {
		assert.Equal(t, uint64(42), r.BookingID)
		byPos[r.Position] = r
	}
	require.Len(t, byPos, 4, "positions must be distinct")

	fl := byPos[model.PositionFrontLeft]
	assert.Equal(t, "Michelin", fl.Brand)
	assert.Equal(t, "2325", fl.DOT)

	fr := byPos[model.PositionFrontRight]
	assert.Equal(t, "2425", fr.DOT)

	rl := byPos[model.PositionRearLeft]
	assert.Empty(t, rl.Brand)
	assert.Empty(t, rl.DOT)
}

func TestAssembleServiceTiresPositionOrder(t *testing.T) {
	rows := assembleServiceTires(1, axleTires{}, axleTires{})
	require.Len(t, rows, len(model.TirePositions))
	for i, pos := range model.TirePositions {
		assert.Equal(t, pos, rows[i].Position)
	}
}
