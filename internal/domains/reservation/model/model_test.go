package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"innkeeper/internal/domains/reservation/model"
)

func date(loc *time.Location, year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

func TestReservation_Nights(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	assert.NoError(t, err)

	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     int
	}{
		{
			name:     "two regular nights",
			checkIn:  date(time.UTC, 2026, time.January, 10),
			checkOut: date(time.UTC, 2026, time.January, 12),
			want:     2,
		},
		{
			name:     "one night across spring forward",
			checkIn:  date(newYork, 2026, time.March, 8),
			checkOut: date(newYork, 2026, time.March, 9),
			want:     1,
		},
		{
			name:     "one night across fall back",
			checkIn:  date(newYork, 2026, time.October, 31),
			checkOut: date(newYork, 2026, time.November, 1),
			want:     1,
		},
		{
			name:     "week spanning spring forward",
			checkIn:  date(newYork, 2026, time.March, 6),
			checkOut: date(newYork, 2026, time.March, 13),
			want:     7,
		},
		{
			name:     "same day is zero nights",
			checkIn:  date(time.UTC, 2026, time.January, 10),
			checkOut: date(time.UTC, 2026, time.January, 10),
			want:     0,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			reservation := model.Reservation{CheckInDate: test.checkIn, CheckOutDate: test.checkOut}

			assert.Equal(t, test.want, reservation.Nights())
		})
	}
}

func TestOverlaps(t *testing.T) {
	baseIn := date(time.UTC, 2026, time.January, 10)
	baseOut := date(time.UTC, 2026, time.January, 12)

	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     bool
	}{
		{
			name:     "window sharing a night",
			checkIn:  date(time.UTC, 2026, time.January, 11),
			checkOut: date(time.UTC, 2026, time.January, 13),
			want:     true,
		},
		{
			name:     "check-in on the checkout day",
			checkIn:  date(time.UTC, 2026, time.January, 12),
			checkOut: date(time.UTC, 2026, time.January, 14),
			want:     false,
		},
		{
			name:     "checkout on the check-in day",
			checkIn:  date(time.UTC, 2026, time.January, 8),
			checkOut: date(time.UTC, 2026, time.January, 10),
			want:     false,
		},
		{
			name:     "earlier stay spilling into the window",
			checkIn:  date(time.UTC, 2026, time.January, 9),
			checkOut: date(time.UTC, 2026, time.January, 11),
			want:     true,
		},
		{
			name:     "identical window",
			checkIn:  date(time.UTC, 2026, time.January, 10),
			checkOut: date(time.UTC, 2026, time.January, 12),
			want:     true,
		},
		{
			name:     "stay enclosing the window",
			checkIn:  date(time.UTC, 2026, time.January, 8),
			checkOut: date(time.UTC, 2026, time.January, 14),
			want:     true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, model.Overlaps(baseIn, baseOut, test.checkIn, test.checkOut))
			assert.Equal(t, test.want, model.Overlaps(test.checkIn, test.checkOut, baseIn, baseOut))
		})
	}
}

func TestReservation_IsTerminal(t *testing.T) {
	assert.False(t, (&model.Reservation{Status: model.StatusConfirmed}).IsTerminal())
	assert.True(t, (&model.Reservation{Status: model.StatusCheckedOut}).IsTerminal())
	assert.True(t, (&model.Reservation{Status: model.StatusCancelled}).IsTerminal())
}
