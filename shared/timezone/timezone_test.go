package timezone_test

import (
	"innkeeper/shared/timezone"
	"testing"
	"time"
)

func TestTimezoneInit(t *testing.T) {
	// Test Now() function
	now := timezone.Now()
	if now.IsZero() {
		t.Error("Now() returned zero time")
	}

	// Test GetLocation()
	loc := timezone.GetLocation()
	if loc == nil {
		t.Error("GetLocation() returned nil")
	}
}

func TestTimezoneWithStandardLocation(t *testing.T) {
	utcTime := time.Now().UTC()
	appTime := timezone.ToAppTime(utcTime)

	if appTime.Location() == nil {
		t.Error("Expected converted time to have a location")
	}
}

func TestTimezoneFormat(t *testing.T) {
	testTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	formatted := timezone.Format(testTime, "2006-01-02 15:04:05 MST")

	if formatted == "" {
		t.Error("Format() returned empty string")
	}

	parsed, err := timezone.Parse("2006-01-02", "2024-01-01")
	if err != nil {
		t.Errorf("Parse() failed: %v", err)
	}

	if parsed == (time.Time{}) {
		t.Error("Parse() returned a zero time")
	}
}

func TestDaysBetween(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("LoadLocation() failed: %v", err)
	}

	tests := []struct {
		name string
		a    time.Time
		b    time.Time
		want int
	}{
		{
			name: "same day",
			a:    time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "two plain days",
			a:    time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC),
			want: 2,
		},
		{
			name: "one day across a 23 hour spring forward",
			a:    time.Date(2026, 3, 8, 0, 0, 0, 0, newYork),
			b:    time.Date(2026, 3, 9, 0, 0, 0, 0, newYork),
			want: 1,
		},
		{
			name: "one day across a 25 hour fall back",
			a:    time.Date(2026, 10, 31, 0, 0, 0, 0, newYork),
			b:    time.Date(2026, 11, 1, 0, 0, 0, 0, newYork),
			want: 1,
		},
		{
			name: "reversed endpoints go negative",
			a:    time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
			want: -2,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := timezone.DaysBetween(test.a, test.b); got != test.want {
				t.Errorf("DaysBetween() = %d, want %d", got, test.want)
			}
		})
	}
}
