package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{"empty is local", "", false},
		{"Local keyword", "Local", false},
		{"UTC", "UTC", false},
		{"invalid", "Not/AZone", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadLocation(%q) error = %v, wantErr %v", tt.timezone, err, tt.wantErr)
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation(%q) returned nil location", tt.timezone)
			}
		})
	}

	if ValidateTimezone("Not/AZone") {
		t.Error("ValidateTimezone accepted an invalid zone")
	}
}

func TestStartOfDayKeepsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	in := time.Date(2024, 5, 10, 23, 59, 59, 0, loc)
	got := StartOfDay(in)

	want := time.Date(2024, 5, 10, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("StartOfDay(%v) = %v, want %v", in, got, want)
	}
	if got.Location() != loc {
		t.Errorf("StartOfDay changed location to %v", got.Location())
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, 1, 1, 0, 0, 1, 0, time.UTC)
	b := time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC)
	c := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	if !SameDay(a, b) {
		t.Error("SameDay should ignore time of day")
	}
	if SameDay(b, c) {
		t.Error("SameDay should separate consecutive days")
	}
}

func TestParseDayKeyAndDateInLocation(t *testing.T) {
	d, err := ParseDayKey("2024-02-29")
	if err != nil {
		t.Fatalf("ParseDayKey error: %v", err)
	}
	if next := d.AddDate(0, 0, 1); DayKey(next) != "2024-03-01" {
		t.Errorf("day after leap day = %s", DayKey(next))
	}

	loc := time.FixedZone("UTC-5", -5*60*60)
	local, err := ParseDateInLocation("2024-03-10", loc)
	if err != nil {
		t.Fatalf("ParseDateInLocation error: %v", err)
	}
	if local.Hour() != 0 || local.Location() != loc || DayKey(local) != "2024-03-10" {
		t.Errorf("ParseDateInLocation = %v", local)
	}

	if _, err := ParseDayKey("03/10/2024"); err == nil {
		t.Error("ParseDayKey accepted a non ISO date")
	}
}

func TestGetTodayInTimezone(t *testing.T) {
	today, err := GetTodayInTimezone("UTC")
	if err != nil {
		t.Fatalf("GetTodayInTimezone error: %v", err)
	}
	if len(today) != len("2006-01-02") {
		t.Errorf("GetTodayInTimezone = %q", today)
	}
	if _, err := GetTodayInTimezone("Mars/Olympus"); err == nil {
		t.Error("expected error for invalid timezone")
	}
}
