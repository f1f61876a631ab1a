package models

import (
	"testing"
	"time"
)

func TestWeekDayRoundTrip(t *testing.T) {
	for _, wd := range AllWeekDays {
		if got := WeekDayFromTime(wd.TimeWeekday()); got != wd {
			t.Errorf("WeekDayFromTime(%v.TimeWeekday()) = %v, want %v", wd, got, wd)
		}
	}
}

func TestWeekDayFromTime(t *testing.T) {
	tests := []struct {
		in   time.Weekday
		want WeekDay
	}{
		{time.Monday, Monday},
		{time.Tuesday, Tuesday},
		{time.Wednesday, Wednesday},
		{time.Thursday, Thursday},
		{time.Friday, Friday},
		{time.Saturday, Saturday},
		{time.Sunday, Sunday},
	}

	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			if got := WeekDayFromTime(tt.in); got != tt.want {
				t.Errorf("WeekDayFromTime(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}

	if Sunday.TimeWeekday() != time.Sunday {
		t.Errorf("Sunday.TimeWeekday() = %v, want Sunday", Sunday.TimeWeekday())
	}
	if int(Sunday) != 7 || int(Monday) != 1 {
		t.Errorf("ordinals: Monday=%d Sunday=%d, want 1 and 7", Monday, Sunday)
	}
}

func TestWeekDayOfIsLocationIndependent(t *testing.T) {
	// 2024-01-07 is a Sunday; late evening in a western zone is still Sunday there
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	d := time.Date(2024, 1, 7, 23, 30, 0, 0, ny)
	if got := WeekDayOf(d); got != Sunday {
		t.Errorf("WeekDayOf(%v) = %v, want Sunday", d, got)
	}
	if got := WeekDayOf(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)); got != Monday {
		t.Errorf("WeekDayOf(2024-01-08) = %v, want Monday", got)
	}
}

func TestParseWeekDay(t *testing.T) {
	tests := []struct {
		in      string
		want    WeekDay
		wantErr bool
	}{
		{"mon", Monday, false},
		{"Monday", Monday, false},
		{" SUN ", Sunday, false},
		{"7", Sunday, false},
		{"1", Monday, false},
		{"0", 0, true},
		{"8", 0, true},
		{"funday", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWeekDay(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWeekDay(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseWeekDay(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWeekDaySet(t *testing.T) {
	s := NewWeekDaySet(Wednesday, Monday, Wednesday, WeekDay(9))

	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	if !s.Has(Monday) || !s.Has(Wednesday) || s.Has(Tuesday) {
		t.Errorf("unexpected membership in %v", s)
	}
	days := s.Days()
	if len(days) != 2 || days[0] != Monday || days[1] != Wednesday {
		t.Errorf("Days() = %v, want [Monday Wednesday]", days)
	}
	if s.String() != "Mon,Wed" {
		t.Errorf("String() = %q, want %q", s.String(), "Mon,Wed")
	}

	if !NewWeekDaySet().IsEmpty() {
		t.Error("empty set should report IsEmpty")
	}
	if EveryDay().Len() != 7 || EveryDay().String() != "every day" {
		t.Errorf("EveryDay() = %v (len %d)", EveryDay(), EveryDay().Len())
	}
}
