package timefmt

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Millisecond, "moments"},
		{time.Second, "1 second"},
		{45 * time.Second, "45 seconds"},
		{time.Minute, "1 minute"},
		{5 * time.Minute, "5 minutes"},
		{90 * time.Minute, "1 hour"},
		{2 * time.Hour, "2 hours"},
		{24 * time.Hour, "1 day"},
		{72 * time.Hour, "3 days"},
		{-5 * time.Minute, "5 minutes"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatOffset(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		t    time.Time
		want string
	}{
		{now, "now"},
		{now.Add(500 * time.Millisecond), "now"},
		{now.Add(2 * time.Hour), "in 2 hours"},
		{now.Add(-5 * time.Minute), "5 minutes ago"},
		{now.Add(-48 * time.Hour), "2 days ago"},
		{now.Add(30 * time.Second), "in 30 seconds"},
	}
	for _, tt := range tests {
		if got := FormatOffset(tt.t, now); got != tt.want {
			t.Errorf("FormatOffset(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}
