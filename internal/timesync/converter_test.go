package timesync

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Duration
	}{
		{
			name:  "gstreamer nanosecond clock",
			input: "0:00:01.234567890",
			want:  time.Second + 234567*time.Microsecond,
		},
		{
			name:  "microsecond clock",
			input: "10:00:00.010000",
			want:  10*time.Hour + 10*time.Millisecond,
		},
		{
			name:  "short fraction",
			input: "0:00:02.5",
			want:  2*time.Second + 500*time.Millisecond,
		},
		{
			name:  "no fraction",
			input: "1:02:03",
			want:  time.Hour + 2*time.Minute + 3*time.Second,
		},
		{
			name:  "hours past one day",
			input: "30:00:00.000001",
			want:  30*time.Hour + time.Microsecond,
		},
		{
			name:  "largest representable hour",
			input: "2562046:59:59.999999",
			want:  2562046*time.Hour + 59*time.Minute + 59*time.Second + 999999*time.Microsecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if err != nil {
				t.Fatalf("ParseClock(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseClock(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseClock_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"none",
		"0:00",
		"99:99:99.999999999",
		"0:00:0a.000000",
		"0:00:01.12x",
		"a:00:01.0",
		"2562047:00:00.000000",
		"4294967295:00:00.000000",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			if _, err := ParseClock(input); err == nil {
				t.Errorf("ParseClock(%q) expected error", input)
			}
		})
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		input time.Duration
		want  string
	}{
		{0, "00:00:00.000000"},
		{time.Second + 234567*time.Microsecond, "00:00:01.234567"},
		{10*time.Hour + 10*time.Millisecond, "10:00:00.010000"},
		{-time.Millisecond, "-00:00:00.001000"},
	}

	for _, tt := range tests {
		if got := FormatClock(tt.input); got != tt.want {
			t.Errorf("FormatClock(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestConverter_ToWallClock(t *testing.T) {
	anchor := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	converter := NewConverterAt(anchor)

	got := converter.ToWallClock(time.Hour + 5*time.Microsecond)
	want := anchor.Add(time.Hour + 5*time.Microsecond)
	if !got.Equal(want) {
		t.Errorf("ToWallClock() = %v, want %v", got, want)
	}
	if !converter.Anchor().Equal(anchor) {
		t.Errorf("Anchor() = %v, want %v", converter.Anchor(), anchor)
	}
}

func TestNewConverter(t *testing.T) {
	converter := NewConverter()

	anchor := converter.Anchor()
	if anchor.After(time.Now()) {
		t.Error("Anchor() is in the future")
	}
	if anchor.Hour() != 0 || anchor.Minute() != 0 || anchor.Second() != 0 {
		t.Errorf("Anchor() = %v, want local midnight", anchor)
	}
}
