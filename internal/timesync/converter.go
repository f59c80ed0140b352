package timesync

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// maxClockHours leaves room for the minutes and seconds so the whole clock
// still fits in a time.Duration.
const maxClockHours = math.MaxInt64/uint64(time.Hour) - 1

// ParseClock parses a trace clock value ("H:MM:SS.fffffffff") into an offset
// truncated to microseconds. Hours are not bounded to a day.
func ParseClock(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid clock %q: want H:MM:SS.ffffff", s)
	}

	hours, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q: hours: %w", s, err)
	}
	if hours > maxClockHours {
		return 0, fmt.Errorf("invalid clock %q: hours out of range", s)
	}
	minutes, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil || minutes > 59 {
		return 0, fmt.Errorf("invalid clock %q: minutes out of range", s)
	}

	secPart, fracPart, _ := strings.Cut(parts[2], ".")
	seconds, err := strconv.ParseUint(secPart, 10, 8)
	if err != nil || seconds > 59 {
		return 0, fmt.Errorf("invalid clock %q: seconds out of range", s)
	}

	var micros uint64
	if fracPart != "" {
		for _, c := range fracPart {
			if c < '0' || c > '9' {
				return 0, fmt.Errorf("invalid clock %q: fraction is not numeric", s)
			}
		}
		// Keep the first six digits, right-padding shorter fractions.
		digits := fracPart
		if len(digits) > 6 {
			digits = digits[:6]
		}
		digits += strings.Repeat("0", 6-len(digits))
		micros, _ = strconv.ParseUint(digits, 10, 32)
	}

	//nolint:gosec // components are range checked above
	d := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(micros)*time.Microsecond
	return d, nil
}

// FormatClock renders an offset as "HH:MM:SS.ffffff".
func FormatClock(d time.Duration) string {
	if d < 0 {
		return "-" + FormatClock(-d)
	}
	us := d.Microseconds()
	h := us / int64(time.Hour/time.Microsecond)
	us -= h * int64(time.Hour/time.Microsecond)
	m := us / int64(time.Minute/time.Microsecond)
	us -= m * int64(time.Minute/time.Microsecond)
	s := us / int64(time.Second/time.Microsecond)
	us -= s * int64(time.Second/time.Microsecond)
	return fmt.Sprintf("%02d:%02d:%02d.%06d", h, m, s, us)
}

// Converter maps trace clock offsets to wall-clock time.
type Converter struct {
	anchor time.Time
}

// NewConverter creates a converter anchored at local midnight of the current day.
func NewConverter() *Converter {
	now := time.Now()
	return NewConverterAt(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()))
}

// NewConverterAt creates a converter with an explicit anchor.
func NewConverterAt(anchor time.Time) *Converter {
	return &Converter{anchor: anchor}
}

// ToWallClock converts a clock offset to wall-clock time.
func (c *Converter) ToWallClock(offset time.Duration) time.Time {
	return c.anchor.Add(offset)
}

// Anchor returns the wall-clock origin used for conversions.
func (c *Converter) Anchor() time.Time {
	return c.anchor
}
