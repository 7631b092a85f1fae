package soapcalls

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseClock converts an AVTransport "H:MM:SS" or "HH:MM:SS" position into a
// duration. "NOT_IMPLEMENTED" and other non-clock values come back as an
// error.
func ParseClock(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("clock value %q: want H:MM:SS", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("clock value %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("clock value %q: %w", s, err)
	}
	// fractional seconds ("00:00:01.500") are truncated
	secPart, _, _ := strings.Cut(parts[2], ".")
	sec, err := strconv.Atoi(secPart)
	if err != nil {
		return 0, fmt.Errorf("clock value %q: %w", s, err)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second, nil
}

// FormatClock renders a duration as the "HH:MM:SS" form Seek expects.
// Negative durations clamp to zero.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total%3600/60, total%60)
}
