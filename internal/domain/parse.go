package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

var ErrInvalidTime = errors.New("invalid time of day")

// ParseHHMM parses "HH:MM" into minutes since midnight (0..1439).
func ParseHHMM(s string) (int, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: expected HH:MM, got %q", ErrInvalidTime, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: invalid hour in %q", ErrInvalidTime, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: invalid minute in %q", ErrInvalidTime, s)
	}
	return h*60 + m, nil
}

// FormatMinutes returns HH:MM for minutes since midnight (00:00..23:59).
func FormatMinutes(mins int) string {
	if mins < 0 {
		mins = 0
	}
	mins %= minutesPerDay
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// InWindow returns true if localM (minutes since midnight) is inside the
// [fromM, toM) window. Supports wrap-around windows like 22:00–02:00
// (fromM > toM). A zero-length window contains nothing.
func InWindow(localM, fromM, toM int) bool {
	if fromM == toM {
		return false
	}
	if fromM < toM {
		return localM >= fromM && localM < toM
	}
	// wrap: [from..1440) U [0..to)
	return localM >= fromM || localM < toM
}
