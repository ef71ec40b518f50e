package timeutil

import (
	"fmt"
	"strconv"
	"strings"
)

// ToMinutes parses a 24-hour clock string ("HH:MM" or "HH:MM:SS") into
// minutes since midnight. The second return is false when the string is
// empty or malformed; callers treat that as a missing time, never an error.
func ToMinutes(t string) (int, bool) {
	t = strings.TrimSpace(t)
	if t == "" {
		return 0, false
	}
	parts := strings.Split(t, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	if h < 0 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// FromMinutes renders minutes since midnight as "HH:MM". Values past
// midnight keep accumulating hours; negative input clamps to "00:00".
func FromMinutes(m int) string {
	if m < 0 {
		m = 0
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ToClock normalizes a time string to "HH:MM", dropping a seconds part
// if one is present. Invalid input comes back unchanged.
func ToClock(t string) string {
	m, ok := ToMinutes(t)
	if !ok {
		return t
	}
	return FromMinutes(m)
}

// WithSeconds renders a time string in the "HH:MM:SS" form persisted
// non-study rows use.
func WithSeconds(t string) string {
	m, ok := ToMinutes(t)
	if !ok {
		return t
	}
	return FromMinutes(m) + ":00"
}

// OverlapMinutes returns the length of the intersection of [aStart,aEnd)
// and [bStart,bEnd) in minutes, 0 when they are disjoint.
func OverlapMinutes(aStart, aEnd, bStart, bEnd int) int {
	lo := aStart
	if bStart > lo {
		lo = bStart
	}
	hi := aEnd
	if bEnd < hi {
		hi = bEnd
	}
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// Overlaps reports whether the two half-open ranges intersect.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return OverlapMinutes(aStart, aEnd, bStart, bEnd) > 0
}
