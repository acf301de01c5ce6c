// Package timetable validates weekly class schedules: clock parsing, the
// per-day overlap scan, course completeness and decoding of generator output.
package timetable

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// MinutesPerDay bounds every meeting; schedules never wrap past midnight.
const MinutesPerDay = 24 * 60

// ErrMalformed marks input that cannot be turned into a well-typed schedule.
var ErrMalformed = errors.New("malformed schedule input")

// ParseClock converts a human time string ("9:30AM", "09:30 am", "14:05", "9")
// into minutes since midnight. Strings without a meridiem marker are read as
// 24-hour clock values.
func ParseClock(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("%w: empty time", ErrMalformed)
	}

	clock, marker := s, ""
	if idx := strings.IndexFunc(s, unicode.IsLetter); idx >= 0 {
		clock = strings.TrimSpace(s[:idx])
		marker = strings.ToUpper(strings.TrimSpace(s[idx:]))
	}
	if !strings.ContainsFunc(clock, unicode.IsDigit) {
		return 0, fmt.Errorf("%w: no digits in time %q", ErrMalformed, raw)
	}

	hour, minute, err := splitClock(clock)
	if err != nil {
		return 0, fmt.Errorf("%w: time %q: %v", ErrMalformed, raw, err)
	}
	if minute > 59 {
		return 0, fmt.Errorf("%w: minutes out of range in %q", ErrMalformed, raw)
	}

	switch marker {
	case "":
		if hour > 23 {
			return 0, fmt.Errorf("%w: hour out of range in %q", ErrMalformed, raw)
		}
	case "AM", "PM":
		if hour < 1 || hour > 12 {
			return 0, fmt.Errorf("%w: hour out of range in %q", ErrMalformed, raw)
		}
		if marker == "PM" && hour != 12 {
			hour += 12
		} else if marker == "AM" && hour == 12 {
			hour = 0
		}
	default:
		return 0, fmt.Errorf("%w: unknown meridiem %q", ErrMalformed, marker)
	}

	return hour*60 + minute, nil
}

// splitClock reads "H:MM", "HH:MM", "H", "HH", "HMM" or "HHMM".
func splitClock(clock string) (int, int, error) {
	if hourPart, minutePart, ok := strings.Cut(clock, ":"); ok {
		if len(minutePart) != 2 {
			return 0, 0, fmt.Errorf("minutes must have two digits")
		}
		hour, err := atoiDigits(hourPart)
		if err != nil {
			return 0, 0, err
		}
		minute, err := atoiDigits(minutePart)
		if err != nil {
			return 0, 0, err
		}
		return hour, minute, nil
	}

	switch len(clock) {
	case 1, 2:
		hour, err := atoiDigits(clock)
		return hour, 0, err
	case 3, 4:
		hour, err := atoiDigits(clock[:len(clock)-2])
		if err != nil {
			return 0, 0, err
		}
		minute, err := atoiDigits(clock[len(clock)-2:])
		return hour, minute, err
	default:
		return 0, 0, fmt.Errorf("unexpected clock length %d", len(clock))
	}
}

func atoiDigits(s string) (int, error) {
	if s == "" || strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return 0, fmt.Errorf("non-numeric component %q", s)
	}
	return strconv.Atoi(s)
}

// ParseRange parses "start - end" into start and end minutes. It does not
// check ordering; the overlap scan rejects inverted intervals.
func ParseRange(raw string) (int, int, error) {
	parts := strings.Split(raw, "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: time range %q must have a start and an end", ErrMalformed, raw)
	}
	start, err := ParseClock(parts[0])
	if err != nil {
		return 0, 0, err
	}
	end, err := ParseClock(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// IsArranged reports whether a days or time field denotes a meeting without
// fixed times (online, TBA or "(ARR)" sections).
func IsArranged(raw string) bool {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.Trim(s, "()* ")
	if s == "" {
		return true
	}
	switch s {
	case "ARR", "TBA", "ONLINE", "ASYNC":
		return true
	}
	return strings.Trim(s, "-") == ""
}

// IsArrangedRange reports whether a time range carries no fixed clock, either
// as a single arranged token ("TBA", "-----") or as a range whose both ends
// are arranged ("----- - -----", "TBA - TBA").
func IsArrangedRange(raw string) bool {
	if IsArranged(raw) {
		return true
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == ' ' || r == '-' })
	for _, part := range parts {
		if !IsArranged(part) {
			return false
		}
	}
	return true
}
