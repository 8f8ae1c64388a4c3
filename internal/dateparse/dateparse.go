// Package dateparse turns user-supplied "since" expressions into the start
// of a reporting window.
package dateparse

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseSince parses a look-back expression and returns the instant the
// window starts at. Uses the current local time as the reference point.
//
// Supported formats:
//   - Exact dates: "2026-03-01" (local midnight)
//   - Relative days: "7d" or "-7d"
//   - Relative weeks: "2w"
//   - Relative months: "1m"
//   - Day names: "monday", "tuesday", etc. (most recent, today included)
//   - Keywords: "today", "yesterday", "week", "month"
//   - "all" or "" for no lower bound (the zero time)
func ParseSince(input string) (time.Time, error) {
	return ParseSinceFrom(input, time.Now())
}

// ParseSinceFrom parses input relative to the given reference time.
// This variant enables deterministic testing with a fixed "now".
func ParseSinceFrom(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" || input == "all" {
		return time.Time{}, nil
	}

	today := midnight(now)

	// Exact date: YYYY-MM-DD
	if t, err := time.ParseInLocation("2006-01-02", input, now.Location()); err == nil {
		return t, nil
	}

	switch input {
	case "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	case "week":
		// Monday of this week
		back := (int(now.Weekday()) - int(time.Monday) + 7) % 7
		return today.AddDate(0, 0, -back), nil
	case "month":
		year, month, _ := now.Date()
		return time.Date(year, month, 1, 0, 0, 0, 0, now.Location()), nil
	}

	// Relative offsets: Nd, Nw, Nm with an optional leading minus
	rel := strings.TrimPrefix(input, "-")
	if len(rel) >= 2 {
		suffix := rel[len(rel)-1]
		n, err := strconv.Atoi(rel[:len(rel)-1])
		if err == nil && n >= 0 {
			switch suffix {
			case 'd':
				return today.AddDate(0, 0, -n), nil
			case 'w':
				return today.AddDate(0, 0, -7*n), nil
			case 'm':
				return today.AddDate(0, -n, 0), nil
			default:
				return time.Time{}, fmt.Errorf("unknown relative unit %q in %q (use d, w, or m)", string(suffix), input)
			}
		}
	}

	dayMap := map[string]time.Weekday{
		"sunday":    time.Sunday,
		"monday":    time.Monday,
		"tuesday":   time.Tuesday,
		"wednesday": time.Wednesday,
		"thursday":  time.Thursday,
		"friday":    time.Friday,
		"saturday":  time.Saturday,
	}
	if target, ok := dayMap[input]; ok {
		back := (int(now.Weekday()) - int(target) + 7) % 7
		return today.AddDate(0, 0, -back), nil
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %q", input)
}

func midnight(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
