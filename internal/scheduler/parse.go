package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the time-of-day format accepted on the command line.
const TimestampLayout = "15:04:05"

var timestampFields = [3]struct {
	name string
	max  int
}{
	{"hour", 23},
	{"minute", 59},
	{"second", 59},
}

// ParseTimestamp converts an HH:MM:SS token into the next occurrence of that
// time of day relative to now. A time of day strictly before now rolls over
// to the same time tomorrow; a time of day equal to now fires immediately.
// Pure function of (raw, now); the returned instant is never before now.
func ParseTimestamp(raw string, now time.Time) (time.Time, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != len(timestampFields) {
		return time.Time{}, &ParseError{Token: raw, Reason: "expected HH:MM:SS"}
	}

	var values [3]int
	for i, part := range parts {
		field := timestampFields[i]
		if len(part) != 2 || !isDigits(part) {
			return time.Time{}, &ParseError{
				Token:  raw,
				Reason: fmt.Sprintf("%s %q is not a two-digit number", field.name, part),
			}
		}
		value, _ := strconv.Atoi(part)
		if value > field.max {
			return time.Time{}, &ParseError{
				Token:  raw,
				Reason: fmt.Sprintf("%s %d out of range [0,%d]", field.name, value, field.max),
			}
		}
		values[i] = value
	}

	target := time.Date(now.Year(), now.Month(), now.Day(),
		values[0], values[1], values[2], 0, now.Location())
	if target.Before(now) {
		target = time.Date(now.Year(), now.Month(), now.Day()+1,
			values[0], values[1], values[2], 0, now.Location())
	}
	return target, nil
}

// FormatTimestamp renders an instant back into the HH:MM:SS form accepted by
// ParseTimestamp.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
