package template

import (
	"fmt"
	"strconv"
	"time"
)

// Interval is a parsed revalidation interval. Months and years are kept as
// calendar units rather than flattened into a duration, so "1M" from Jan 31
// lands where the calendar says, not 30 days later.
type Interval struct {
	Duration time.Duration
	Months   int
	Years    int
}

// IsZero reports whether the interval advances time at all.
func (i Interval) IsZero() bool {
	return i.Duration == 0 && i.Months == 0 && i.Years == 0
}

// From returns the instant the interval ends when started at base.
func (i Interval) From(base time.Time) time.Time {
	return base.AddDate(i.Years, i.Months, 0).Add(i.Duration)
}

// ParseInterval parses an interval string of one or more <number><unit> pairs,
// e.g. "5s", "1w", "1M", "1h30m". Units: s(econds), m(inutes), h(ours),
// d(ays), w(eeks), M(onths), y(ears).
func ParseInterval(s string) (Interval, error) {
	if s == "" {
		return Interval{}, fmt.Errorf("empty interval")
	}

	var iv Interval
	rest := s
	for rest != "" {
		digits := 0
		for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
			digits++
		}
		if digits == 0 || digits == len(rest) {
			return Interval{}, fmt.Errorf("malformed interval %q", s)
		}
		n, err := strconv.Atoi(rest[:digits])
		if err != nil {
			return Interval{}, fmt.Errorf("malformed interval %q: %w", s, err)
		}
		unit := rest[digits]
		rest = rest[digits+1:]

		switch unit {
		case 's':
			iv.Duration += time.Duration(n) * time.Second
		case 'm':
			iv.Duration += time.Duration(n) * time.Minute
		case 'h':
			iv.Duration += time.Duration(n) * time.Hour
		case 'd':
			iv.Duration += time.Duration(n) * 24 * time.Hour
		case 'w':
			iv.Duration += time.Duration(n) * 7 * 24 * time.Hour
		case 'M':
			iv.Months += n
		case 'y':
			iv.Years += n
		default:
			return Interval{}, fmt.Errorf("unknown interval unit %q in %q", string(unit), s)
		}
	}
	if iv.IsZero() {
		return Interval{}, fmt.Errorf("interval %q resolves to zero", s)
	}
	return iv, nil
}
