// Package duration converts compact moderation duration strings like
// "1h30m" to and from seconds.
package duration

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var tokenPattern = regexp.MustCompile(`(\d+)([dhms])`)

const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
	secondsPerDay    = 86400
)

// Parse scans text for <integer><unit> tokens (d, h, m, s, case-insensitive)
// and sums them into seconds. Characters that are not part of a token are
// ignored; empty or unrecognizable input yields 0.
func Parse(text string) int64 {
	if text == "" {
		return 0
	}

	var total int64
	for _, match := range tokenPattern.FindAllStringSubmatch(strings.ToLower(text), -1) {
		value, err := strconv.ParseInt(match[1], 10, 64)
		if err != nil {
			continue
		}
		switch match[2] {
		case "d":
			total += value * secondsPerDay
		case "h":
			total += value * secondsPerHour
		case "m":
			total += value * secondsPerMinute
		case "s":
			total += value
		}
	}

	return total
}

// Format renders seconds using the largest applicable units, omitting zero
// components. A zero duration renders as "0s". Format output always parses
// back to the same value.
func Format(seconds int64) string {
	if seconds <= 0 {
		return "0s"
	}

	days := seconds / secondsPerDay
	seconds %= secondsPerDay
	hours := seconds / secondsPerHour
	seconds %= secondsPerHour
	minutes := seconds / secondsPerMinute
	seconds %= secondsPerMinute

	var b strings.Builder
	if days > 0 {
		fmt.Fprintf(&b, "%dd", days)
	}
	if hours > 0 {
		fmt.Fprintf(&b, "%dh", hours)
	}
	if minutes > 0 {
		fmt.Fprintf(&b, "%dm", minutes)
	}
	if seconds > 0 {
		fmt.Fprintf(&b, "%ds", seconds)
	}

	return b.String()
}
