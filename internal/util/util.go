// Package util provides common text helpers used across the campaign core.
package util

import (
	"fmt"
	"strings"
)

// NormalizeKey trims surrounding whitespace and lower-cases s so that
// registry lookups are case-insensitive.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// TrimQuotes removes leading and trailing double quotes from a string.
func TrimQuotes(s string) string {
	return strings.Trim(s, `"`)
}

// FormatDayTime renders campaign seconds as "DD/HH:MM:SS". Day numbering
// starts at 1. Negative input is treated as zero.
func FormatDayTime(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	day := seconds/86400 + 1
	h := (seconds % 86400) / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d/%02d:%02d:%02d", day, h, m, s)
}
