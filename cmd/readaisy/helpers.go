package main

import (
	"fmt"
	"math"
)

// formatClock renders seconds as h:mm:ss, rounding to whole seconds.
func formatClock(seconds float64) string {
	total := int(math.Round(seconds))
	if total < 0 {
		total = 0
	}
	h := total / 3600
	m := total % 3600 / 60
	s := total % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

// truncate shortens s to at most max runes with an ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
