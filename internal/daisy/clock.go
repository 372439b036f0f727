package daisy

import (
	"fmt"
	"strconv"
	"strings"
)

// parseClock parses the SMIL clock value notations found in DAISY 2.02
// books: "npt=12.345s", "12.345s", bare seconds, and colon-separated
// "hh:mm:ss.f" / "mm:ss" timestamps.
func parseClock(value string) (float64, error) {
	v := strings.TrimSpace(value)
	v = strings.TrimPrefix(v, "npt=")
	v = strings.TrimSuffix(v, "s")
	if v == "" {
		return 0, fmt.Errorf("empty clock value %q", value)
	}

	if strings.Contains(v, ":") {
		parts := strings.Split(v, ":")
		if len(parts) > 3 {
			return 0, fmt.Errorf("invalid clock value %q", value)
		}
		total := 0.0
		for _, part := range parts {
			n, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return 0, fmt.Errorf("invalid clock value %q: %w", value, err)
			}
			total = total*60 + n
		}
		return total, nil
	}

	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", value, err)
	}
	return n, nil
}
