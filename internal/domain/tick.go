package domain

import (
	"strconv"
	"strings"
)

// ParseTick parses a chart axis label such as "1,5", "0.8m" or " 1,5 m ".
// The comma decimal separator and a trailing "m" unit are accepted.
// ok is false when the label is not a decimal number.
func ParseTick(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.TrimSuffix(s, "m")
	s = strings.TrimSpace(s)
	// ParseFloat also reads hex floats and "Inf"/"NaN"; axis labels are decimal only.
	if s == "" || strings.ContainsAny(s, "xXnN") {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
