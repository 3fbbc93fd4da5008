// Package util holds small formatting helpers shared by the CLI's
// human-readable output modes.
package util

import (
	"fmt"
	"math"
)

// siPrefix pairs a decimal threshold with the prefix letter applied to
// magnitudes at or above it (and below the previous entry's
// threshold), ordered largest threshold first.
type siPrefix struct {
	floor  float64
	letter string
}

var siPrefixes = []siPrefix{
	{1e-3, "m"},
	{1e-6, "u"},
	{1e-9, "n"},
	{1e-12, "p"},
}

// FormatValueFactor renders value with the largest SI prefix that
// keeps its mantissa at or above 1, e.g.
// FormatValueFactor(4.5e-10, "m^3") -> "450.000 pm^3". Values smaller
// than the smallest prefix bucket fall back to scientific notation.
func FormatValueFactor(value float64, unit string) string {
	mag := math.Abs(value)
	if mag >= 1 {
		return fmt.Sprintf("%.3f %s", value, unit)
	}
	for _, p := range siPrefixes {
		if mag >= p.floor {
			return fmt.Sprintf("%.3f %s%s", value/p.floor, p.letter, unit)
		}
	}
	return fmt.Sprintf("%.3e %s", value, unit)
}

// FormatMagnitude renders value in scientific notation once it leaves
// the comfortable display range, otherwise with fixed precision.
func FormatMagnitude(value float64) string {
	if mag := math.Abs(value); mag != 0 && (mag >= 1000 || mag < 0.001) {
		return fmt.Sprintf("%8.2e", value)
	}
	return fmt.Sprintf("%8.3g", value)
}
