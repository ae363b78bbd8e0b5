package domain

import (
	"math"
	"strings"
)

const lbToKg = 0.453592

// ConvertUnit converts a value between compatible measurement units and
// returns the converted value together with the unit it is now expressed
// in. Units are compared case-insensitively; matching units return v
// unchanged with the target unit. Unrecognised pairs are not an error:
// the original value comes back with the *source* unit, so callers keep
// what the vendor reported instead of a mislabelled number.
// Converted results are rounded to 2 decimal places.
func ConvertUnit(v float64, from, to string) (float64, string) {
	f := strings.ToLower(from)
	t := strings.ToLower(to)

	if f == t {
		return v, to
	}

	switch {
	case f == "lb" && t == "kg":
		return round2(v * lbToKg), to
	case f == "kg" && t == "lb":
		return round2(v / lbToKg), to
	case f == "in" && t == "cm":
		return round2(v * 2.54), to
	case f == "cm" && t == "in":
		return round2(v / 2.54), to
	case f == "f" && t == "°c":
		return round2((v - 32) * 5 / 9), to
	case f == "°c" && t == "f":
		return round2(v*9/5 + 32), to
	}

	return v, from
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
