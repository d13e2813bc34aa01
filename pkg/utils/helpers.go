package utils

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// GenerateUUID generates a new UUID7 string
func GenerateUUID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Round rounds x to the given number of decimals, ties to even.
func Round(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.RoundToEven(x*p) / p
}

// FormatTimestamp renders seconds as H:MM:SS, with a six digit fraction
// when the value is not a whole second. Values of a day or more are
// prefixed with the day count.
func FormatTimestamp(seconds float64) string {
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}

	micros := int64(math.Round(seconds * 1e6))
	days := micros / (86400 * 1e6)
	micros -= days * 86400 * 1e6

	h := micros / (3600 * 1e6)
	micros -= h * 3600 * 1e6
	m := micros / (60 * 1e6)
	micros -= m * 60 * 1e6
	s := micros / 1e6
	frac := micros - s*1e6

	clock := fmt.Sprintf("%d:%02d:%02d", h, m, s)
	if frac != 0 {
		clock += fmt.Sprintf(".%06d", frac)
	}

	switch days {
	case 0:
		return sign + clock
	case 1:
		return sign + "1 day, " + clock
	default:
		return fmt.Sprintf("%s%d days, %s", sign, days, clock)
	}
}
