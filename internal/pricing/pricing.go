package pricing

import (
	"fmt"
	"time"

	"github.com/moeageli22/TravelInn-app-sub000/internal/domain"
)

// Nights returns the whole-day difference between check-in and check-out.
// Both inputs are normalized to midnight UTC before subtracting, so
// time-of-day or timezone offsets can never shift the count.
func Nights(checkIn, checkOut time.Time) (int, error) {
	in := midnight(checkIn)
	out := midnight(checkOut)
	if !out.After(in) {
		return 0, domain.ErrInvalidDateRange
	}
	return int(out.Sub(in) / (24 * time.Hour)), nil
}

// Total is an exact integer multiplication in minor currency units.
func Total(nights int, nightlyRateCents int64) int64 {
	return int64(nights) * nightlyRateCents
}

// FormatCents renders a cent amount as a two-decimal string: 204000 -> "2040.00".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
