// Package money holds the display-only formatting contracts of the
// storefront: fr-FR currency strings and DD/MM/YYYY dates.
package money

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatEUR formats an amount as a string like "1 234,56 €".
// Two decimals, comma decimal separator, space as thousands separator.
func FormatEUR(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	cents := int64(math.Round(amount * 100))
	whole := cents / 100
	frac := cents % 100

	s := strconv.FormatInt(whole, 10)

	var b strings.Builder
	b.Grow(len(s) + len(s)/3 + 8)
	if neg {
		b.WriteByte('-')
	}

	rem := len(s) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(s[:rem])
	for i := rem; i < len(s); i += 3 {
		b.WriteByte(' ')
		b.WriteString(s[i : i+3])
	}

	b.WriteByte(',')
	if frac < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(frac, 10))
	b.WriteString(" €")
	return b.String()
}

// Round2 rounds to 2 decimals, the precision every displayed total carries.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

const dateLayout = "02/01/2006"

// FormatDate renders a date as DD/MM/YYYY.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseDate parses a DD/MM/YYYY date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}
