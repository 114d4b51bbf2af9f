package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reEmail  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	rePhone  = regexp.MustCompile(`^[0-9\s+()-]{10,}$`)
	reZipFR  = regexp.MustCompile(`^[0-9]{5}$`)
	reCard   = regexp.MustCompile(`^[0-9]{16}$`)
	reExpiry = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)
	reCVV    = regexp.MustCompile(`^[0-9]{3,4}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reEmail.MatchString(s)
}

// Phone accepts at least 10 digits with optional separators and a leading +.
func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && rePhone.MatchString(s)
}

// PostalCode is free-form except for France, where exactly 5 digits are required.
func PostalCode(s, country string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if country == "FR" {
		return s, reZipFR.MatchString(s)
	}
	return s, true
}

// CardNumber checks for exactly 16 digits after stripping spaces.
func CardNumber(s string) (string, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	return s, reCard.MatchString(s)
}

// Expiry checks MM/YY with month 01-12.
func Expiry(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reExpiry.MatchString(s)
}

func CVV(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reCVV.MatchString(s)
}

func NonEmpty(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}

// Qty parses a quantity with a floor of 1 and a hard ceiling of 99.
func Qty(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	if n > 99 {
		return 99
	}
	return n
}
