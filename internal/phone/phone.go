// Package phone canonicalizes mobile numbers into the international form used
// as the storage key for OTP records and user accounts.
package phone

import (
	"regexp"
	"strings"
)

// DefaultCountryCode is the calling code applied to local trunk-prefixed numbers.
const DefaultCountryCode = "94"

var localTrunk = regexp.MustCompile(`^0\d{9}$`)

// Normalizer converts locally formatted numbers to E.164 for one country.
type Normalizer struct {
	countryCode string
}

// NewNormalizer creates a Normalizer for the given calling code (digits only).
func NewNormalizer(countryCode string) *Normalizer {
	countryCode = strings.TrimPrefix(strings.TrimSpace(countryCode), "+")
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}
	return &Normalizer{countryCode: countryCode}
}

// Normalize returns the canonical form of raw. Numbers that match no known
// pattern are returned as-is (after trimming) so lookups simply miss.
func (n *Normalizer) Normalize(raw string) string {
	number := strings.TrimSpace(raw)

	switch {
	case strings.HasPrefix(number, "+"+n.countryCode):
		return number
	case strings.HasPrefix(number, n.countryCode):
		return "+" + number
	case localTrunk.MatchString(number):
		return "+" + n.countryCode + number[1:]
	default:
		return number
	}
}

// CountryCode returns the configured calling code without the plus sign.
func (n *Normalizer) CountryCode() string {
	return n.countryCode
}

var defaultNormalizer = NewNormalizer(DefaultCountryCode)

// Normalize canonicalizes raw using DefaultCountryCode.
func Normalize(raw string) string {
	return defaultNormalizer.Normalize(raw)
}

// Mask hides everything after the first six characters, for logs.
func Mask(number string) string {
	if len(number) <= 6 {
		return number + "****"
	}
	return number[:6] + "****"
}
