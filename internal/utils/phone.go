package utils

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// NormalizePhoneNumber normalizes a phone number to E.164 format.
// Numbers without a country code are parsed for defaultRegion (e.g. "MX").
func NormalizePhoneNumber(phone, defaultRegion string) (string, error) {
	phone = strings.TrimSpace(phone)

	num, err := phonenumbers.Parse(phone, defaultRegion)
	if err != nil {
		return "", err
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", phonenumbers.ErrNotANumber
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// NormalizeOrTrim returns the E.164 form of phone when it parses, or phone trimmed otherwise.
func NormalizeOrTrim(phone, defaultRegion string) string {
	if normalized, err := NormalizePhoneNumber(phone, defaultRegion); err == nil {
		return normalized
	}
	return strings.TrimSpace(phone)
}
