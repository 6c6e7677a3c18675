package utils

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// NormalizePhoneNumber parses a contact number and returns it in E.164
// format. Numbers without a country code are assumed to be Mexican, where
// the event is held.
func NormalizePhoneNumber(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", fmt.Errorf("empty phone number")
	}

	num, err := phonenumbers.Parse(phone, "MX")
	if err != nil {
		return "", fmt.Errorf("failed to parse phone number: %w", err)
	}

	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("invalid phone number: %s", phone)
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}
