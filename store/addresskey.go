package store

import (
	"strings"

	"go-storefront/models"
)

const keyDelimiter = "|"

// normalizeSpace trims the string, collapses internal whitespace runs to a
// single space and lower-cases the result (ASCII folding only).
func normalizeSpace(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// normalizePhone strips everything except ASCII digits and '+', so formatting
// like spaces, dashes and parentheses never changes the key.
func normalizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// AddressKey builds a deterministic key so the same physical address always
// maps to the same key. First/last name and email are deliberately excluded:
// correcting a typo in contact details must reuse the stored record.
func AddressKey(in models.AddressInput) string {
	return strings.Join([]string{
		normalizeSpace(in.Street),
		normalizeSpace(in.City),
		normalizeSpace(in.State),
		normalizeSpace(in.ZipCode),
		normalizeSpace(in.Country),
		normalizePhone(in.Phone),
	}, keyDelimiter)
}
