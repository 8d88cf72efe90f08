package domain

import "strings"

// NormalizePhone strips every non-digit character from a phone number, producing
// the digit key used as merge/dedup identity. An empty input yields an empty
// key; empty keys are never treated as a match target, so two contacts both
// lacking a phone are never merged.
func NormalizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
