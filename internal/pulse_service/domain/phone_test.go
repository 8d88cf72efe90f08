package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone_StripsFormatting(t *testing.T) {
	assert.Equal(t, "15551234567", NormalizePhone("+1 (555) 123-4567"))
	assert.Equal(t, "5551234567", NormalizePhone("555.123.4567"))
	assert.Equal(t, "5551234567", NormalizePhone("555-123-4567 ext"))
}

func TestNormalizePhone_EmptyAndNonDigit(t *testing.T) {
	assert.Equal(t, "", NormalizePhone(""))
	assert.Equal(t, "", NormalizePhone("unknown caller"))
	assert.Equal(t, "", NormalizePhone("+-() "))
}

func TestNormalizePhone_Idempotent(t *testing.T) {
	inputs := []string{"+15551234567", "(555) 123-4567", "", "abc123def456", "00 49 30 123456"}
	for _, p := range inputs {
		once := NormalizePhone(p)
		assert.Equal(t, once, NormalizePhone(once), "normalize must be idempotent for %q", p)
	}
}
