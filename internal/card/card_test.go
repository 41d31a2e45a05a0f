package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectBrand(t *testing.T) {
	tests := []struct {
		number string
		want   Brand
	}{
		{"4111111111111111", Visa},
		{"4111 1111 1111 1111", Visa},
		{"5111111111111111", Mastercard},
		{"5555555555554444", Mastercard},
		{"341111111111111", Amex},
		{"371111111111111", Amex},
		{"6011111111111117", Discover},
		{"6511111111111111", Discover},
		{"5067111111111111", Nubank},
		{"6277801111111111", C6Bank},
		{"5078111111111111", Bradesco},
		{"6062821111111111", Itau},
		{"1234567890123456", Unknown},
		{"", Unknown},
		// nubank and santander BINs start with 4, so visa claims them first
		{"4011111111111111", Visa},
		{"4389111111111111", Visa},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectBrand(tt.number), "number %q", tt.number)
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "4111 1111 1111 1111", FormatNumber("4111111111111111"))
	assert.Equal(t, "4111 11", FormatNumber("411111"))
	assert.Equal(t, "4111 1111 1111 1111", FormatNumber("41111111111111112222"), "capped at 16 digits")
	assert.Equal(t, "4111", FormatNumber("4a1b1c1d"))
	assert.Equal(t, "", FormatNumber(""))
}

func TestFormatExpiry(t *testing.T) {
	assert.Equal(t, "12/28", FormatExpiry("1228"))
	assert.Equal(t, "12/28", FormatExpiry("12/28"))
	assert.Equal(t, "12", FormatExpiry("12"))
	assert.Equal(t, "1", FormatExpiry("1"))
	assert.Equal(t, "12/34", FormatExpiry("123456"), "capped at four digits")
}
