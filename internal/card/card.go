// Package card implements the credit-card helpers the checkout form relies
// on: brand detection by number prefix plus display formatting.
package card

import (
	"regexp"
	"strings"
)

type Brand string

const (
	Visa       Brand = "visa"
	Mastercard Brand = "mastercard"
	Amex       Brand = "amex"
	Discover   Brand = "discover"
	Nubank     Brand = "nubank"
	C6Bank     Brand = "c6bank"
	Bradesco   Brand = "bradesco"
	Santander  Brand = "santander"
	Itau       Brand = "itau"
	Unknown    Brand = ""
)

// Evaluation order matters: visa's bare ^4 prefix shadows the BR issuer BINs
// that also start with 4.
var brandPatterns = []struct {
	brand Brand
	re    *regexp.Regexp
}{
	{Visa, regexp.MustCompile(`^4`)},
	{Mastercard, regexp.MustCompile(`^5[1-5]`)},
	{Amex, regexp.MustCompile(`^3[47]`)},
	{Discover, regexp.MustCompile(`^6(?:011|5)`)},
	{Nubank, regexp.MustCompile(`^5067|^4011|^4312`)},
	{C6Bank, regexp.MustCompile(`^627780`)},
	{Bradesco, regexp.MustCompile(`^5078`)},
	{Santander, regexp.MustCompile(`^4389|^4514|^4532`)},
	{Itau, regexp.MustCompile(`^606282`)},
}

// DetectBrand identifies the card brand from the number prefix. Spaces are
// ignored; an unrecognized prefix yields Unknown.
func DetectBrand(number string) Brand {
	clean := strings.ReplaceAll(number, " ", "")
	for _, p := range brandPatterns {
		if p.re.MatchString(clean) {
			return p.brand
		}
	}
	return Unknown
}

var digitsOnly = regexp.MustCompile(`[^0-9]`)

// FormatNumber groups the digits in blocks of four, capped at 16 digits.
func FormatNumber(number string) string {
	clean := digitsOnly.ReplaceAllString(number, "")
	if len(clean) > 16 {
		clean = clean[:16]
	}
	var parts []string
	for i := 0; i < len(clean); i += 4 {
		end := i + 4
		if end > len(clean) {
			end = len(clean)
		}
		parts = append(parts, clean[i:end])
	}
	return strings.Join(parts, " ")
}

// FormatExpiry renders MM/YY from raw digits.
func FormatExpiry(expiry string) string {
	clean := digitsOnly.ReplaceAllString(expiry, "")
	if len(clean) > 4 {
		clean = clean[:4]
	}
	if len(clean) <= 2 {
		return clean
	}
	return clean[:2] + "/" + clean[2:]
}
