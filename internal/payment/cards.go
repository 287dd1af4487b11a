package payment

import (
	"regexp"
	"strings"
	"time"
)

// Brand is a card network.
type Brand string

const (
	Visa       Brand = "visa"
	Mastercard Brand = "mastercard"
	Amex       Brand = "amex"
	Discover   Brand = "discover"
	OtherBrand Brand = "other"
)

var brandPrefixes = []struct {
	brand   Brand
	pattern *regexp.Regexp
}{
	{Visa, regexp.MustCompile(`^4`)},
	{Mastercard, regexp.MustCompile(`^5[1-5]`)},
	{Amex, regexp.MustCompile(`^3[47]`)},
	{Discover, regexp.MustCompile(`^6(011|5)`)},
}

// DetectCardBrand identifies the network from the number's prefix.
func DetectCardBrand(number string) Brand {
	digits := stripSeparators(number)
	for _, bp := range brandPrefixes {
		if bp.pattern.MatchString(digits) {
			return bp.brand
		}
	}
	return OtherBrand
}

// FormatCardNumber groups the digits of number into blocks of four.
func FormatCardNumber(number string) string {
	var digits strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	s := digits.String()

	var out strings.Builder
	for i := 0; i < len(s); i += 4 {
		if i > 0 {
			out.WriteByte(' ')
		}
		end := min(i+4, len(s))
		out.WriteString(s[i:end])
	}
	return out.String()
}

// MaskCardNumber renders a card for display from its last four digits.
func MaskCardNumber(last4 string) string {
	return "•••• •••• •••• " + last4
}

// ValidateCardNumber reports whether number has 13 to 19 digits and passes
// the Luhn checksum. Spaces and dashes are ignored.
func ValidateCardNumber(number string) bool {
	digits := stripSeparators(number)
	if len(digits) < 13 || len(digits) > 19 {
		return false
	}

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		c := digits[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// ValidateExpiryDate reports whether a card expiring at month/year is still
// usable this month.
func ValidateExpiryDate(month, year int) bool {
	return ValidateExpiryDateAt(month, year, time.Now())
}

// ValidateExpiryDateAt is ValidateExpiryDate against an explicit instant.
// Two-digit years are read as 20YY. A card is valid through the end of its
// expiry month.
func ValidateExpiryDateAt(month, year int, now time.Time) bool {
	if month < 1 || month > 12 {
		return false
	}
	if year >= 0 && year < 100 {
		year += 2000
	}
	if year != now.Year() {
		return year > now.Year()
	}
	return month >= int(now.Month())
}

// ValidateCVV reports whether cvv is exactly four ASCII digits for Amex
// and exactly three for everything else.
func ValidateCVV(cvv string, brand Brand) bool {
	want := 3
	if brand == Amex {
		want = 4
	}
	if len(cvv) != want {
		return false
	}
	for i := 0; i < len(cvv); i++ {
		if cvv[i] < '0' || cvv[i] > '9' {
			return false
		}
	}
	return true
}

func stripSeparators(number string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(number)
}
