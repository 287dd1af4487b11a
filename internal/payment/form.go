package payment

import (
	"net/mail"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// CardForm is the raw input of the add-card screen.
type CardForm struct {
	Number      string
	HolderName  string
	ExpiryMonth int
	ExpiryYear  int
	CVV         string
}

// ValidateCardForm returns one message per invalid field; empty means valid.
func ValidateCardForm(f CardForm, now time.Time) []string {
	var problems []string
	if !ValidateCardNumber(f.Number) {
		problems = append(problems, "card number is invalid")
	}
	if strings.TrimSpace(f.HolderName) == "" {
		problems = append(problems, "cardholder name is required")
	}
	if !ValidateExpiryDateAt(f.ExpiryMonth, f.ExpiryYear, now) {
		problems = append(problems, "expiry date is invalid or in the past")
	}
	if !ValidateCVV(f.CVV, DetectCardBrand(f.Number)) {
		problems = append(problems, "security code is invalid")
	}
	return problems
}

// NewCardMethod builds a card payment method from a validated form. Only
// the brand and last four digits of the number are kept.
func NewCardMethod(f CardForm, t MethodType, isDefault bool) Method {
	digits := stripSeparators(f.Number)
	last4 := digits
	if len(digits) > 4 {
		last4 = digits[len(digits)-4:]
	}
	year := f.ExpiryYear
	if year >= 0 && year < 100 {
		year += 2000
	}
	return Method{
		Type:        t,
		IsDefault:   isDefault,
		CardBrand:   DetectCardBrand(digits),
		Last4:       last4,
		HolderName:  norm.NFC.String(strings.TrimSpace(f.HolderName)),
		ExpiryMonth: f.ExpiryMonth,
		ExpiryYear:  year,
	}
}

// NewPayPalMethod builds a PayPal payment method. ok is false when email
// is not a valid address.
func NewPayPalMethod(email string, isDefault bool) (Method, bool) {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Name != "" {
		return Method{}, false
	}
	return Method{Type: PayPal, IsDefault: isDefault, PayPalEmail: addr.Address}, true
}
