package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateCardNumber_Luhn(t *testing.T) {
	tests := []struct {
		number string
		want   bool
	}{
		{"4532015112830366", true},
		{"4532015112830367", false},
		{"4111111111111111", true},
		{"4111 1111 1111 1111", true},
		{"4111-1111-1111-1111", true},
		{"5500000000000004", true},
		{"378282246310005", true},
		{"6011111111111117", true},
		{"411111111111", false},         // 12 digits
		{"41111111111111111111", false}, // 20 digits
		{"4111a11111111111", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateCardNumber(tt.number))
		})
	}
}

func TestDetectCardBrand(t *testing.T) {
	tests := []struct {
		number string
		want   Brand
	}{
		{"4111111111111111", Visa},
		{"5500000000000004", Mastercard},
		{"5100000000000000", Mastercard},
		{"5600000000000000", OtherBrand},
		{"340000000000009", Amex},
		{"370000000000002", Amex},
		{"6011000000000004", Discover},
		{"6500000000000002", Discover},
		{"6200000000000000", OtherBrand},
		{"", OtherBrand},
	}
	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectCardBrand(tt.number))
		})
	}
}

func TestFormatCardNumber(t *testing.T) {
	assert.Equal(t, "4111 1111 1111 1111", FormatCardNumber("4111111111111111"))
	assert.Equal(t, "3782 8224 6310 005", FormatCardNumber("3782 822463 10005"))
	assert.Equal(t, "4111 1", FormatCardNumber("41111"))
	assert.Equal(t, "", FormatCardNumber(""))
}

func TestMaskCardNumber(t *testing.T) {
	assert.Equal(t, "•••• •••• •••• 4242", MaskCardNumber("4242"))
}

func TestValidateExpiryDateAt(t *testing.T) {
	now := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name        string
		month, year int
		want        bool
	}{
		{"current month", 10, 2026, true},
		{"last month", 9, 2026, false},
		{"next year", 1, 2027, true},
		{"last year", 12, 2025, false},
		{"two digit year", 1, 27, true},
		{"two digit past", 12, 25, false},
		{"month zero", 0, 2030, false},
		{"month thirteen", 13, 2030, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateExpiryDateAt(tt.month, tt.year, now))
		})
	}
}

func TestValidateExpiryDate_UsesWallClock(t *testing.T) {
	assert.True(t, ValidateExpiryDate(12, time.Now().Year()+1))
	assert.False(t, ValidateExpiryDate(1, time.Now().Year()-1))
}

func TestValidateCVV(t *testing.T) {
	assert.True(t, ValidateCVV("123", Visa))
	assert.False(t, ValidateCVV("1234", Visa))
	assert.True(t, ValidateCVV("1234", Amex))
	assert.False(t, ValidateCVV("123", Amex))
	assert.False(t, ValidateCVV("12a", Mastercard))
	assert.True(t, ValidateCVV("999", OtherBrand))
	assert.False(t, ValidateCVV("", Visa))
	assert.False(t, ValidateCVV("12", Visa))
	assert.False(t, ValidateCVV("12345", Amex))
	assert.False(t, ValidateCVV(" 123", Visa))
}

func TestValidateCVV_RejectsNonASCIIDigits(t *testing.T) {
	tests := []struct {
		name  string
		cvv   string
		brand Brand
	}{
		{"arabic-indic pair as amex", "١٢", Amex},
		{"mixed ascii and arabic-indic", "1٢", Visa},
		{"three arabic-indic", "١٢٣", Visa},
		{"fullwidth digits", "１２３", Mastercard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, ValidateCVV(tt.cvv, tt.brand))
		})
	}
}

func TestValidateCardForm(t *testing.T) {
	now := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	ok := CardForm{Number: "4111 1111 1111 1111", HolderName: "Jo Doe", ExpiryMonth: 12, ExpiryYear: 28, CVV: "123"}
	assert.Empty(t, ValidateCardForm(ok, now))

	bad := CardForm{Number: "4111111111111112", ExpiryMonth: 1, ExpiryYear: 2020, CVV: "12"}
	assert.Equal(t, []string{
		"card number is invalid",
		"cardholder name is required",
		"expiry date is invalid or in the past",
		"security code is invalid",
	}, ValidateCardForm(bad, now))
}

func TestNewCardMethod(t *testing.T) {
	m := NewCardMethod(CardForm{Number: "3782 822463 10005", HolderName: " Jo Doe ", ExpiryMonth: 4, ExpiryYear: 29}, CreditCard, true)
	assert.Equal(t, Amex, m.CardBrand)
	assert.Equal(t, "0005", m.Last4)
	assert.Equal(t, "Jo Doe", m.HolderName)
	assert.Equal(t, 2029, m.ExpiryYear)
	assert.True(t, m.IsDefault)
	assert.Empty(t, m.ID, "ids are assigned by the store")
}

func TestNewPayPalMethod(t *testing.T) {
	m, ok := NewPayPalMethod("jo@example.com", false)
	assert.True(t, ok)
	assert.Equal(t, PayPal, m.Type)
	assert.Equal(t, "jo@example.com", m.PayPalEmail)

	_, ok = NewPayPalMethod("not-an-email", false)
	assert.False(t, ok)
	_, ok = NewPayPalMethod("Jo <jo@example.com>", false)
	assert.False(t, ok)
}
