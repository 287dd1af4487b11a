package address

import (
	"strings"
	"unicode"
)

// Validate checks an address form and returns one message per problem.
// An empty result means the address may be saved.
func Validate(a Address) []string {
	var problems []string
	required := []struct {
		value, field string
	}{
		{a.FullName, "full name"},
		{a.Phone, "phone"},
		{a.AddressLine1, "address line 1"},
		{a.City, "city"},
		{a.ZipCode, "zip code"},
		{a.Country, "country"},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			problems = append(problems, r.field+" is required")
		}
	}

	if a.Phone != "" {
		digits := 0
		for _, r := range a.Phone {
			switch {
			case unicode.IsDigit(r):
				digits++
			case r == '+' || r == ' ' || r == '-' || r == '(' || r == ')':
			default:
				problems = append(problems, "phone may contain only digits, spaces and + - ( )")
				digits = -1
			}
			if digits < 0 {
				break
			}
		}
		if digits >= 0 && digits < 7 {
			problems = append(problems, "phone must have at least 7 digits")
		}
	}

	if !a.Type.Valid() {
		problems = append(problems, "type must be shipping, billing or both")
	}
	return problems
}
