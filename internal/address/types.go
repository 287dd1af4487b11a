package address

import "golang.org/x/text/unicode/norm"

// Type says what an address may be used for.
type Type string

const (
	Shipping Type = "shipping"
	Billing  Type = "billing"
	Both     Type = "both"
)

// Valid reports whether t is a known address type.
func (t Type) Valid() bool {
	switch t {
	case Shipping, Billing, Both:
		return true
	}
	return false
}

// Overlaps reports whether a and b share a default partition: equal types,
// or either side is Both.
func Overlaps(a, b Type) bool {
	return a == b || a == Both || b == Both
}

// Address is a shipping and/or billing address.
type Address struct {
	ID           string `json:"id" yaml:"id"`
	FullName     string `json:"fullName" yaml:"fullName"`
	Phone        string `json:"phone" yaml:"phone"`
	AddressLine1 string `json:"addressLine1" yaml:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty" yaml:"addressLine2"`
	City         string `json:"city" yaml:"city"`
	State        string `json:"state" yaml:"state"`
	ZipCode      string `json:"zipCode" yaml:"zipCode"`
	Country      string `json:"country" yaml:"country"`
	Type         Type   `json:"type" yaml:"type"`
	IsDefault    bool   `json:"isDefault" yaml:"isDefault"`
}

// Patch is a partial update; nil fields are left unchanged.
type Patch struct {
	FullName     *string
	Phone        *string
	AddressLine1 *string
	AddressLine2 *string
	City         *string
	State        *string
	ZipCode      *string
	Country      *string
	Type         *Type
	IsDefault    *bool
}

func (p Patch) apply(a *Address) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&a.FullName, p.FullName)
	set(&a.Phone, p.Phone)
	set(&a.AddressLine1, p.AddressLine1)
	set(&a.AddressLine2, p.AddressLine2)
	set(&a.City, p.City)
	set(&a.State, p.State)
	set(&a.ZipCode, p.ZipCode)
	set(&a.Country, p.Country)
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.IsDefault != nil {
		a.IsDefault = *p.IsDefault
	}
}

// normalize puts free-text fields in NFC so visually equal names compare equal.
func normalize(a *Address) {
	for _, f := range []*string{&a.FullName, &a.AddressLine1, &a.AddressLine2, &a.City, &a.State, &a.Country} {
		*f = norm.NFC.String(*f)
	}
}
