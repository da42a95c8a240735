package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-storefront/models"
)

func TestNormalizeSpace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims and collapses", "  123  Main St ", "123 main st"},
		{"already normalized", "123 main st", "123 main st"},
		{"tabs and newlines", "123\tMain\nSt", "123 main st"},
		{"empty", "", ""},
		{"only whitespace", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeSpace(tt.in))
		})
	}
}

func TestNormalizeSpaceIdempotent(t *testing.T) {
	inputs := []string{"  1 Elm   St ", "DHAKA", "Mixed  Case\tCity"}
	for _, in := range inputs {
		once := normalizeSpace(in)
		assert.Equal(t, once, normalizeSpace(once))
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+880 1710-000000", "+8801710000000"},
		{"(555) 123-4567", "5551234567"},
		{"+1 555 123 4567", "+15551234567"},
		{"", ""},
		{"abc", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizePhone(tt.in))
	}
}

func TestAddressKeyDeterministic(t *testing.T) {
	a := models.AddressInput{
		Street:  "1 Elm St",
		City:    "Dhaka",
		State:   "Dhaka",
		ZipCode: "1207",
		Country: "Bangladesh",
		Phone:   "+880 1710-000000",
	}
	assert.Equal(t, AddressKey(a), AddressKey(a))
	assert.Equal(t, "1 elm st|dhaka|dhaka|1207|bangladesh|+8801710000000", AddressKey(a))
}

func TestAddressKeyIgnoresFormatting(t *testing.T) {
	a := models.AddressInput{
		Street:  "  1  Elm   St ",
		City:    "DHAKA",
		State:   "dhaka",
		ZipCode: " 1207",
		Country: "Bangladesh ",
		Phone:   "+880 1710-000000",
	}
	b := models.AddressInput{
		Street:  "1 Elm St",
		City:    "Dhaka",
		State:   "Dhaka",
		ZipCode: "1207",
		Country: "Bangladesh",
		Phone:   "+8801710000000",
	}
	assert.Equal(t, AddressKey(b), AddressKey(a))
}

func TestAddressKeyIgnoresNameAndEmail(t *testing.T) {
	a := models.AddressInput{
		FirstName: "Alice",
		LastName:  "Ahmed",
		Email:     "alice@example.com",
		Street:    "1 Elm St",
		City:      "Dhaka",
		State:     "Dhaka",
		ZipCode:   "1207",
		Country:   "Bangladesh",
		Phone:     "+8801710000000",
	}
	b := a
	b.FirstName = "Bob"
	b.LastName = "Rahman"
	b.Email = "bob@example.com"
	assert.Equal(t, AddressKey(a), AddressKey(b))
}

func TestAddressKeyDistinguishesPhysicalFields(t *testing.T) {
	base := models.AddressInput{
		Street:  "1 Elm St",
		City:    "Dhaka",
		State:   "Dhaka",
		ZipCode: "1207",
		Country: "Bangladesh",
		Phone:   "+8801710000000",
	}

	other := base
	other.Street = "2 Elm St"
	assert.NotEqual(t, AddressKey(base), AddressKey(other))

	other = base
	other.Phone = "+8801710000001"
	assert.NotEqual(t, AddressKey(base), AddressKey(other))
}

func TestAddressKeyMissingFields(t *testing.T) {
	// A submission missing fields still yields a stable key.
	assert.Equal(t, "|||||", AddressKey(models.AddressInput{}))

	partial := models.AddressInput{Street: "1 Elm St"}
	assert.Equal(t, "1 elm st|||||", AddressKey(partial))
}
