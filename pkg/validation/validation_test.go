package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{"a@b.co", "asha.patel+rides@example.com", "X@Y.ORG"}
	for _, e := range valid {
		assert.True(t, ValidateEmail(e), e)
	}
	invalid := []string{"", "plain", "@example.com", "a@b", "a b@c.com", strings.Repeat("x", 200) + "@e.com"}
	for _, e := range invalid {
		assert.False(t, ValidateEmail(e), e)
	}
}

func TestValidatePhone(t *testing.T) {
	assert.True(t, ValidatePhone("+919876543210"))
	assert.True(t, ValidatePhone("4155551234"))
	assert.False(t, ValidatePhone(""))
	assert.False(t, ValidatePhone("0123"))
	assert.False(t, ValidatePhone("not-a-number"))
}

func TestValidateName(t *testing.T) {
	assert.True(t, ValidateName("Asha"))
	assert.True(t, ValidateName("  Jo  ")) // trimmed before the length check
	assert.False(t, ValidateName("A"))
	assert.False(t, ValidateName("   "))
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("secret"))
	assert.False(t, ValidatePassword("abc"))
	assert.False(t, ValidatePassword(strings.Repeat("x", 101)))
}

func TestValidateRating(t *testing.T) {
	for r := 1; r <= 5; r++ {
		assert.True(t, ValidateRating(r))
	}
	assert.False(t, ValidateRating(0))
	assert.False(t, ValidateRating(6))
	assert.False(t, ValidateRating(-3))
}

func TestValidateRole(t *testing.T) {
	assert.True(t, ValidateRole("driver"))
	assert.True(t, ValidateRole("passenger"))
	assert.False(t, ValidateRole("owner"))
	assert.False(t, ValidateRole(""))
}

func TestErrorf(t *testing.T) {
	err := Errorf("Only %d seats available", 2)
	assert.EqualError(t, err, "Only 2 seats available")
}
