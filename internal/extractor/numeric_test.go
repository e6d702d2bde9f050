package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenormalizeNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"4.5E+11", "450000000000"},
		{"1.23e2", "123"},
		{"-2.5e3", "-2500"},
		{"4.56e1", "45.6"},
		{"9E0", "9"},
		{"450000000000", "450000000000"},
		{"not a number", "not a number"},
		{"4.5E+11 extra", "4.5E+11 extra"},
		{"e11", "e11"},
		{"", ""},
		{" 4.5E+11 ", "450000000000"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, RenormalizeNumber(tt.in))
		})
	}
}

func TestIsIdentifierField(t *testing.T) {
	assert.True(t, isIdentifierField("account_no"))
	assert.True(t, isIdentifierField("Account_No"))
	assert.True(t, isIdentifierField("other_party_1_ref_no"))
	assert.True(t, isIdentifierField("new_ic"))
	assert.False(t, isIdentifierField("phone"))
	assert.False(t, isIdentifierField("amount"))
	assert.False(t, isIdentifierField("no"))
}
