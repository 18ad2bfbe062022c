package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCPF(t *testing.T) {
	tests := []struct {
		name    string
		cpf     string
		wantErr bool
	}{
		{"valid plain", "52998224725", false},
		{"valid punctuated", "529.982.247-25", false},
		{"first check digit wrong", "52998224735", true},
		{"second check digit wrong", "52998224724", true},
		{"repeated digits", "111.111.111-11", true},
		{"too short", "1234567890", true},
		{"too long", "123456789012", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCPF(tt.cpf)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCPF)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeCPF(t *testing.T) {
	assert.Equal(t, "52998224725", NormalizeCPF("529.982.247-25"))
	assert.Equal(t, "52998224725", NormalizeCPF(" 529 982 247 25 "))
}

func TestFormatBirthdate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"19900115", "19900115"},
		{"15/01/1990", "19900115"},
		{"15-01-1990", "19900115"},
		{"1990-01-15", "19900115"},
		{"1990/01/15", "19900115"},
		{" 15/01/1990 ", "19900115"},
	}

	for _, tt := range tests {
		got, err := FormatBirthdate(tt.in)
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}

	_, err := FormatBirthdate("January 15, 1990")
	assert.Error(t, err)
}
