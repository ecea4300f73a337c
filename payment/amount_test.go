package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"12.5", 1250},
		{"12.50", 1250},
		{"1", 100},
		{" 499 ", 49900},
		{"0.01", 1},
		{"0.005", 1},
		{"10.125", 1013},
		{"10.124", 1012},
		{"1e2", 10000},
		{".5", 50},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAmountRejects(t *testing.T) {
	for _, in := range []string{"", "  ", "abc", "0", "-5", "0.004", "NaN", "Inf", "1/2", "0x10", "12,50", "1e5000", "99999999999999999999"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseAmount(in)
			assert.ErrorIs(t, err, ErrInvalidAmount)
		})
	}
}

func TestFormatMinor(t *testing.T) {
	assert.Equal(t, "12.50", FormatMinor(1250))
	assert.Equal(t, "0.05", FormatMinor(5))
	assert.Equal(t, "-1.00", FormatMinor(-100))
}
