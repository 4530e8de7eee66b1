package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"1 234,56", "1234.56", false},
		{"1234.5", "1234.5", false},
		{"13608.00", "13608", false},
		{"1.234.567,89", "1234567.89", false},
		{"1,234,567.89", "1234567.89", false},
		{"12,345", "12345", false},
		{"  500 ", "500", false},
		{"", "", true},
		{"abc", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseAmount(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(dec(tt.want)), "got %s", got)
		})
	}
}

func TestAmountMarshalsAsNumber(t *testing.T) {
	b, err := NewAmount(dec("16329.6")).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "16329.60", string(b))

	var a Amount
	require.NoError(t, a.UnmarshalJSON([]byte("2721.60")))
	assert.True(t, a.Equal(dec("2721.6")))
}

func TestIntegerDigits(t *testing.T) {
	assert.Equal(t, "7801514385", integerDigits(dec("7801514385.00")))
	assert.Equal(t, "16329", integerDigits(dec("16329.60")))
}
