package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"month name", "Счет № 5 от 4 ноября 2024 г.", "2024-11-04"},
		{"month name quoted", "от «15» марта 2024 года", "2024-03-15"},
		{"month name upper", "4 НОЯБРЯ 2024", "2024-11-04"},
		{"dotted", "Счет № 36 от 04.11.2024", "2024-11-04"},
		{"dotted single digits", "от 4.3.2024", "2024-03-04"},
		{"slashed", "Date 04/11/2024", "2024-11-04"},
		{"iso", "created 2024-11-04", "2024-11-04"},
		{"skips implausible", "99.99.2024 и 05.06.2024", "2024-06-05"},
	}

	e := newTestEngine(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.ExtractDate(tt.text)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractDateMiss(t *testing.T) {
	_, ok := newTestEngine(t).ExtractDate("Счет № 5 без даты")
	assert.False(t, ok)
}

func TestExtractDueDate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"pay not later", "Оплатить не позднее 10.11.2024", "2024-11-10", true},
		{"payment term", "Срок оплаты: до 15.12.2024", "2024-12-15", true},
		{"bare not later", "Поставка не позднее 01.03.2024", "2024-03-01", true},
		{"none", "Счет № 36 от 04.11.2024", "", false},
	}

	e := newTestEngine(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.ExtractDueDate(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsoDate(t *testing.T) {
	got, err := isoDate("4", "ноября", "2024")
	require.NoError(t, err)
	assert.Equal(t, "2024-11-04", got)

	_, err = isoDate("32", "01", "2024")
	assert.Error(t, err)
	_, err = isoDate("1", "13", "2024")
	assert.Error(t, err)
	_, err = isoDate("1", "брюмера", "2024")
	assert.Error(t, err)
}
