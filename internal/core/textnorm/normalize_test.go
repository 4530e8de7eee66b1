package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrepare(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"crlf", "Счет № 1\r\nот 01.02.2024\r", "Счет № 1\nот 01.02.2024"},
		{"nbsp", "Итого:\u00a016\u00a0329,60", "Итого: 16 329,60"},
		{"narrow nbsp", "13\u202f608", "13 608"},
		{"tabs and runs", "ИНН\t\t7720774346    КПП", "ИНН 7720774346 КПП"},
		{"blank lines", "a\n\n\n\n\nb", "a\n\nb"},
		{"trailing spaces", "a   \nb  ", "a\nb"},
		{"zero width", "И\u200bНН", "ИНН"},
		{"nfc", "и\u0306", "\u0439"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Prepare(tt.in))
		})
	}
}

func TestPrepareKeepsLines(t *testing.T) {
	in := "Поставщик: ООО \"Ромашка\"\nПокупатель: ИП Иванов"
	assert.Equal(t, in, Prepare(in))
}

func TestClean(t *testing.T) {
	assert.Equal(t, "ООО \"Группа компаний\"", Clean("  ООО\n\t\"Группа  компаний\"  "))
	assert.Equal(t, "", Clean(" \n "))
}
