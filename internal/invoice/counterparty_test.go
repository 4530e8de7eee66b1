package invoice

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoice-parser/constants"
)

func TestExtractContractorName(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"direct quoted", "Поставщик: ООО \"Ромашка\", ИНН 7801514385", `ООО "Ромашка"`},
		{"direct spelled out form", "Поставщик: Акционерное Общество «Балтийское Стекло», ИНН 7801514385", `АО "Балтийское Стекло"`},
		{"direct before inn", "Поставщик: ООО Ромашка, ИНН 7801514385, КПП 780101001", `ООО "Ромашка"`},
		{"recipient after requisites", recipientInvoice, `ООО "Группа компаний "СтиС""`},
		{"seller form", "Покупатель: ИП Ткачев Сергей Олегович\nПродавец: ООО \"Север\", ИНН 7801514385", `ООО "Север"`},
		{"known partner", "Счет № 5\nООО «СТД «Петрович»\nИтого 5000", "Петрович"},
		{"known partner ocr", "ООО ксперт ентал нжиниринг", "Эксперт Рентал Инжиниринг"},
		{"bare ip", "Заказчик: ООО \"Ткачев и партнеры\"\nИП Иванов Иван Иванович", "ИП Иванов Иван Иванович"},
		{"bare supplier gets form", "Поставщик: Ромашка\nИтого 5000", `ООО "Ромашка"`},
	}

	e := newTestEngine(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.ExtractContractorName(tt.text)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContractorNameMisses(t *testing.T) {
	e := newTestEngine(t)

	_, ok := e.ExtractContractorName(`ООО "Банк"`)
	assert.False(t, ok, "stoplisted token")

	_, ok = e.ExtractContractorName(`Заказчик: ООО "Ткачев и партнеры"`)
	assert.False(t, ok, "buyer name")

	_, ok = e.ExtractContractorName("Итого: 5000,00")
	assert.False(t, ok)
}

func TestKnownCompaniesCanBeDisabled(t *testing.T) {
	text := "Счет № 5\nООО «СТД «Петрович»\nИтого 5000"

	cfg := DefaultConfig()
	cfg.DisableKnownCompanies = true
	res := NewEngine(cfg, testLogger()).Parse(text)
	require.True(t, res.IsInvoice())
	assert.Nil(t, res.Invoice.Counterparty.Name)
	for _, d := range res.Decisions(FieldName) {
		assert.NotContains(t, d.Rule, "name.known.")
	}
}

func TestKnownCompaniesAreInjectable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KnownCompanies = []KnownCompany{{
		Key:     "sever",
		Pattern: regexp.MustCompile(`(?i)северный\s+завод`),
		Name:    `АО "Северный завод"`,
	}}
	e := NewEngine(cfg, testLogger())

	res := e.Parse("Счет № 9\nСЕВЕРНЫЙ ЗАВОД\nИтого: 900,00")
	require.True(t, res.IsInvoice())
	require.NotNil(t, res.Invoice.Counterparty.Name)
	assert.Equal(t, `АО "Северный завод"`, *res.Invoice.Counterparty.Name)
	assert.Equal(t, "name.known.sever", res.AcceptedRule(FieldName))
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		raw  string
		def  constants.LegalForm
		want string
	}{
		{`ООО "Ромашка", ИНН 7801514385`, constants.FormNone, `ООО "Ромашка"`},
		{`Общество с ограниченной ответственностью «Ромашка»`, constants.FormNone, `ООО "Ромашка"`},
		{`000 "Ромашка"`, constants.FormNone, `ООО "Ромашка"`},
		{`ИП Иванов Иван Иванович тел. 123`, constants.FormNone, "ИП Иванов Иван Иванович"},
		{`Ромашка КПП 780101001`, constants.FormOOO, `ООО "Ромашка"`},
		{`ООО "Ромашка"...`, constants.FormNone, `ООО "Ромашка"`},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeName(tt.raw, tt.def))
		})
	}
}

func TestTrimQuotesBalancesNested(t *testing.T) {
	assert.Equal(t, `Группа компаний "СтиС"`, trimQuotes(`Группа компаний "СтиС""`))
	assert.Equal(t, "Ромашка", trimQuotes(`«Ромашка»`))
}
