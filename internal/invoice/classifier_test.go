package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsInvoiceDocument(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"invoice", "Счёт на оплату № 5", true},
		{"invoice without yo", "СЧЕТ № 5", true},
		{"invoice factura", "Счет-фактура № 5 от 01.02.2024", true},
		{"english", "INVOICE 42", true},
		{"totals only", "Итого: 5000", true},
		{"surcharge", "К доплате 100", true},
		{"overall cost", "Общая стоимость работ", true},
		{"tender card", "Информационная карта участника торгов\nИтого: 5000", false},
		{"questionnaire", "АНКЕТА участника\nСчет № 1", false},
		{"application", "Заявка на участие, итого 3 позиции", false},
		{"activity certificate", "Справка о деятельности\nИтого", false},
		{"organization details", "Реквизиты организации ООО Ромашка, расчетный счет", false},
		{"no indicators", "Договор поставки № 7", false},
		{"empty", "", false},
	}

	e := newTestEngine(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.IsInvoiceDocument(tt.text))
		})
	}
}

func TestClassifierDecisionIsTraced(t *testing.T) {
	res := newTestEngine(t).Parse("Анкета\nИтого: 5000")
	require.NotNil(t, res.Rejection)
	decisions := res.Decisions(FieldClassifier)
	require.Len(t, decisions, 1)
	assert.Equal(t, "exclusion", decisions[0].Rule)
	assert.Equal(t, "анкета", decisions[0].Value)
	assert.Contains(t, res.Rejection.Reason, "анкета")
}
