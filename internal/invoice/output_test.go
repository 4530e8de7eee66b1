package invoice

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalResultInvoiceShape(t *testing.T) {
	res := newTestEngine(t).Parse(surchargeInvoice)
	b, err := MarshalResult(res)
	require.NoError(t, err)
	require.NoError(t, ValidateResultJSON(b))

	s := string(b)
	assert.Contains(t, s, `"total_amount":16329.60`)
	assert.Contains(t, s, `"vat_rate":20.00`)
	assert.Contains(t, s, `"items":[]`)
	assert.NotContains(t, s, `"trace"`)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(b, &doc))
	contractor, ok := doc["contractor"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, contractor, "all_inns")
	assert.Nil(t, contractor["name"])
}

func TestMarshalResultWithTrace(t *testing.T) {
	res := newTestEngine(t).Parse(recipientInvoice)
	b, err := MarshalResultWithTrace(res)
	require.NoError(t, err)
	require.NoError(t, ValidateResultJSON(b))

	var doc struct {
		Trace []Decision `json:"trace"`
	}
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.NotEmpty(t, doc.Trace)
}

func TestMarshalRejection(t *testing.T) {
	res := newTestEngine(t).Parse("Анкета участника")
	b, err := MarshalResult(res)
	require.NoError(t, err)
	require.NoError(t, ValidateResultJSON(b))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.Equal(t, "NOT_INVOICE", doc["code"])
	assert.Equal(t, "unknown", doc["document_type"])
	assert.NotContains(t, doc, "invoice")
	assert.NotContains(t, doc, "Reason")
}

func TestMarshalEmptyResult(t *testing.T) {
	_, err := MarshalResult(Result{})
	assert.Error(t, err)
}

func TestValidateResultJSONRejectsBadShapes(t *testing.T) {
	tests := map[string]string{
		"wrong code":   `{"code":"X","error":"e","document_type":"unknown","message":"m"}`,
		"bad date":     `{"invoice":{"number":"1","date":"04.11.2024","due_date":null,"total_amount":null,"vat_amount":null,"vat_rate":null,"has_vat":false},"contractor":{"name":null,"inn":null,"all_inns":[],"kpp":null,"address":null},"items":[]}`,
		"short inn":    `{"invoice":{"number":"1","date":null,"due_date":null,"total_amount":null,"vat_amount":null,"vat_rate":null,"has_vat":false},"contractor":{"name":null,"inn":"123","all_inns":[],"kpp":null,"address":null},"items":[]}`,
		"not json":     `{`,
		"negative sum": `{"invoice":{"number":"1","date":null,"due_date":null,"total_amount":-5,"vat_amount":null,"vat_rate":null,"has_vat":false},"contractor":{"name":null,"inn":null,"all_inns":[],"kpp":null,"address":null},"items":[]}`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, ValidateResultJSON([]byte(doc)))
		})
	}
}

func TestReadable(t *testing.T) {
	e := newTestEngine(t)

	out := e.Parse(surchargeInvoice).Readable()
	assert.Contains(t, out, "Номер счёта:")
	assert.Contains(t, out, "36")
	assert.Contains(t, out, "16329.60 руб.")
	assert.Contains(t, out, "20.00%")
	assert.Contains(t, out, undetermined)

	rej := e.Parse("Анкета участника").Readable()
	assert.Contains(t, rej, "ОШИБКА")
	assert.Contains(t, rej, "анкета")
}
