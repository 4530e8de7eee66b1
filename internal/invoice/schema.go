package invoice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/invoice-parser/constants"
)

// BuildResultJSONSchema returns the JSON Schema of MarshalResult's output as
// a generic map: either a parsed invoice or a rejection.
func BuildResultJSONSchema() map[string]any {
	invoice := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"number":       nullable(map[string]any{"type": "string", "minLength": 1}),
			"date":         nullable(isoDateProp()),
			"due_date":     nullable(isoDateProp()),
			"total_amount": nullable(moneyProp()),
			"vat_amount":   nullable(moneyProp()),
			"vat_rate":     nullable(map[string]any{"type": "number", "minimum": 0, "maximum": 100}),
			"has_vat":      map[string]any{"type": "boolean"},
		},
		"required": []string{"number", "date", "due_date", "total_amount", "vat_amount", "vat_rate", "has_vat"},
	}
	contractor := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name": nullable(map[string]any{"type": "string", "minLength": 1}),
			"inn":  nullable(taxIDProp()),
			"all_inns": map[string]any{
				"type":        "array",
				"items":       taxIDProp(),
				"uniqueItems": true,
			},
			"kpp":     nullable(map[string]any{"type": "string", "pattern": `^\d{9}$`}),
			"address": nullable(map[string]any{"type": "string"}),
		},
		"required": []string{"name", "inn", "all_inns", "kpp", "address"},
	}
	parsed := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"invoice":    invoice,
			"contractor": contractor,
			"items":      map[string]any{"type": "array"},
			"trace":      map[string]any{"type": "array"},
		},
		"required":             []string{"invoice", "contractor", "items"},
		"additionalProperties": false,
	}
	rejection := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"code":          map[string]any{"const": constants.RejectionCode},
			"error":         map[string]any{"type": "string", "minLength": 1},
			"document_type": map[string]any{"type": "string"},
			"message":       map[string]any{"type": "string"},
			"trace":         map[string]any{"type": "array"},
		},
		"required":             []string{"code", "error", "document_type", "message"},
		"additionalProperties": false,
	}
	return map[string]any{
		"oneOf": []any{parsed, rejection},
	}
}

func nullable(prop map[string]any) map[string]any {
	return map[string]any{"oneOf": []any{prop, map[string]any{"type": "null"}}}
}

func moneyProp() map[string]any {
	return map[string]any{"type": "number", "minimum": 0}
}

func isoDateProp() map[string]any {
	return map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`}
}

func taxIDProp() map[string]any {
	return map[string]any{"type": "string", "pattern": `^(\d{10}|\d{12})$`}
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func resultSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		b, err := json.Marshal(BuildResultJSONSchema())
		if err != nil {
			schemaErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("schema.json")
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// ValidateResultJSON checks serialized output against BuildResultJSONSchema.
func ValidateResultJSON(data []byte) error {
	schema, err := resultSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
