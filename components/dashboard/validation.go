package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const overviewSchemaName = "analytics_overview.json"

// PayloadValidator checks decoded backend payloads before they reach the controller.
type PayloadValidator interface {
	Validate(payload any) error
}

// OverviewSchema describes the analytics overview body returned by the backend.
func OverviewSchema() map[string]any {
	number := map[string]any{"type": "number"}
	integer := map[string]any{"type": "integer"}
	text := map[string]any{"type": "string"}
	return map[string]any{
		"type": "object",
		"required": []string{
			"today_revenue", "today_orders", "mtd_revenue", "mtd_orders",
			"avg_order_value", "top_products", "segments", "timeseries",
		},
		"properties": map[string]any{
			"today_revenue":   number,
			"today_orders":    integer,
			"mtd_revenue":     number,
			"mtd_orders":      integer,
			"avg_order_value": number,
			"top_products": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"title", "quantity", "revenue"},
					"properties": map[string]any{
						"title":    text,
						"quantity": integer,
						"revenue":  number,
					},
				},
			},
			"segments": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"segment", "count"},
					"properties": map[string]any{
						"segment": text,
						"count":   integer,
					},
				},
			},
			"timeseries": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"date", "revenue"},
					"properties": map[string]any{
						"date":    text,
						"revenue": number,
					},
				},
			},
		},
	}
}

// JSONSchemaValidator compiles a schema once and validates decoded JSON values.
type JSONSchemaValidator struct {
	name   string
	schema map[string]any

	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator(name string, schema map[string]any) *JSONSchemaValidator {
	return &JSONSchemaValidator{name: name, schema: schema}
}

// NewOverviewValidator validates analytics overview payloads.
func NewOverviewValidator() *JSONSchemaValidator {
	return NewJSONSchemaValidator(overviewSchemaName, OverviewSchema())
}

// Validate ensures the payload satisfies the schema. The payload must be the
// result of decoding JSON into an interface value.
func (v *JSONSchemaValidator) Validate(payload any) error {
	schema, err := v.compile()
	if err != nil {
		return err
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("dashboard: payload %s failed validation: %w", v.name, err)
	}
	return nil
}

func (v *JSONSchemaValidator) compile() (*jsonschema.Schema, error) {
	v.once.Do(func() {
		data, err := json.Marshal(v.schema)
		if err != nil {
			v.err = fmt.Errorf("dashboard: marshal schema %s: %w", v.name, err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(v.name, bytes.NewReader(data)); err != nil {
			v.err = fmt.Errorf("dashboard: load schema %s: %w", v.name, err)
			return
		}
		v.compiled, v.err = compiler.Compile(v.name)
		if v.err != nil {
			v.err = fmt.Errorf("dashboard: compile schema %s: %w", v.name, v.err)
		}
	})
	return v.compiled, v.err
}

type noopPayloadValidator struct{}

func (noopPayloadValidator) Validate(any) error { return nil }

// NoopPayloadValidator accepts every payload.
func NoopPayloadValidator() PayloadValidator {
	return noopPayloadValidator{}
}
