package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	hotelSchemaOnce sync.Once
	hotelSchema     *jsonschema.Schema
	hotelSchemaErr  error
)

// ValidateHotelRateJSON validates data against the hotel-rate schema, compiled once.
func ValidateHotelRateJSON(data []byte) error {
	hotelSchemaOnce.Do(func() {
		hotelSchema, hotelSchemaErr = compileSchema(BuildHotelRateJSONSchema())
	})
	if hotelSchemaErr != nil {
		return hotelSchemaErr
	}
	return validateWith(hotelSchema, data)
}

func compileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

func validateWith(schema *jsonschema.Schema, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
