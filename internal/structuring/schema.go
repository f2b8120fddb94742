package structuring

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const timePattern = `^([01]?\d|2[0-3]):[0-5]\d$`

// BuildTimetableJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. It is embedded in the prompt as the output contract and used
// locally to validate the model's response.
func BuildTimetableJSONSchema() map[string]any {
	block := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"startTime":   map[string]any{"type": "string", "pattern": timePattern},
			"endTime":     map[string]any{"type": "string", "pattern": timePattern},
			"subject":     map[string]any{"type": "string", "minLength": 1},
			"location":    map[string]any{"type": "string"},
			"notes":       map[string]any{"type": "string"},
			"teacherName": map[string]any{"type": "string"},
		},
		"required": []string{"startTime", "endTime", "subject"},
	}

	dayProps := make(map[string]any, len(Weekdays))
	for _, day := range Weekdays {
		dayProps[day] = map[string]any{"type": "array", "items": block}
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"title": map[string]any{"type": "string"},
			"schedule": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties":           dayProps,
			},
		},
		"required": []string{"schedule"},
	}
}

// ValidateAgainstSchema validates data against schemaMap.
func ValidateAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
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
