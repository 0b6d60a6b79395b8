package bridge

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// paramSchemas holds the JSON schema each method's params must satisfy.
var paramSchemas = map[string]map[string]any{
	MethodParseCSV: {
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{
				"type":        "string",
				"description": "CSV formatted text",
			},
		},
		"required": []string{"text"},
	},
	MethodJoinWords: {
		"type": "object",
		"properties": map[string]any{
			"words": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "words to join, in order",
			},
		},
		"required": []string{"words"},
	},
}

// validateParams checks raw params against the schema registered for method.
// Methods without a schema accept anything.
func validateParams(method string, raw []byte) error {
	schemaDef, ok := paramSchemas[method]
	if !ok {
		return nil
	}
	if len(raw) == 0 {
		raw = []byte("null")
	}

	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schemaDef), gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return fmt.Errorf("invalid params for %s: %s", method, strings.Join(errs, ", "))
}
