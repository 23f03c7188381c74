package analysis

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var recordSchemas = map[DocumentType]map[string]interface{}{
	DocumentResume: objectSchema("name", "education", "skills", "experience_summary"),
	DocumentPoetry: objectSchema("title", "author", "dynasty", "content", "theme"),
	DocumentCredit: objectSchema("entity_name", "report_type", "summary"),
}

func objectSchema(fields ...string) map[string]interface{} {
	props := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		props[f] = map[string]interface{}{"type": []string{"string", "null"}}
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
}

func compileSchema(schema map[string]interface{}) (*gojsonschema.Schema, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return compiled, nil
}

// validateDocument checks body against schema and flattens every violation into one error.
func validateDocument(schema *gojsonschema.Schema, body string) error {
	result, err := schema.Validate(gojsonschema.NewStringLoader(body))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("extraction failed schema validation: %s", strings.Join(errs, "; "))
	}
	return nil
}
