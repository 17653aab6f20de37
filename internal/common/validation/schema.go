package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Summary joins the field errors into a single client-facing message.
func (r *ValidationResult) Summary() string {
	if r == nil || r.Valid {
		return ""
	}
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		if e.Field == "" || e.Field == "(root)" {
			parts = append(parts, e.Message)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return strings.Join(parts, "; ")
}

// Schema is a compiled JSON schema that can be applied to decoded payloads.
type Schema struct {
	schema *gojsonschema.Schema
}

// CompileSchema parses a JSON schema document.
func CompileSchema(doc string) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{schema: s}, nil
}

// MustCompileSchema is CompileSchema for package-level schema literals.
func MustCompileSchema(doc string) *Schema {
	s, err := CompileSchema(doc)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks data (a decoded map, slice or struct) against the schema.
func (s *Schema) Validate(data interface{}) (*ValidationResult, error) {
	result, err := s.schema.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}
	return toResult(result), nil
}

// ValidateInput validates a decoded payload against a schema held as a Go map,
// the form schemas take inside the endpoint registry.
func ValidateInput(input map[string]interface{}, schema map[string]interface{}) (*ValidationResult, error) {
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewGoLoader(input))
	if err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}
	return toResult(result), nil
}

// combinatorErrors only restate that a nested rule failed; the nested error
// is reported alongside them.
var combinatorErrors = map[string]bool{
	"condition_then": true,
	"condition_else": true,
	"number_all_of":  true,
	"number_any_of":  true,
	"number_one_of":  true,
}

func toResult(result *gojsonschema.Result) *ValidationResult {
	out := &ValidationResult{Valid: result.Valid()}
	errs := result.Errors()
	specific := errs[:0:0]
	for _, e := range errs {
		if !combinatorErrors[e.Type()] {
			specific = append(specific, e)
		}
	}
	if len(specific) > 0 {
		errs = specific
	}
	for _, e := range errs {
		out.Errors = append(out.Errors, ValidationError{
			Field:   e.Field(),
			Message: e.Description(),
			Code:    strings.ToUpper(e.Type()),
		})
	}
	return out
}
