// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Request body schemas for the wizard API.
const (
	fieldUpdateSchema = `{
		"type": "object",
		"properties": {
			"value": {
				"type": ["string", "number", "array", "null"],
				"items": {"type": "string"}
			}
		},
		"required": ["value"],
		"additionalProperties": false
	}`

	fieldBatchSchema = `{
		"type": "object",
		"properties": {
			"values": {
				"type": "object",
				"minProperties": 1,
				"additionalProperties": {
					"type": ["string", "number", "array", "null"],
					"items": {"type": "string"}
				}
			}
		},
		"required": ["values"],
		"additionalProperties": false
	}`
)

var (
	FieldUpdate = MustCompile("field-update", fieldUpdateSchema)
	FieldBatch  = MustCompile("field-batch", fieldBatchSchema)
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

// Schema is a compiled JSON schema for one request body.
type Schema struct {
	name     string
	compiled *gojsonschema.Schema
}

func Compile(name, src string) (*Schema, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return &Schema{name: name, compiled: compiled}, nil
}

func MustCompile(name, src string) *Schema {
	s, err := Compile(name, src)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Name() string { return s.name }

// ValidateBody checks a raw JSON body. Malformed JSON is reported as an
// INVALID_JSON error on the root.
func (s *Schema) ValidateBody(body []byte) *ValidationResult {
	if len(body) == 0 {
		return &ValidationResult{Errors: []ValidationError{{
			Field:   "(root)",
			Message: "request body is required",
			Code:    "REQUIRED",
		}}}
	}

	result, err := s.compiled.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return &ValidationResult{Errors: []ValidationError{{
			Field:   "(root)",
			Message: err.Error(),
			Code:    "INVALID_JSON",
		}}}
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return &ValidationResult{Valid: result.Valid(), Errors: errs}
}

// GetErrorMessages returns "field: message" for every error.
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") {
			return true
		}
	}
	return false
}
