package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// JSONSchema defines the structure for request schemas. It marshals to a
// draft-07 compatible document.
type JSONSchema struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties bool                `json:"additionalProperties"`
}

// Property describes one field. Type is either a single JSON type name or a
// []string of alternatives.
type Property struct {
	Type                 interface{}         `json:"type,omitempty"`
	Description          string              `json:"description,omitempty"`
	MinLength            *int                `json:"minLength,omitempty"`
	MaxLength            *int                `json:"maxLength,omitempty"`
	MinItems             *int                `json:"minItems,omitempty"`
	Minimum              *float64            `json:"minimum,omitempty"`
	Items                *Property           `json:"items,omitempty"`
	Properties           map[string]Property `json:"properties,omitempty"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties *bool               `json:"additionalProperties,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Error codes attached to ValidationError.
const (
	CodeRequiredFieldMissing = "REQUIRED_FIELD_MISSING"
	CodeInvalidType          = "INVALID_TYPE"
	CodeMinItemsViolation    = "MIN_ITEMS_VIOLATION"
	CodeMinLengthViolation   = "MIN_LENGTH_VIOLATION"
	CodeMaxLengthViolation   = "MAX_LENGTH_VIOLATION"
	CodeInvalidDocument      = "INVALID_DOCUMENT"
)

// ValidateJSON validates a raw JSON document against the schema. A document
// that is not JSON yields a single INVALID_DOCUMENT error rather than a Go
// error; the returned error is reserved for an unusable schema.
func ValidateJSON(document []byte, schema JSONSchema) (*ValidationResult, error) {
	schemaLoader := gojsonschema.NewGoLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(document)

	compiled, err := gojsonschema.NewSchema(schemaLoader)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	result, err := compiled.Validate(documentLoader)
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "(root)",
				Message: err.Error(),
				Code:    CodeInvalidDocument,
			}},
		}, nil
	}

	errors := make([]ValidationError, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		errors = append(errors, convertResultError(re))
	}

	return &ValidationResult{
		Valid:  result.Valid(),
		Errors: errors,
	}, nil
}

func convertResultError(re gojsonschema.ResultError) ValidationError {
	field := re.Field()
	code := strings.ToUpper(re.Type())

	switch re.Type() {
	case "required":
		if prop, ok := re.Details()["property"].(string); ok {
			field = joinField(field, prop)
		}
		code = CodeRequiredFieldMissing
	case "invalid_type":
		// a null root property stands in for an absent value
		if re.Value() == nil && isRootProperty(field) {
			code = CodeRequiredFieldMissing
		} else {
			code = CodeInvalidType
		}
	case "array_min_items":
		code = CodeMinItemsViolation
	case "string_gte":
		code = CodeMinLengthViolation
	case "string_lte":
		code = CodeMaxLengthViolation
	}

	return ValidationError{
		Field:   field,
		Message: re.Description(),
		Code:    code,
	}
}

func isRootProperty(field string) bool {
	return field != gojsonschema.STRING_ROOT_SCHEMA_PROPERTY && !strings.Contains(field, ".")
}

func joinField(parent, child string) string {
	if parent == "" || parent == gojsonschema.STRING_ROOT_SCHEMA_PROPERTY {
		return child
	}
	if parent == child || strings.HasSuffix(parent, "."+child) {
		return parent
	}
	return parent + "." + child
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasCode reports whether any error carries the given code.
func (vr *ValidationResult) HasCode(code string) bool {
	for _, err := range vr.Errors {
		if err.Code == code {
			return true
		}
	}
	return false
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail reports whether email is a bare address. Surrounding
// whitespace and control characters are rejected.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IntPtr is a helper for optional schema bounds.
func IntPtr(i int) *int {
	return &i
}
