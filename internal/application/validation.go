package application

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	apperrors "careers-api/internal/common/errors"
	"careers-api/internal/common/validation"
)

var (
	ErrMissingRequiredFields = errors.New("missing required fields")
	ErrInvalidPayload        = errors.New("invalid application payload")
	ErrInvalidRecipient      = errors.New("invalid recipient address")
)

var (
	nullableString = validation.Property{Type: []string{"string", "null"}}
	nullableNumber = validation.Property{Type: []string{"number", "null"}}
)

// requestSchema only requires the four top-level fields. Nested fields are
// type-checked when present but never required.
var requestSchema = validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"job": {
			Type: "object",
			Properties: map[string]validation.Property{
				"Title":            nullableString,
				"Employment_type":  nullableString,
				"Experience_level": nullableString,
				"Job_Location":     nullableString,
				"Work_Mode":        nullableString,
				"Questions": {
					Type:  []string{"array", "null"},
					Items: &validation.Property{Type: "string"},
				},
				"email": {
					Type:  []string{"string", "array", "null"},
					Items: &validation.Property{Type: "string"},
				},
			},
		},
		"answers": {
			Type:  "array",
			Items: &nullableString,
		},
		"file": {
			Type: "object",
			Properties: map[string]validation.Property{
				"filename":     nullableString,
				"content":      nullableString,
				"content_type": nullableString,
				"size":         nullableNumber,
			},
		},
		"recipientList": {
			Type:     "array",
			MinItems: validation.IntPtr(1),
			Items:    &validation.Property{Type: "string"},
		},
	},
	Required:             []string{"job", "answers", "file", "recipientList"},
	AdditionalProperties: true,
}

// ParseRequest validates a raw request body and decodes it. Absent or null
// top-level fields and an empty recipient list are reported as missing
// required fields; anything else the schema rejects is an invalid payload.
func ParseRequest(body []byte) (*Request, error) {
	result, err := validation.ValidateJSON(body, requestSchema)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if !result.Valid {
		details := strings.Join(result.GetErrorMessages(), "; ")
		if result.HasCode(validation.CodeRequiredFieldMissing) || result.HasCode(validation.CodeMinItemsViolation) {
			return nil, apperrors.NewMissingRequiredFieldsError(details)
		}
		return nil, apperrors.NewInvalidApplicationPayloadError(errors.Join(ErrInvalidPayload, errors.New(details)))
	}

	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, apperrors.NewInvalidApplicationPayloadError(err)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &req, nil
}

// Validate checks presence of the required fields on an already decoded
// request and that every recipient is a bare email address.
func (r *Request) Validate() error {
	var missing []string
	if r.Job == nil {
		missing = append(missing, "job")
	}
	if r.Answers == nil {
		missing = append(missing, "answers")
	}
	if r.File == nil {
		missing = append(missing, "file")
	}
	if len(r.RecipientList) == 0 {
		missing = append(missing, "recipientList")
	}
	if len(missing) > 0 {
		return apperrors.NewMissingRequiredFieldsError(
			ErrMissingRequiredFields.Error() + ": " + strings.Join(missing, ", "),
		)
	}

	// recipients are written into the To header as given
	for i, recipient := range r.RecipientList {
		if !validation.ValidateEmail(recipient) {
			return apperrors.NewInvalidApplicationPayloadError(
				fmt.Errorf("%w: recipientList[%d] %q", ErrInvalidRecipient, i, recipient),
			)
		}
	}
	return nil
}
