package tools

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"
)

var validate = validator.New()

// validateArguments checks args against the tool's parameter schema and
// returns one FieldError per violation. A nil return means the arguments
// are valid.
func validateArguments(def Definition, args map[string]any) []FieldError {
	schemaLoader := gojsonschema.NewGoLoader(def.Parameters)
	documentLoader := gojsonschema.NewGoLoader(args)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return []FieldError{{Field: "(root)", Message: err.Error()}}
	}

	if result.Valid() {
		return nil
	}

	fields := make([]FieldError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		fields = append(fields, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return fields
}

// fieldErrorsFromValidator converts struct-level validation failures into
// the same FieldError shape the schema layer produces.
func fieldErrorsFromValidator(err error) []FieldError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []FieldError{{Field: "(root)", Message: err.Error()}}
	}

	fields := make([]FieldError, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		fields = append(fields, FieldError{
			Field:   strings.ToLower(fieldErr.Field()),
			Message: messageForTag(fieldErr),
		})
	}
	return fields
}

func messageForTag(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	default:
		return fmt.Sprintf("failed %s validation", fieldErr.Tag())
	}
}
