package validation

import (
	"reflect"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a validator that reports fields by their JSON names, so
// missing-field errors read the way API clients spell them.
func New() *validatorv10.Validate {
	v := validatorv10.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Missing converts a validation error into the list of required fields
// that were absent. Returns nil if the error is not about missing fields.
func Missing(err error) *MissingFieldsError {
	ve, ok := err.(validatorv10.ValidationErrors)
	if !ok {
		return nil
	}
	var fields []string
	for _, fe := range ve {
		if fe.Tag() == "required" {
			fields = append(fields, fe.Field())
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &MissingFieldsError{Fields: fields}
}
