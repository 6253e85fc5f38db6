package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one failed rule, keyed by the JSON field name
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
}

var validate = validator.New()

func init() {
	// Report JSON names so clients can map errors back to their payload
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// notblank rejects empty and whitespace-only strings
	validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		if s, ok := fl.Field().Interface().(string); ok {
			return strings.TrimSpace(s) != ""
		}
		return false
	})
}

// ValidateStruct returns one FieldError per violated rule, or nil.
func ValidateStruct(data interface{}) []*FieldError {
	var fieldErrors []*FieldError
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []*FieldError{{Field: "", Tag: "invalid"}}
	}
	for _, fe := range validationErrors {
		fieldErrors = append(fieldErrors, &FieldError{
			Field: fe.Field(),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		})
	}
	return fieldErrors
}
