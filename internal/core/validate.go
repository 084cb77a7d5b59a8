package core

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	if err != nil {
		panic("core: register notblank validation: " + err.Error())
	}
	return v
}

// validateStruct runs the struct tags and reports the first failing field
// as a ValidationError carrying the matching domain sentinel.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return err
	}
	fe := fields[0]
	field := strings.ToLower(fe.Field())
	switch fe.Field() {
	case "Type":
		return &ValidationError{Field: field, Err: ErrInvalidType}
	case "Mode":
		return &ValidationError{Field: field, Err: ErrInvalidMode}
	case "Amount":
		return &ValidationError{Field: field, Err: ErrInvalidAmount}
	case "Details":
		return &ValidationError{Field: field, Err: ErrDetailsTooLong}
	case "Category":
		if fe.Tag() == "max" {
			return &ValidationError{Field: field, Err: ErrCategoryTooLong}
		}
		return &ValidationError{Field: field, Err: ErrEmptyCategory}
	}
	return &ValidationError{Field: field, Err: err}
}
