package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared struct validator. Field names in errors use
// the json tag so messages match what clients sent.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Struct validates v and flattens any failures into a ValidationResult.
func Struct(v interface{}) *ValidationResult {
	err := Validator().Struct(v)
	if err == nil {
		return &ValidationResult{Valid: true}
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationResult{Errors: []ValidationError{{Message: err.Error(), Code: "INVALID"}}}
	}

	out := &ValidationResult{}
	for _, fe := range verrs {
		out.Errors = append(out.Errors, ValidationError{
			Field:   fe.Field(),
			Message: describe(fe),
			Code:    strings.ToUpper(fe.Tag()),
		})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "email":
		return "must be a valid email address"
	case "datetime":
		return fmt.Sprintf("must match layout %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
