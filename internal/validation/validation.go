// Package validation registers the custom struct tags used by request DTOs
// on gin's validator engine.
package validation

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Enum is implemented by every closed string type in the model package.
type Enum interface {
	Valid() bool
}

func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	return RegisterOn(v)
}

func RegisterOn(v *validator.Validate) error {
	if err := v.RegisterValidation("enum", validateEnum); err != nil {
		return fmt.Errorf("register enum validation: %w", err)
	}
	return nil
}

func validateEnum(fl validator.FieldLevel) bool {
	field := fl.Field()
	if !field.CanInterface() {
		return false
	}
	e, ok := field.Interface().(Enum)
	return ok && e.Valid()
}

// Describe turns the first validation failure into a short client message.
func Describe(err error) string {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) || len(vErrs) == 0 {
		return err.Error()
	}
	fe := vErrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "enum":
		return fmt.Sprintf("invalid %s: %v", fe.Field(), fe.Value())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s is below minimum length %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s exceeds maximum length %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
