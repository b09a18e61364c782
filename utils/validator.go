package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator with the console's custom tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	// notblank rejects strings that are empty once trimmed.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// ValidationMessage turns validator errors into one readable line.
func ValidationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required", "notblank":
			parts = append(parts, fe.Field()+" is required")
		case "email":
			parts = append(parts, fe.Field()+" must be a valid email")
		case "gt":
			parts = append(parts, fe.Field()+" must be greater than "+fe.Param())
		case "gte", "min":
			parts = append(parts, fe.Field()+" must be at least "+fe.Param())
		case "oneof":
			parts = append(parts, fe.Field()+" must be one of: "+fe.Param())
		default:
			parts = append(parts, fe.Field()+" is invalid")
		}
	}
	return strings.Join(parts, "; ")
}

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

func NewCustomValidator() *CustomValidator {
	return &CustomValidator{validator: NewValidator()}
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
