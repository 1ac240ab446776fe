package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/cinema-seat-alert/internal/seat"
)

// RequestValidator plugs go-playground/validator into echo's c.Validate.
// Besides the built-in tags it understands "seat", a seat label such as
// "A1" or "Z50".
type RequestValidator struct {
	v *validator.Validate
}

// NewRequestValidator returns a validator with the "seat" tag registered.
// It panics if the tag cannot be registered.
func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.RegisterValidation("seat", func(fl validator.FieldLevel) bool {
		return seat.Valid(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("register seat validation: %v", err))
	}
	return &RequestValidator{v: v}
}

// Validate implements echo.Validator.
func (rv *RequestValidator) Validate(i interface{}) error {
	return rv.v.Struct(i)
}

// validationMessage turns the first validation failure into the short
// sentence shown to users.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request body"
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch {
	case fe.Tag() == "seat":
		return fmt.Sprintf("invalid seat number %q", fe.Value())
	case field == "email":
		return "invalid email"
	case field == "url":
		return "invalid url"
	case field == "seatnumbers":
		if fe.Tag() == "max" {
			return "too many seats"
		}
		return "seatNumbers is required"
	case fe.Tag() == "required":
		return field + " is required"
	default:
		return "invalid " + field
	}
}
