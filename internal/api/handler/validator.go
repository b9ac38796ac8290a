package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// requestValidator lets handlers call c.Validate on request DTOs.
type requestValidator struct {
	v *validator.Validate
}

// NewValidator returns the echo.Validator for this API.
func NewValidator() echo.Validator {
	return &requestValidator{v: validator.New()}
}

// Validate reports failed fields of i as "<field> is <tag>", e.g. "image is
// required". Values are never echoed, they may be secrets.
func (rv *requestValidator) Validate(i any) error {
	err := rv.v.Struct(i)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	fields := make([]string, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, strings.ToLower(fe.Field())+" is "+fe.Tag())
	}
	return errors.New(strings.Join(fields, "; "))
}
