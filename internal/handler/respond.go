package handler

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apperrors "taskboard/internal/errors"
)

// respondError maps a service error onto the wire shape.
func respondError(c echo.Context, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// respondValidation renders a 422 from go-playground validation errors, one
// message list per offending field.
func respondValidation(c echo.Context, err error) error {
	fields := map[string][]string{}
	if ves, ok := err.(validator.ValidationErrors); ok {
		for _, ve := range ves {
			name := ve.Field()
			fields[name] = append(fields[name], validationMessage(name, ve.Tag()))
		}
	}
	httpErr := apperrors.NewValidationError(fields)
	return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// respondFieldError renders a 422 for a single field checked by hand.
func respondFieldError(c echo.Context, field, message string) error {
	httpErr := apperrors.NewValidationError(map[string][]string{field: {message}})
	return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func validationMessage(field, tag string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "max":
		return fmt.Sprintf("The %s field is too long.", field)
	case "min":
		return fmt.Sprintf("The %s field is too small.", field)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", field)
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}
