package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Form input is validated before anything touches the network, so a
// bad email or a short password never produces an API call.

var validate = validator.New()

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type registerForm struct {
	Name     string `validate:"required,min=2"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
	Role     string `validate:"omitempty,oneof=admin agent user"`
}

type ticketForm struct {
	Title       string `validate:"required,min=5"`
	Description string `validate:"required,min=10"`
	Category    string `validate:"required,oneof=billing tech shipping other"`
}

type articleForm struct {
	Title string `validate:"required,min=3"`
	Body  string `validate:"required"`
}

// validateForm runs the struct tags and turns the first failure into a
// readable message.
func validateForm(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) || len(invalid) == 0 {
		return err
	}

	fe := invalid[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "email":
		return fmt.Errorf("%s must be a valid email address", field)
	case "min":
		return fmt.Errorf("%s must be at least %s characters", field, fe.Param())
	case "oneof":
		return fmt.Errorf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Errorf("%s is invalid", field)
	}
}
