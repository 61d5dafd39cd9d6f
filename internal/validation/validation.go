// Package validation wraps a shared go-playground validator instance for
// struct tag validation of configuration and command input.
package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct validates the given struct against its `validate` tags.
func Struct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}
