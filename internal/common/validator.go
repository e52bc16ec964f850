package common

import (
	"fmt"

	"github.com/go-playground/validator"
)

var structValidator = validator.New()

// ValidateStruct checks the `validate` tags of s.
func ValidateStruct(s interface{}) error {
	if err := structValidator.Struct(s); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}
