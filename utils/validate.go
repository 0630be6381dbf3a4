package utils

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs struct-tag validation and reports failures as
// client input errors.
func ValidateStruct(s any) error {
	if err := validate.Struct(s); err != nil {
		return NewClientInputError("%s", err.Error())
	}
	return nil
}
