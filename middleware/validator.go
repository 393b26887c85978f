package middleware

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct is used by handlers on decoded payloads.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}
