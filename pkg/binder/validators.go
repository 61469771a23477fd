package binder

import (
	"github.com/go-playground/validator/v10"
	"github.com/kastennotes/kasten/pkg/models"
)

// itemTypeValidator ensures the value is one of the known item types. The
// empty string is allowed so that optional fields can be left unset; pair
// with required when the field is mandatory.
func itemTypeValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ValidItemType(value)
}
