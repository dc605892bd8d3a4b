package helpers

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ttacon/libphonenumber"
)

// ValidatePhoneNumber reports whether phone is a valid number for region.
// An empty phone is accepted; the field is optional everywhere.
func ValidatePhoneNumber(phone, region string) bool {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return true
	}
	num, err := libphonenumber.Parse(phone, region)
	if err != nil {
		return false
	}
	return libphonenumber.IsValidNumber(num)
}

// RegisterPhoneValidation adds the "phone" tag to v for the given region.
func RegisterPhoneValidation(v *validator.Validate, region string) error {
	return v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return ValidatePhoneNumber(fl.Field().String(), region)
	})
}

func NewValidator(region string) *validator.Validate {
	v := validator.New()
	if err := RegisterPhoneValidation(v, region); err != nil {
		panic(err)
	}
	return v
}
