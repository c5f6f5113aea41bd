package utils

import (
	"regexp"

	"otp-gateway/models/otp"

	"github.com/go-playground/validator/v10"
)

var (
	validate = validator.New(validator.WithRequiredStructEnabled())

	phoneRegex = regexp.MustCompile(otp.PhonePattern)
	codeRegex  = regexp.MustCompile(otp.CodePattern)
)

func init() {
	_ = validate.RegisterValidation("vnphone", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("otpcode", func(fl validator.FieldLevel) bool {
		return codeRegex.MatchString(fl.Field().String())
	})
}

// ValidateStruct runs tag validation and returns the field errors, or nil
// when the value passes.
func ValidateStruct(s interface{}) validator.ValidationErrors {
	if err := validate.Struct(s); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			return fieldErrs
		}
	}
	return nil
}

// HasRequiredError reports whether any field failed the required tag, as
// opposed to a format tag.
func HasRequiredError(errs validator.ValidationErrors) bool {
	for _, fe := range errs {
		if fe.Tag() == "required" {
			return true
		}
	}
	return false
}

// IsValidPhone reports whether s is a leading 0 followed by 8-10 digits.
func IsValidPhone(s string) bool {
	return phoneRegex.MatchString(s)
}

// IsValidOTPCode reports whether s is exactly 6 decimal digits.
func IsValidOTPCode(s string) bool {
	return codeRegex.MatchString(s)
}
