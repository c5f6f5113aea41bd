package utils

import (
	"testing"

	otpTypes "otp-gateway/types/otp"

	"github.com/stretchr/testify/assert"
)

func TestIsValidPhone(t *testing.T) {
	valid := []string{"012345678", "0912345678", "01234567890"}
	for _, phone := range valid {
		assert.True(t, IsValidPhone(phone), phone)
	}

	invalid := []string{"", "12345", "912345678", "0123456", "012345678901", "09123456a8", "+84912345678"}
	for _, phone := range invalid {
		assert.False(t, IsValidPhone(phone), phone)
	}
}

func TestIsValidOTPCode(t *testing.T) {
	assert.True(t, IsValidOTPCode("123456"))
	assert.True(t, IsValidOTPCode("000000"))

	invalid := []string{"", "12345", "1234567", "12a456", "12 456"}
	for _, code := range invalid {
		assert.False(t, IsValidOTPCode(code), code)
	}
}

func TestValidateStructDistinguishesRequiredFromFormat(t *testing.T) {
	errs := ValidateStruct(otpTypes.VerifyOTPRequest{})
	assert.NotNil(t, errs)
	assert.True(t, HasRequiredError(errs))

	errs = ValidateStruct(otpTypes.VerifyOTPRequest{UserID: "u1", OTPCode: "12ab56"})
	assert.NotNil(t, errs)
	assert.False(t, HasRequiredError(errs))

	errs = ValidateStruct(otpTypes.VerifyOTPRequest{UserID: "u1", OTPCode: "123456"})
	assert.Nil(t, errs)
}
