package auth

import (
	"fmt"
	"unicode"
	"vision-pilot/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type secretRequest struct {
	Secret string `validate:"required,min=16,max=256"`
}

func ValidateSecret(secret string) error {
	if err := validate.Struct(secretRequest{Secret: secret}); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrWeakSecret, err)
	}
	if !isSecretComplex(secret) {
		return errors.ErrWeakSecret
	}
	return nil
}

func isSecretComplex(s string) bool {
	var (
		hasLetter = false
		hasNumber = false
	)
	for _, char := range s {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}
	return hasLetter && hasNumber
}
