package auth

import (
	"fmt"
	"unicode"

	"github.com/go-playground/validator/v10"

	"duospace/errors"
)

var validate = validator.New()

type LoginRequest struct {
	Username string `validate:"required,min=2,max=32"`
}

// ValidateLogin checks the shape of a claimed username: 2-32 chars,
// letters, digits, and separators only, and it must start with a letter
// or digit.
func ValidateLogin(req LoginRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidUsername, err)
	}
	if !isUsernameShaped(req.Username) {
		return errors.ErrInvalidUsername
	}
	return nil
}

func isUsernameShaped(s string) bool {
	for i, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
		case r == '_' || r == '-' || r == '.':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// ValidateCommand runs struct-tag validation on any service command.
func ValidateCommand(cmd any) error {
	return validate.Struct(cmd)
}
