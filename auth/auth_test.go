package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"duospace/errors"
)

func Test_GenerateAndValidateToken(t *testing.T) {
	req := require.New(t)

	token, err := GenerateToken("u-123", "mira", time.Hour)
	req.NoError(err)
	req.NotEmpty(token)

	claims, err := ValidateToken(token)
	req.NoError(err)
	req.Equal("u-123", claims.UserID)
	req.Equal("mira", claims.Username)
	req.Equal("duospace", claims.Issuer)
}

func Test_ValidateToken_RejectsExpired(t *testing.T) {
	req := require.New(t)

	token, err := GenerateToken("u-123", "mira", -time.Minute)
	req.NoError(err)

	_, err = ValidateToken(token)
	req.Error(err)
}

func Test_ValidateToken_RejectsGarbage(t *testing.T) {
	req := require.New(t)
	_, err := ValidateToken("not-a-token")
	req.Error(err)
}

func Test_ValidateLogin(t *testing.T) {
	req := require.New(t)

	req.NoError(ValidateLogin(LoginRequest{Username: "mira"}))
	req.NoError(ValidateLogin(LoginRequest{Username: "mira_42"}))

	req.ErrorIs(ValidateLogin(LoginRequest{Username: "_mira"}), errors.ErrInvalidUsername)
	req.ErrorIs(ValidateLogin(LoginRequest{Username: "m ra"}), errors.ErrInvalidUsername)
	req.ErrorIs(ValidateLogin(LoginRequest{Username: "m"}), errors.ErrInvalidUsername)
	req.ErrorIs(ValidateLogin(LoginRequest{Username: ""}), errors.ErrInvalidUsername)
}
