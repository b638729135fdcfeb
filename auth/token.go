package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// signingKey signs session tokens. Sessions are client-local and
// usernames are bare claims, so the token only carries the user id for
// the lifetime of a login; it is not an identity proof.
var signingKey = []byte("duospace_local_session_key")

type SessionClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed session token for a logged-in user.
func GenerateToken(userID, username string, lifetime time.Duration) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "duospace",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey)
}

// ValidateToken parses and checks the signature and expiry of a session token.
func ValidateToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return signingKey, nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}
