package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the opaque user identity plus the session row's secret; the
// middleware checks the secret against the sessions table so a sign-out
// revokes the token even before it expires.
type Claims struct {
	jwt.RegisteredClaims
	UserID        string `json:"uid"`
	SessionSecret string `json:"sst"`
}

func GenerateToken(userID string, sessionSecret string, secretKey []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
		UserID:        userID,
		SessionSecret: sessionSecret,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("GenerateToken: %w", err)
	}

	return tokenString, nil
}

func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("ParseToken: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("ParseToken: invalid token")
	}

	return claims, nil
}
