package api

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by the page token handed to client-side API calls
type Claims struct {
	Email string `json:"email"`
	RegNo string `json:"regNo"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed token for the authenticated member
func GenerateToken(email, regNo, secret string) (string, error) {
	claims := Claims{
		Email: email,
		RegNo: regNo,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "appointment-letter",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken parses and verifies a page token
func ValidateToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// GetSessionToken returns the page token stored in the browser session
func GetSessionToken(c *fiber.Ctx, store *session.Store) (string, error) {
	sess, err := store.Get(c)
	if err != nil {
		return "", fmt.Errorf("failed to get session: %v", err)
	}

	token := sess.Get("token")
	if token == nil {
		return "", fmt.Errorf("no token in session")
	}

	tokenStr, ok := token.(string)
	if !ok {
		return "", fmt.Errorf("invalid token format")
	}
	return tokenStr, nil
}
