package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v4"

	"wtfCatalog/domain"
	"wtfCatalog/errs"
)

// Claims is the payload carried by an access token.
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// NewToken issues a signed access token for the given user.
func NewToken(secret string, ttl time.Duration, user *domain.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken verifies a signed access token and returns its claims.
func ParseToken(secret, token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errs.Errorf(errs.EUNAUTHORIZED, "Unexpected token signing method.")
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, errs.Errorf(errs.EUNAUTHORIZED, "Invalid or expired token.")
	}
	return claims, nil
}
