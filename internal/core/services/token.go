package services

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Goniek94/BackendRespo-sub005/internal/core/domain"
)

// TokenVerifier checks HMAC-signed identity tokens issued by the auth
// subsystem. Issuance and refresh live there; this side only verifies.
type TokenVerifier struct {
	secretKey []byte
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{
		secretKey: []byte(secret),
	}
}

// Verify parses and validates the token string and normalizes the claims
// into an Identity. The user id historically appears as either "userId" or
// "id"; both are accepted, in that order.
func (s *TokenVerifier) Verify(tokenStr string) (domain.Identity, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	userID, _ := claims["userId"].(string)
	if userID == "" {
		userID, _ = claims["id"].(string)
	}
	if userID == "" {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return domain.Identity{
		UserID: userID,
		Email:  email,
		Role:   role,
	}, nil
}
