package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tn02103/uniformAdministrationApp-sub001/internal/model"
)

// Claims carries the authenticated user and the organisation every
// request is scoped to.
type Claims struct {
	UserID         string `json:"uid"`
	OrganisationID string `json:"org"`
	Username       string `json:"username"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	jwt.RegisteredClaims
}

// Caller converts the claims into the identity passed to domain operations.
func (c *Claims) Caller() model.Caller {
	return model.Caller{
		OrganisationID: c.OrganisationID,
		UserID:         c.UserID,
		Username:       c.Username,
		ActorName:      c.Name,
		Role:           c.Role,
	}
}

// TokenExpiry is the default token lifetime.
const TokenExpiry = 24 * time.Hour

// GenerateToken signs a token for user. A zero ttl means TokenExpiry.
func GenerateToken(secret string, user *model.User, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = TokenExpiry
	}
	now := time.Now()

	claims := Claims{
		UserID:         user.ID,
		OrganisationID: user.OrganisationID,
		Username:       user.Username,
		Name:           user.Name,
		Role:           user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func ValidateToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.OrganisationID == "" || claims.UserID == "" {
		return nil, fmt.Errorf("token without organisation or user")
	}

	return claims, nil
}
