package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims holds the access-token payload: which admin it identifies and which
// organization that admin may mutate.
type Claims struct {
	jwt.RegisteredClaims
	AdminID string `json:"admin_id"`
	OrgID   string `json:"org_id"`
}

// Sentinel token errors. Both map to 401 at the API boundary; they are
// distinguished so callers can log a useful diagnostic.
var (
	ErrTokenInvalid = errors.New("auth: invalid token")
	ErrTokenExpired = errors.New("auth: expired token")
)

// IssueToken creates a signed HS256 JWT carrying the admin and organization
// identity, expiring after ttl.
func IssueToken(secret string, adminID, orgID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "orgd",
		},
		AdminID: adminID.String(),
		OrgID:   orgID.String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("auth.IssueToken: %w", err)
	}

	return signed, nil
}

// ValidateToken parses and validates a JWT token string. An expired token
// with a correct signature reports ErrTokenExpired; every other failure
// reports ErrTokenInvalid.
func ValidateToken(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("auth.ValidateToken: %w", ErrTokenExpired)
		}
		return nil, fmt.Errorf("auth.ValidateToken: %w", ErrTokenInvalid)
	}

	if !token.Valid {
		return nil, fmt.Errorf("auth.ValidateToken: %w", ErrTokenInvalid)
	}

	return claims, nil
}
