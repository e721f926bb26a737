package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims mirror the backend's login token. The terminal service shares the
// backend's HMAC secret, so the same token authenticates both.
type Claims struct {
	UserID   string `json:"id"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
	BranchID string `json:"branchId,omitempty"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// DisplayName is the header name shown on the branch screen.
func (c *Claims) DisplayName() string {
	switch {
	case c.Name != "":
		return c.Name
	case c.Username != "":
		return c.Username
	}
	return "Branch User"
}

func GenerateToken(secret, userID, branchID, name, role string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID:   userID,
		Name:     name,
		BranchID: branchID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ValidateToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
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

// CanAccessBranch reports whether the token may drive branchID's screen.
// Tokens without a branch claim are not branch-scoped.
func (c *Claims) CanAccessBranch(branchID string) bool {
	return c.BranchID == "" || c.BranchID == branchID
}
