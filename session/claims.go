package session

import (
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/pkg/errors"
)

// Claims mirrors the claims the marketplace backend signs into its tokens.
type Claims struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	UserType string `json:"userType"`
	jwt.StandardClaims
}

// ParseClaims reads the claims of a bearer token without verifying its
// signature. The backend holds the key and remains the judge of validity;
// the console only reads the claims to decide whether restoring is useful.
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return nil, errors.Wrap(err, "parse token claims")
	}
	return claims, nil
}

// ExpiredAt reports whether the token is expired at now. Tokens without an
// exp claim never expire here.
func (c *Claims) ExpiredAt(now time.Time) bool {
	return c.ExpiresAt > 0 && now.Unix() >= c.ExpiresAt
}
