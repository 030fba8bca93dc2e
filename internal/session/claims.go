package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo holds the claims read from a bearer token. The signature is not
// verified; the backend remains the only judge of a token's validity.
type TokenInfo struct {
	Raw      string
	Username string
	Expiry   time.Time
}

// ParseToken reads the registered claims of a JWT without verifying it.
func ParseToken(raw string) (TokenInfo, error) {
	info := TokenInfo{Raw: strings.TrimSpace(raw)}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(info.Raw, &claims); err != nil {
		return info, fmt.Errorf("parse token claims: %w", err)
	}
	info.Username = claims.Subject
	if claims.ExpiresAt != nil {
		info.Expiry = claims.ExpiresAt.Time
	}
	return info, nil
}

// IsExpired reports whether the token's expiry time has passed.
// A zero expiry (unparsed or absent) is treated as not expired.
func (t TokenInfo) IsExpired() bool {
	if t.Expiry.IsZero() {
		return false
	}
	return time.Now().After(t.Expiry)
}
