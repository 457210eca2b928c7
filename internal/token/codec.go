// Package token signs and verifies the compact HMAC tokens exchanged with the
// external document editor.
package token

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrSigningDisabled is returned by Sign when no shared secret is
	// configured. Signing is optional; callers decide whether an unsigned
	// exchange is acceptable.
	ErrSigningDisabled = errors.New("token signing is not configured")
	// ErrInvalidToken is returned by Verify for tokens with a bad signature,
	// a non-HS256 algorithm, or an undecodable payload.
	ErrInvalidToken = errors.New("invalid token")
)

// Codec signs and verifies JWT envelopes with a single HMAC-SHA256 secret.
// The zero secret disables the codec: Sign fails and Verify is never reached
// because callers skip authentication entirely (an explicit trust boundary).
type Codec struct {
	secret []byte
}

// NewCodec constructs a Codec. An empty secret yields a disabled codec.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Enabled reports whether a shared secret is configured.
func (c *Codec) Enabled() bool {
	return len(c.secret) > 0
}

// Sign serializes payload to JSON claims and signs them with HS256.
func (c *Codec) Sign(payload any) (string, error) {
	if !c.Enabled() {
		return "", ErrSigningDisabled
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	claims := jwt.MapClaims{}
	if err := json.Unmarshal(raw, &claims); err != nil {
		return "", fmt.Errorf("payload is not a JSON object: %w", err)
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks the token signature and returns its claims. Only HS256 is
// accepted; any other algorithm is rejected to prevent downgrade forgeries.
func (c *Codec) Verify(tokenString string) (map[string]any, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return map[string]any(claims), nil
}
