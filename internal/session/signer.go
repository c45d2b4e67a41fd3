package session

import (
	"fmt"
	"time"

	gojose "github.com/go-jose/go-jose/v4"
	gojwt "github.com/go-jose/go-jose/v4/jwt"
)

// Signer signs and verifies the session reference carried by the cookie.
// The cookie holds only the session id; the mutable token stays server-side.
type Signer struct {
	key []byte
	ttl time.Duration
}

// NewSigner constructs a Signer from the configured HMAC key.
func NewSigner(key string, ttl time.Duration) *Signer {
	return &Signer{key: []byte(key), ttl: ttl}
}

// Sign wraps the session id in a compact HS256 JWS with the session TTL.
func (s *Signer) Sign(sessionID string) (string, error) {
	signer, err := gojose.NewSigner(
		gojose.SigningKey{Algorithm: gojose.HS256, Key: s.key},
		(&gojose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", fmt.Errorf("new signer: %w", err)
	}

	now := time.Now().UTC()
	claims := gojwt.Claims{
		Subject:  sessionID,
		IssuedAt: gojwt.NewNumericDate(now),
		Expiry:   gojwt.NewNumericDate(now.Add(s.ttl)),
	}

	raw, err := gojwt.Signed(signer).Claims(claims).Serialize()
	if err != nil {
		return "", fmt.Errorf("serialize session reference: %w", err)
	}
	return raw, nil
}

// Verify checks the cookie value and returns the embedded session id.
func (s *Signer) Verify(raw string) (string, error) {
	parsed, err := gojwt.ParseSigned(raw, []gojose.SignatureAlgorithm{gojose.HS256})
	if err != nil {
		return "", fmt.Errorf("parse session reference: %w", err)
	}

	var claims gojwt.Claims
	if err := parsed.Claims(s.key, &claims); err != nil {
		return "", fmt.Errorf("verify session reference: %w", err)
	}
	if err := claims.Validate(gojwt.Expected{Time: time.Now()}); err != nil {
		return "", fmt.Errorf("validate session reference: %w", err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("session reference missing subject")
	}
	return claims.Subject, nil
}
