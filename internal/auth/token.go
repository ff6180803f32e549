// Package auth issues and validates the HS256 bearer tokens that guard the
// HTTP API when a secret is configured.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"

	"docbench/internal/config"
	"docbench/internal/domain"
)

const audience = "docbench-api"

// Claims are the token claims. Subject names the caller.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenIssuer signs and checks bearer tokens with a shared secret.
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	clock  clockwork.Clock
}

// NewTokenIssuer creates a TokenIssuer from config.
func NewTokenIssuer(cfg *config.AuthConfig, clk clockwork.Clock) *TokenIssuer {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	return &TokenIssuer{secret: []byte(cfg.JWTSecret), issuer: cfg.Issuer, ttl: ttl, clock: clk}
}

// Issue mints a token for subject. A non-positive ttl uses the configured one.
func (t *TokenIssuer) Issue(subject string, ttl time.Duration) (string, time.Time, error) {
	if len(t.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("auth: no signing secret configured")
	}
	if ttl <= 0 {
		ttl = t.ttl
	}
	now := t.clock.Now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Audience:  jwt.ClaimStrings{audience},
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate parses tokenString and returns its claims, or
// domain.ErrUnauthorized when the token is malformed, expired or foreign.
func (t *TokenIssuer) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	opts := []jwt.ParserOption{
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(t.clock.Now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if t.issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return claims, nil
}
