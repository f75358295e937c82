// Package identity verifies tokens from the external identity provider.
package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"procurement/internal/core/apperror"
	"procurement/internal/domain/auth"
)

var _ auth.TokenVerifier = (*JWTProvider)(nil)

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Secret   string
	Issuer   string
	TokenTTL time.Duration
}

// DefaultJWTConfig returns default JWT configuration.
func DefaultJWTConfig(secret string) JWTConfig {
	return JWTConfig{
		Secret:   secret,
		Issuer:   "procurement",
		TokenTTL: time.Hour,
	}
}

// Claims represents JWT claims. Subject is the provider uid.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// JWTProvider verifies and issues HS256 tokens.
type JWTProvider struct {
	config JWTConfig
}

// NewJWTProvider creates a new JWTProvider.
func NewJWTProvider(config JWTConfig) *JWTProvider {
	return &JWTProvider{config: config}
}

// Issue signs a token for p. Used by tooling and tests; production tokens come
// from the provider.
func (p *JWTProvider) Issue(principal auth.Principal) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(p.config.TokenTTL)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.config.Issuer,
			Subject:   principal.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: principal.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(p.config.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify validates the token and returns its principal.
func (p *JWTProvider) Verify(_ context.Context, tokenString string) (auth.Principal, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if p.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.config.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(p.config.Secret), nil
	}, opts...)
	if err != nil {
		return auth.Principal{}, apperror.NewUnauthorized("invalid token").WithCause(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return auth.Principal{}, apperror.NewUnauthorized("invalid token claims")
	}
	if claims.Subject == "" || claims.Email == "" {
		return auth.Principal{}, apperror.NewUnauthorized("token lacks subject or email")
	}

	return auth.Principal{UID: claims.Subject, Email: claims.Email}, nil
}
