package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrMissingSubject = errors.New("token has no subject")
)

// TokenConfig - параметры проверки и выпуска JWT
type TokenConfig struct {
	Secret        []byte
	SigningMethod jwt.SigningMethod
	Issuer        string
	Audience      string
	Expiration    time.Duration
}

func NewTokenConfig(secret, issuer, audience string, expiration time.Duration) *TokenConfig {
	return &TokenConfig{
		Secret:        []byte(secret),
		SigningMethod: jwt.SigningMethodHS256,
		Issuer:        issuer,
		Audience:      audience,
		Expiration:    expiration,
	}
}

// Generate выпускает токен с userID в sub
func (c *TokenConfig) Generate(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    c.Issuer,
		ExpiresAt: jwt.NewNumericDate(now.Add(c.Expiration)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}
	if c.Audience != "" {
		claims.Audience = jwt.ClaimStrings{c.Audience}
	}

	token := jwt.NewWithClaims(c.SigningMethod, claims)
	return token.SignedString(c.Secret)
}

// Verify проверяет подпись и срок токена и возвращает sub
func (c *TokenConfig) Verify(tokenString string) (string, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{c.SigningMethod.Alg()})}
	if c.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.Issuer))
	}
	if c.Audience != "" {
		opts = append(opts, jwt.WithAudience(c.Audience))
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != c.SigningMethod {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Method)
		}
		return c.Secret, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrMissingSubject
	}
	return claims.Subject, nil
}
