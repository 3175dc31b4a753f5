// Package auth verifies the HS256 bearer tokens issued by the identity
// provider. Signing exists for local tooling and tests.
package auth

import (
	"errors"
	"time"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingUserID    = errors.New("missing user_id in claims")
)

// clockSkew tolerated on exp, nbf and iat
const clockSkew = 30 * time.Second

// Claims carries the caller's user id next to the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// Validate runs after the registered claims are checked.
func (c *Claims) Validate() error {
	if c.UserID == "" {
		return ErrMissingUserID
	}
	if _, err := uuid.Parse(c.UserID); err != nil {
		return ErrInvalidClaims
	}
	return nil
}

// UserUUID is safe to call on claims returned by ValidateToken.
func (c *Claims) UserUUID() uuid.UUID {
	id, _ := uuid.Parse(c.UserID)
	return id
}

type JWTService struct {
	key    []byte
	ttl    time.Duration
	issuer string
	parser *jwt.Parser
}

func NewJWTService(cfg config.JWTConfig) *JWTService {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(clockSkew),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	return &JWTService{
		key:    []byte(cfg.Secret),
		ttl:    cfg.AccessTokenExpiration,
		issuer: cfg.Issuer,
		parser: jwt.NewParser(opts...),
	}
}

// GenerateToken signs an access token for userID and returns its expiry.
func (s *JWTService) GenerateToken(userID uuid.UUID) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.ttl)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserID: userID.String(),
	}).SignedString(s.key)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ValidateToken verifies signature, algorithm, issuer and lifetime, and
// reports failures as one of the package errors.
func (s *JWTService) ValidateToken(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := s.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	})
	if err == nil {
		return claims, nil
	}
	for _, m := range []struct{ cause, reported error }{
		{jwt.ErrTokenExpired, ErrExpiredToken},
		{jwt.ErrTokenNotValidYet, ErrTokenNotYetValid},
		{ErrMissingUserID, ErrMissingUserID},
		{ErrInvalidClaims, ErrInvalidClaims},
	} {
		if errors.Is(err, m.cause) {
			return nil, m.reported
		}
	}
	return nil, ErrInvalidToken
}
