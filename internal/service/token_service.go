package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/campusiq-api/internal/models"
	"github.com/noah-isme/campusiq-api/pkg/config"
	appErrors "github.com/noah-isme/campusiq-api/pkg/errors"
)

// TokenService verifies HS256 access tokens minted by the campus identity
// service.
type TokenService struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewTokenService constructs a TokenService. The secret must be non-empty;
// config.Load already refuses to start without one.
func NewTokenService(cfg config.JWTConfig) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, config.ErrMissingJWTSecret
	}
	return &TokenService{secret: []byte(cfg.Secret), issuer: cfg.Issuer, now: time.Now}, nil
}

// ValidateToken parses and validates a JWT string.
func (s *TokenService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		message := "invalid token"
		if errors.Is(err, jwt.ErrTokenExpired) {
			message = "token expired"
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, message)
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid || claims.UserID <= 0 || claims.Role == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// IssueToken signs claims with the configured secret. The API never mints
// tokens for clients; this serves tests and operator tooling.
func (s *TokenService) IssueToken(claims models.JWTClaims, ttl time.Duration) (string, error) {
	now := s.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	if claims.Issuer == "" {
		claims.Issuer = s.issuer
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, &claims).SignedString(s.secret)
}
