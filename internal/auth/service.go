package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/castboard/castboard/internal/config"
	"github.com/castboard/castboard/internal/db/models"
)

// Claims are the token claims.
type Claims struct {
	UserID string      `json:"id"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Service issues and verifies tokens.
type Service struct {
	secret []byte
	ttl    time.Duration
	header string
	now    func() time.Time
}

// NewService creates a new auth service.
func NewService(cfg config.Auth) (*Service, error) {
	if cfg.JWTSecret == "" {
		return nil, ErrEmptySecret
	}

	header := cfg.Header
	if header == "" {
		header = "token"
	}

	return &Service{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenTTL,
		header: header,
		now:    time.Now,
	}, nil
}

// Header returns the name of the request header carrying the raw token.
func (s *Service) Header() string {
	return s.header
}

// Issue signs a token for the account.
func (s *Service) Issue(u *models.User) (string, error) {
	now := s.now()

	claims := Claims{
		UserID: u.ID,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  u.ID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}

	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return token, nil
}

// Verify checks signature and expiry and returns the principal.
func (s *Service) Verify(raw string) (*Principal, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return &Principal{ID: claims.UserID, Role: claims.Role}, nil
}
