package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/procura-platform/procura/internal/authz"
)

// Claims is the signed token payload. It carries the resolved permission
// data so the guard never re-queries the catalog during a session's
// lifetime.
type Claims struct {
	UserID      int64                         `json:"uid"`
	Email       string                        `json:"email"`
	DisplayName string                        `json:"displayName"`
	Role        string                        `json:"role"`
	SubRoles    []string                      `json:"procurementSubRoles,omitempty"`
	Permissions authz.ActionSet               `json:"procurementPermissions"`
	Grants      map[authz.Key]authz.ActionSet `json:"grants,omitempty"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies session tokens with HS256.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService constructs a TokenService.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// TTL exposes the configured token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Sign produces a signed token for the resolved session. The token ID ties
// the token to the server-side registry for revocation.
func (s *TokenService) Sign(sess *authz.Session, tokenID string, now time.Time) (string, error) {
	if sess == nil {
		return "", errors.New("auth: session required")
	}
	claims := Claims{
		UserID:      sess.UserID,
		Email:       sess.Email,
		DisplayName: sess.DisplayName,
		Role:        string(sess.Role),
		SubRoles:    sess.SubRoles,
		Permissions: sess.Permissions,
		Grants:      sess.Grants,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   fmt.Sprintf("%d", sess.UserID),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses and validates a token string and returns its claims.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("auth: parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("auth: invalid token claims")
	}
	return claims, nil
}

// Session rebuilds the resolved session value from verified claims.
func (c *Claims) Session(token string) (*authz.Session, error) {
	role, err := authz.ParseRole(c.Role)
	if err != nil {
		return nil, err
	}
	var expires time.Time
	if c.ExpiresAt != nil {
		expires = c.ExpiresAt.Time
	}
	return &authz.Session{
		UserID:      c.UserID,
		Email:       c.Email,
		DisplayName: c.DisplayName,
		Role:        role,
		SubRoles:    c.SubRoles,
		Permissions: c.Permissions,
		Grants:      c.Grants,
		Token:       token,
		ExpiresAt:   expires,
	}, nil
}
