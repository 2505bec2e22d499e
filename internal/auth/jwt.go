// Package auth issues and checks session tokens, hashes passwords and talks
// to GitHub for OAuth login.
//
// SESSION FLOW:
//  1. The user logs in with a password (or through GitHub).
//  2. The server signs a JWT carrying the user id and username and stores it
//     in the HttpOnly "token" cookie.
//  3. OptionalAuth reads the cookie on every request and puts the Identity
//     into the request context. Anonymous requests simply carry none.
//  4. RequireLogin (HTML) and RequireAuth (JSON) turn a missing identity into
//     a login redirect or a 401.
//
// The token is self-contained: validating it needs only the secret, no DB.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	issuer = "notes-news"

	// DefaultSessionTTL applies when no TTL is configured.
	DefaultSessionTTL = 24 * time.Hour
)

// Identity is who a request acts as.
type Identity struct {
	UserID   string
	Username string
}

// TokenService signs and validates session JWTs with an HMAC secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService needs a secret of at least 16 characters.
// A ttl of zero or less means DefaultSessionTTL.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// TTL is the lifetime of tokens made by Generate.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// claims is the JWT payload: "sub" holds the user id, "jti" a random token id.
type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Generate signs a token for id that lives for TTL.
func (s *TokenService) Generate(id Identity) (string, error) {
	return s.GenerateWithDuration(id, s.ttl)
}

// GenerateWithDuration signs a token with a custom lifetime. Tests use a
// negative duration to get an already expired token.
func (s *TokenService) GenerateWithDuration(id Identity, d time.Duration) (string, error) {
	if id.UserID == "" {
		return "", errors.New("auth: cannot sign a token without a user id")
	}
	now := time.Now()

	c := claims{
		Username: id.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Validate parses tokenStr and returns the identity it was issued to.
//
// The signing method is pinned to HS256 so a token claiming "none" or an
// RSA algorithm is rejected before the signature is even looked at.
func (s *TokenService) Validate(tokenStr string) (Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, errors.New("auth: token expired")
		}
		return Identity{}, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return Identity{}, errors.New("auth: invalid token claims")
	}
	if c.Subject == "" {
		return Identity{}, errors.New("auth: token has no subject")
	}

	return Identity{UserID: c.Subject, Username: c.Username}, nil
}
