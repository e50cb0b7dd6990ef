// Package auth provides credential hashing and JWT cookie authentication.
//
// AUTHENTICATION FLOW:
//  1. Client registers or logs in with email + password
//  2. Server verifies the bcrypt hash, persists the session slot, and issues
//     a JWT stored in an HttpOnly cookie
//  3. On subsequent API calls, middleware reads the cookie, validates the
//     JWT, and sets the account identity in the request context
//
// The JWT is stateless transport auth: everything needed (account ID, role,
// expiry) is inside the signed token, so validation needs no DB lookup. The
// durable session itself is the persisted slot managed by the session
// service — the cookie can expire and be re-minted from it.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sakif/survivaldisc/internal/model"
)

const issuer = "survivaldisc"

// TokenService handles JWT creation and validation.
//
// It holds the HMAC secret used to sign and verify tokens — the same secret
// must serve both operations. Signing algorithm is HS256.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService with the given secret and token
// lifetime. The secret should be at least 32 bytes of random data in
// production (openssl rand -hex 32).
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		return nil, errors.New("auth: token TTL must be positive")
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// claims is the JWT payload. "sub" carries the internal account ID; the
// custom "role" claim lets the admin middleware gate routes without a
// database round trip.
type claims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Generate creates and signs a new JWT for the given account.
func (s *TokenService) Generate(accountID string, role model.Role) (string, error) {
	now := time.Now()

	c := claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
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

// TTL returns the configured token lifetime. Handlers use it to set the
// cookie Max-Age to match the token expiry.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Identity is what a validated token proves about the caller.
type Identity struct {
	AccountID string
	Role      model.Role
}

// Validate parses and verifies a JWT string, returning the identity it
// encodes.
//
// The jwt library checks signature, expiry, and issuer; pinning the valid
// methods to HS256 blocks algorithm-confusion tokens (e.g. alg "none").
func (s *TokenService) Validate(tokenStr string) (*Identity, error) {
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
			return nil, fmt.Errorf("auth: token expired")
		}
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return nil, fmt.Errorf("auth: token has no subject")
	}

	return &Identity{AccountID: c.Subject, Role: c.Role}, nil
}
