// Package auth provides JWT issuance/verification, bcrypt password hashing,
// and the bearer-token middleware for the todo API.
//
// JWT is stateless — everything a request needs to assert identity (user id,
// name, email, expiry) travels inside the signed token, so verification is
// a signature check plus an expiry check with no session store. The
// signature is HMAC-SHA256 over header+payload with a shared secret; nobody
// can mint or alter a token without that secret.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed lifetime of an access token. There is no refresh
// flow; after expiry the client logs in again.
const TokenTTL = 8 * time.Hour

// TokenService signs and verifies access tokens. The same secret is used
// for both operations; issuer and audience come from configuration so
// tokens minted by another deployment are rejected.
type TokenService struct {
	secret   []byte
	issuer   string
	audience string
}

// NewTokenService creates a TokenService. The secret is configuration-
// supplied and mandatory — there is deliberately no fallback key.
// In production it should be at least 32 bytes of random data
// (JWT_SECRET=$(openssl rand -hex 32)).
func NewTokenService(secret, issuer, audience string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if issuer == "" || audience == "" {
		return nil, errors.New("auth: JWT issuer and audience must be set")
	}
	return &TokenService{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
	}, nil
}

// Identity is the verified claim set extracted from a valid token.
// UserID comes from the "sub" claim; name and email ride along so the
// client can display them without another round trip.
type Identity struct {
	UserID int64
	Name   string
	Email  string
}

// claims is the JWT payload: the registered claims plus the profile fields
// this API has always embedded alongside the subject.
type claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Issue creates a signed HS256 token for the given user. The subject is the
// user's id, expiry is now + TokenTTL (8 hours).
func (s *TokenService) Issue(userID int64, name, email string) (string, error) {
	return s.IssueWithDuration(userID, name, email, TokenTTL)
}

// IssueWithDuration creates a token with a custom lifetime. Used by tests
// to produce already-expired tokens.
func (s *TokenService) IssueWithDuration(userID int64, name, email string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		Name:  name,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Verify parses and validates a token string and returns the identity it
// encodes. Checks performed: HMAC signature, HS256 method (prevents
// algorithm-confusion attacks), expiry, issuer, and audience. Any failure —
// bad signature, expired, malformed, wrong issuer — comes back as an error;
// callers treat them all as "unauthenticated".
func (s *TokenService) Verify(tokenStr string) (*Identity, error) {
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
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
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

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, fmt.Errorf("auth: token subject is not a valid user id")
	}

	return &Identity{
		UserID: userID,
		Name:   c.Name,
		Email:  c.Email,
	}, nil
}
