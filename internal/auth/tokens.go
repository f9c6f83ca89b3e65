package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token types. Access tokens authorize API operations; refresh tokens are
// only good for minting a new access token.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// ErrInvalidToken is returned for any token that fails verification:
// bad signature, expired, malformed, or the wrong type for the operation.
// Callers get no finer detail than this.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the signed contents of a token: the standard registered claims
// plus the subject user and the access/refresh type tag.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"uid"`
	TokenType string `json:"typ"`
}

// TokenIssuer issues and verifies HS256-signed, self-contained tokens.
// Verification is a pure computation; no server-side session state exists.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenIssuer(secret []byte, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Issue signs a token of the given type for userID with the type's TTL.
func (i *TokenIssuer) Issue(userID, tokenType string) (string, error) {
	ttl := i.accessTTL
	if tokenType == TypeRefresh {
		ttl = i.refreshTTL
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:    userID,
		TokenType: tokenType,
	})

	return token.SignedString(i.secret)
}

// Verify parses and validates a token of the expected type and returns its
// claims. Any failure, including presenting an access token where a refresh
// token is required, is ErrInvalidToken.
func (i *TokenIssuer) Verify(tokenString, expectedType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != expectedType || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
