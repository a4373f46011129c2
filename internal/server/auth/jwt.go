// Package auth implements password hashing and the stateless access/refresh
// token pair bound to a username.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/gachaserver/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/samber/oops"
)

// Claims carries the owning username next to the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	Name string `json:"name"`
}

// TokenIssuer signs access and refresh tokens with distinct secrets and
// lifetimes. Tokens are not tracked server side: validity is signature plus
// expiry only, so a rotated refresh token stays usable until it expires.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

func (i *TokenIssuer) IssueAccessToken(name string) (string, error) {
	return GenerateToken(name, i.accessSecret, i.accessTTL, i.now())
}

func (i *TokenIssuer) IssueRefreshToken(name string) (string, error) {
	return GenerateToken(name, i.refreshSecret, i.refreshTTL, i.now())
}

// VerifyAccess returns the username of a signature-checked, unexpired access token.
func (i *TokenIssuer) VerifyAccess(token string) (string, error) {
	return GetNameFromToken(token, i.accessSecret)
}

// VerifyRefresh returns the username of a signature-checked, unexpired refresh token.
func (i *TokenIssuer) VerifyRefresh(token string) (string, error) {
	return GetNameFromToken(token, i.refreshSecret)
}

// DecodeUnsafe reads the username from token without checking the signature
// or expiry. Callers must trust the transport that delivered the token.
func (i *TokenIssuer) DecodeUnsafe(token string) (string, error) {
	if token == "" {
		return "", common.ErrorUnauthenticated
	}
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", oops.In("auth").Code(common.KindInvalidToken.Code()).Wrap(common.ErrInvalidToken)
	}
	if claims.Name == "" {
		return "", common.ErrInvalidToken
	}
	return claims.Name, nil
}

// GenerateToken signs an HS256 token for name expiring validity after now.
// Every token gets a random ID so two tokens minted in the same second differ.
func GenerateToken(name string, secretKey []byte, validity time.Duration, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		Name: name,
	})

	signed, err := token.SignedString(secretKey)
	if err != nil {
		return "", oops.In("auth").Code(common.KindInternal.Code()).Wrap(err)
	}
	return signed, nil
}

// GetNameFromToken verifies token with secretKey and returns its username.
// Missing material is ErrorUnauthenticated; everything else that fails
// (expiry, signature, shape) is ErrInvalidToken.
func GetNameFromToken(tokenString string, secretKey []byte) (string, error) {
	if tokenString == "" {
		return "", common.ErrorUnauthenticated
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		reason := "invalid"
		if errors.Is(err, jwt.ErrTokenExpired) {
			reason = "expired"
		}
		return "", oops.In("auth").
			Code(common.KindInvalidToken.Code()).
			With("reason", reason).
			Wrap(common.ErrInvalidToken)
	}
	if !token.Valid || claims.Name == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Name, nil
}

// ParseBearer extracts the token from an "Authorization: Bearer <token>" value.
func ParseBearer(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", oops.In("auth").Code(common.KindUnauthenticated.Code()).
			Wrapf(common.ErrorUnauthenticated, "authorization header is missing")
	}
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, common.BearerScheme) || token == "" {
		return "", oops.In("auth").Code(common.KindUnauthenticated.Code()).
			Wrapf(common.ErrorUnauthenticated, "bearer token is required")
	}
	return token, nil
}
