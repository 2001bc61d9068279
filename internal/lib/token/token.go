// Package token issues and verifies the HS256 access tokens used by the API.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Known scopes.
const (
	ScopeProfile         = "profile"
	ScopeUsersRead       = "users:read"
	ScopeUsersWrite      = "users:write"
	ScopeGearsRead       = "gears:read"
	ScopeGearsWrite      = "gears:write"
	ScopeActivitiesRead  = "activities:read"
	ScopeActivitiesWrite = "activities:write"
	ScopeHealthRead      = "health:read"
	ScopeHealthWrite     = "health:write"
)

// RegularScopes are granted to every user; admins also get users:write.
var RegularScopes = []string{
	ScopeProfile,
	ScopeUsersRead,
	ScopeGearsRead,
	ScopeGearsWrite,
	ScopeActivitiesRead,
	ScopeActivitiesWrite,
	ScopeHealthRead,
	ScopeHealthWrite,
}

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid bearer token")
)

// Config holds the signing parameters.
type Config struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// Claims is the normalized payload of a verified token.
type Claims struct {
	TokenID   string
	UserID    int64
	Scopes    map[string]struct{}
	ExpiresAt time.Time
}

// HasScope reports whether the claim set includes scope.
func (c *Claims) HasScope(scope string) bool {
	if c == nil {
		return false
	}
	_, ok := c.Scopes[scope]
	return ok
}

type jwtClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// Issued is a freshly signed token plus the values that must be stored.
type Issued struct {
	Token     string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Issue signs a token for userID with the given scopes.
func Issue(cfg Config, userID int64, scopes []string, now time.Time) (*Issued, error) {
	expiresAt := now.Add(cfg.TTL)
	tokenID := uuid.NewString()

	claims := jwtClaims{
		Scope: strings.Join(scopes, " "),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Issuer:    cfg.Issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &Issued{
		Token:     signed,
		TokenID:   tokenID,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	}, nil
}

// Parse verifies signature, issuer and expiry and returns the claims.
func Parse(raw string, cfg Config) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrMissingToken
	}

	var claims jwtClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.Secret), nil
	},
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	return &Claims{
		TokenID:   claims.ID,
		UserID:    userID,
		Scopes:    normalizeScopes(claims.Scope),
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func normalizeScopes(value string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, s := range strings.Fields(value) {
		out[s] = struct{}{}
	}
	return out
}

// FromHeader extracts the token from an "Authorization: Bearer <token>" value.
func FromHeader(header string) (string, error) {
	scheme, value, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(value) == "" {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(value), nil
}
