package service

import (
	"context"
	"errors"
	"time"

	"github.com/deppfellow/gearguardian/internal/errs"
	"github.com/deppfellow/gearguardian/internal/lib/token"
	"github.com/deppfellow/gearguardian/internal/model"
	"golang.org/x/crypto/bcrypt"
)

type CredentialStore interface {
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

type TokenStore interface {
	Create(ctx context.Context, token *model.AccessToken) error
	Get(ctx context.Context, tokenID string) (*model.AccessToken, error)
	Delete(ctx context.Context, userID int64, tokenID string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// AuthService issues, verifies and revokes access tokens. Every issued
// token is recorded by its id so logout and cleanup can revoke it.
type AuthService struct {
	users  CredentialStore
	tokens TokenStore
	cfg    token.Config
	now    func() time.Time
}

func NewAuthService(users CredentialStore, tokens TokenStore, cfg token.Config) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		cfg:    cfg,
		now:    time.Now,
	}
}

func badCredentials() error {
	return errs.NewUnauthorizedError("Incorrect username or password", true)
}

// Login checks the password and issues a token carrying the user's scopes.
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if isNotFound(err) {
			return nil, badCredentials()
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, badCredentials()
	}
	if !user.IsActive {
		return nil, errs.NewForbiddenError("Inactive user", true)
	}

	scopes := ScopesFor(user)
	now := s.now().UTC()
	issued, err := token.Issue(s.cfg, user.ID, scopes, now)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.Create(ctx, &model.AccessToken{
		TokenID:   issued.TokenID,
		UserID:    user.ID,
		CreatedAt: issued.IssuedAt,
		ExpiresAt: issued.ExpiresAt,
	}); err != nil {
		return nil, err
	}

	return &model.TokenResponse{
		AccessToken: issued.Token,
		TokenType:   "bearer",
		ExpiresIn:   int64(issued.ExpiresAt.Sub(now).Seconds()),
		Scopes:      scopes,
	}, nil
}

// ScopesFor returns the scopes granted to user.
func ScopesFor(user *model.User) []string {
	scopes := append([]string(nil), token.RegularScopes...)
	if user.IsAdmin() {
		scopes = append(scopes, token.ScopeUsersWrite)
	}
	return scopes
}

// Authenticate verifies a raw bearer token and checks that it has not been
// revoked.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*token.Claims, error) {
	claims, err := token.Parse(raw, s.cfg)
	if err != nil {
		if errors.Is(err, token.ErrMissingToken) {
			return nil, errs.NewUnauthorizedError("Not authenticated", true)
		}
		return nil, errs.NewUnauthorizedError("Could not validate credentials", true)
	}

	stored, err := s.tokens.Get(ctx, claims.TokenID)
	if err != nil {
		if isNotFound(err) {
			return nil, errs.NewUnauthorizedError("Token revoked", true)
		}
		return nil, err
	}
	if stored.UserID != claims.UserID {
		return nil, errs.NewUnauthorizedError("Could not validate credentials", true)
	}

	return claims, nil
}

// Logout revokes the token used for the request.
func (s *AuthService) Logout(ctx context.Context, claims *token.Claims) error {
	return s.tokens.Delete(ctx, claims.UserID, claims.TokenID)
}

// RemoveExpired deletes tokens whose expiry has passed.
func (s *AuthService) RemoveExpired(ctx context.Context) (int64, error) {
	return s.tokens.DeleteExpired(ctx, s.now().UTC())
}
