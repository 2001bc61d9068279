package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/deppfellow/gearguardian/internal/errs"
	"github.com/deppfellow/gearguardian/internal/lib/token"
	"github.com/deppfellow/gearguardian/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeTokens) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	users := &fakeUsers{byID: map[int64]*model.User{
		1: {ID: 1, Username: "ana", PasswordHash: string(hash), AccessType: model.AccessTypeRegular, IsActive: true},
		2: {ID: 2, Username: "root", PasswordHash: string(hash), AccessType: model.AccessTypeAdmin, IsActive: true},
		3: {ID: 3, Username: "gone", PasswordHash: string(hash), AccessType: model.AccessTypeRegular},
	}}
	tokens := newFakeTokens()
	svc := NewAuthService(users, tokens, token.Config{
		Secret: "0123456789abcdef0123",
		Issuer: "gearguardian",
		TTL:    15 * time.Minute,
	})
	return svc, tokens
}

func TestLoginAndAuthenticate(t *testing.T) {
	svc, tokens := newAuthFixture(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, &model.LoginRequest{Username: "ana", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.NotContains(t, resp.Scopes, token.ScopeUsersWrite)
	assert.Len(t, tokens.rows, 1)

	claims, err := svc.Authenticate(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.True(t, claims.HasScope(token.ScopeGearsRead))

	require.NoError(t, svc.Logout(ctx, claims))
	_, err = svc.Authenticate(ctx, resp.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))
}

func TestLoginRejections(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, &model.LoginRequest{Username: "ana", Password: "wrong-horse"})
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))

	_, err = svc.Login(ctx, &model.LoginRequest{Username: "nobody", Password: "correct-horse"})
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))

	_, err = svc.Login(ctx, &model.LoginRequest{Username: "gone", Password: "correct-horse"})
	assert.Equal(t, http.StatusForbidden, statusOf(err))
}

func TestLoginErrorsAreNotShared(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	_, first := svc.Login(ctx, &model.LoginRequest{Username: "ana", Password: "wrong-horse"})
	_, second := svc.Login(ctx, &model.LoginRequest{Username: "nobody", Password: "wrong-horse"})

	var a, b *errs.HTTPError
	require.True(t, errors.As(first, &a))
	require.True(t, errors.As(second, &b))
	assert.NotSame(t, a, b)

	a.Message = "changed downstream"
	assert.Equal(t, "Incorrect username or password", b.Message)
}

func TestAdminGetsUsersWrite(t *testing.T) {
	svc, _ := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), &model.LoginRequest{Username: "root", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Contains(t, resp.Scopes, token.ScopeUsersWrite)
}

func TestAuthenticateGarbage(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Authenticate(context.Background(), "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))

	_, err = svc.Authenticate(context.Background(), "")
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))
}

func TestRemoveExpired(t *testing.T) {
	svc, tokens := newAuthFixture(t)
	now := time.Now().UTC()
	tokens.rows["old"] = &model.AccessToken{TokenID: "old", UserID: 1, ExpiresAt: now.Add(-time.Minute)}
	tokens.rows["new"] = &model.AccessToken{TokenID: "new", UserID: 1, ExpiresAt: now.Add(time.Hour)}

	n, err := svc.RemoveExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Contains(t, tokens.rows, "new")
}
