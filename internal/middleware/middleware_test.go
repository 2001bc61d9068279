package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/gearguardian/internal/config"
	"github.com/deppfellow/gearguardian/internal/errs"
	"github.com/deppfellow/gearguardian/internal/lib/token"
	"github.com/deppfellow/gearguardian/internal/lib/upstream"
	"github.com/deppfellow/gearguardian/internal/server"
	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthenticator struct{}

func (fakeAuthenticator) Authenticate(_ context.Context, raw string) (*token.Claims, error) {
	if raw != "good" {
		return nil, errs.NewUnauthorizedError("Could not validate credentials", true)
	}
	return &token.Claims{
		TokenID: "jti",
		UserID:  7,
		Scopes:  map[string]struct{}{token.ScopeGearsRead: {}},
	}, nil
}

func newTestServer() *server.Server {
	logger := zerolog.Nop()
	cfg := config.DefaultConfig()
	return &server.Server{Config: &cfg, Logger: &logger}
}

func newTestEcho(s *server.Server) (*echo.Echo, *Middlewares) {
	mw := NewMiddlewares(s, fakeAuthenticator{})
	e := echo.New()
	e.HTTPErrorHandler = mw.Global.GlobalErrorHandler
	e.Use(RequestID(), mw.ContextEnhancer.EnhanceContext())
	return e, mw
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()
	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRequireAuth(t *testing.T) {
	e, mw := newTestEcho(newTestServer())
	e.GET("/me", func(c echo.Context) error {
		return c.String(http.StatusOK, fmt.Sprint(CurrentUserID(c), GetUserID(c)))
	}, mw.Auth.RequireAuth)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"rejected token", "Bearer bad", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "77", rec.Body.String())
			} else {
				assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
			}
		})
	}
}

func TestRequireScopes(t *testing.T) {
	e, mw := newTestEcho(newTestServer())
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	e.GET("/gear", ok, mw.Auth.RequireAuth, mw.Auth.RequireScopes(token.ScopeGearsRead))
	e.POST("/users", ok, mw.Auth.RequireAuth, mw.Auth.RequireScopes(token.ScopeUsersWrite))

	req := httptest.NewRequest(http.MethodGet, "/gear", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer good")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/users", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer good")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Not enough permissions", decodeError(t, rec).Message)
}

func TestGlobalErrorHandler(t *testing.T) {
	e, _ := newTestEcho(newTestServer())
	e.GET("/missing-row", func(c echo.Context) error { return pgx.ErrNoRows })
	e.GET("/upstream", func(c echo.Context) error { return fmt.Errorf("strava: %w", upstream.ErrUnavailable) })
	e.GET("/boom", func(c echo.Context) error { return errors.New("secret detail") })
	e.GET("/conflict", func(c echo.Context) error {
		return errs.NewConflictError("Weight already added to this day", true, nil)
	})

	tests := []struct {
		path   string
		status int
	}{
		{"/missing-row", http.StatusNotFound},
		{"/upstream", http.StatusServiceUnavailable},
		{"/boom", http.StatusInternalServerError},
		{"/conflict", http.StatusConflict},
		{"/no-such-route", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.status, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.status, body.Status)
			assert.NotContains(t, body.Message, "secret detail")
		})
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	e, _ := newTestEcho(newTestServer())
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Body.String())
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestRateLimit(t *testing.T) {
	s := newTestServer()
	s.Config.Server.RateLimit = 1
	e, mw := newTestEcho(s)
	e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, mw.RateLimit.Limit())

	codes := map[int]int{}
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes[rec.Code]++
	}

	assert.Equal(t, 2, codes[http.StatusNoContent])
	assert.Equal(t, 3, codes[http.StatusTooManyRequests])
}
