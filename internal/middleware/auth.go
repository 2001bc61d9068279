package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/deppfellow/gearguardian/internal/errs"
	"github.com/deppfellow/gearguardian/internal/lib/token"
	"github.com/deppfellow/gearguardian/internal/server"
	"github.com/labstack/echo/v4"
)

// ClaimsKey stores the verified *token.Claims in Echo context.
const ClaimsKey = "claims"

// Authenticator is implemented by *service.AuthService.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*token.Claims, error)
}

type AuthMiddleware struct {
	server *server.Server
	auth   Authenticator
}

func NewAuthMiddleware(s *server.Server, auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{
		server: s,
		auth:   auth,
	}
}

// RequireAuth rejects requests without a valid, unrevoked bearer token and
// stores the caller's identity in Echo context.
func (am *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		raw, err := token.FromHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
			return errs.NewUnauthorizedError("Not authenticated", true)
		}

		claims, err := am.auth.Authenticate(c.Request().Context(), raw)
		if err != nil {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
			am.server.Logger.Warn().
				Err(err).
				Str("function", "RequireAuth").
				Str("request_id", GetRequestID(c)).
				Dur("duration", time.Since(start)).
				Msg("rejected bearer token")
			return err
		}

		userID := strconv.FormatInt(claims.UserID, 10)
		c.Set(UserIDKey, userID)
		c.Set(ClaimsKey, claims)

		// EnhanceContext ran before the user was known.
		requestLogger := GetLogger(c).With().Str("user_id", userID).Logger()
		c.Set(LoggerKey, &requestLogger)

		return next(c)
	}
}

// RequireScopes must run after RequireAuth. Every listed scope has to be
// present on the token.
func (am *AuthMiddleware) RequireScopes(scopes ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := GetClaims(c)
			if claims == nil {
				return errs.NewUnauthorizedError("Not authenticated", true)
			}
			for _, scope := range scopes {
				if !claims.HasScope(scope) {
					return errs.NewForbiddenError("Not enough permissions", true)
				}
			}
			return next(c)
		}
	}
}

// GetClaims returns the verified claims, or nil on public routes.
func GetClaims(c echo.Context) *token.Claims {
	if claims, ok := c.Get(ClaimsKey).(*token.Claims); ok {
		return claims
	}
	return nil
}

// CurrentUserID returns the authenticated user's id, or 0.
func CurrentUserID(c echo.Context) int64 {
	if claims := GetClaims(c); claims != nil {
		return claims.UserID
	}
	return 0
}
