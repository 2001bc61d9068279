package handler

import (
	"github.com/deppfellow/gearguardian/internal/middleware"
	"github.com/deppfellow/gearguardian/internal/model"
	"github.com/deppfellow/gearguardian/internal/server"
	"github.com/deppfellow/gearguardian/internal/service"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	Handler
	auth *service.AuthService
}

func NewAuthHandler(s *server.Server, auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Handler: NewHandler(s), auth: auth}
}

// Login accepts a JSON body or an OAuth2 password form.
func (h *AuthHandler) Login(c echo.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	return h.auth.Login(c.Request().Context(), req)
}

func (h *AuthHandler) Logout(c echo.Context, _ *model.EmptyRequest) error {
	return h.auth.Logout(c.Request().Context(), middleware.GetClaims(c))
}
