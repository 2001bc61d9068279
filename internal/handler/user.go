package handler

import (
	"github.com/deppfellow/gearguardian/internal/middleware"
	"github.com/deppfellow/gearguardian/internal/model"
	"github.com/deppfellow/gearguardian/internal/server"
	"github.com/deppfellow/gearguardian/internal/service"
	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	Handler
	users *service.UserService
}

func NewUserHandler(s *server.Server, users *service.UserService) *UserHandler {
	return &UserHandler{Handler: NewHandler(s), users: users}
}

func (h *UserHandler) Me(c echo.Context, _ *model.EmptyRequest) (*model.User, error) {
	return h.users.GetByID(c.Request().Context(), middleware.CurrentUserID(c))
}

func (h *UserHandler) Create(c echo.Context, req *model.CreateUserRequest) (*model.User, error) {
	return h.users.Create(c.Request().Context(), req)
}
