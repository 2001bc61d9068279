package handler

import (
	"github.com/deppfellow/gearguardian/internal/middleware"
	"github.com/deppfellow/gearguardian/internal/model"
	"github.com/deppfellow/gearguardian/internal/server"
	"github.com/deppfellow/gearguardian/internal/service"
	"github.com/labstack/echo/v4"
)

type GearHandler struct {
	Handler
	gear *service.GearService
}

func NewGearHandler(s *server.Server, gear *service.GearService) *GearHandler {
	return &GearHandler{Handler: NewHandler(s), gear: gear}
}

func (h *GearHandler) Count(c echo.Context, _ *model.EmptyRequest) (*model.Count, error) {
	return h.gear.Count(c.Request().Context(), middleware.CurrentUserID(c))
}

func (h *GearHandler) List(c echo.Context, req *model.PageRequest) ([]model.Gear, error) {
	return h.gear.List(c.Request().Context(), middleware.CurrentUserID(c), req.Page())
}

func (h *GearHandler) Get(c echo.Context, req *model.IDRequest) (*model.Gear, error) {
	return h.gear.Get(c.Request().Context(), middleware.CurrentUserID(c), req.ID)
}

func (h *GearHandler) ByNickname(c echo.Context, req *model.GearNicknameRequest) ([]model.Gear, error) {
	return h.gear.ListByNickname(c.Request().Context(), middleware.CurrentUserID(c), req.Nickname)
}

func (h *GearHandler) ByType(c echo.Context, req *model.GearTypeRequest) ([]model.Gear, error) {
	return h.gear.ListByType(c.Request().Context(), middleware.CurrentUserID(c), req.GearType)
}

func (h *GearHandler) Create(c echo.Context, req *model.CreateGearRequest) (*model.Gear, error) {
	return h.gear.Create(c.Request().Context(), middleware.CurrentUserID(c), req)
}

func (h *GearHandler) Update(c echo.Context, req *model.UpdateGearRequest) (*model.Gear, error) {
	return h.gear.Update(c.Request().Context(), middleware.CurrentUserID(c), req)
}

func (h *GearHandler) Delete(c echo.Context, req *model.IDRequest) error {
	return h.gear.Delete(c.Request().Context(), middleware.CurrentUserID(c), req.ID)
}
