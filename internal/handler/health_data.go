package handler

import (
	"github.com/deppfellow/gearguardian/internal/middleware"
	"github.com/deppfellow/gearguardian/internal/model"
	"github.com/deppfellow/gearguardian/internal/server"
	"github.com/deppfellow/gearguardian/internal/service"
	"github.com/labstack/echo/v4"
)

// HealthDataHandler serves the user's body measurements. System health
// lives in HealthHandler.
type HealthDataHandler struct {
	Handler
	health *service.HealthService
}

func NewHealthDataHandler(s *server.Server, health *service.HealthService) *HealthDataHandler {
	return &HealthDataHandler{Handler: NewHandler(s), health: health}
}

func (h *HealthDataHandler) Count(c echo.Context, _ *model.EmptyRequest) (*model.Count, error) {
	return h.health.Count(c.Request().Context(), middleware.CurrentUserID(c))
}

func (h *HealthDataHandler) ListAll(c echo.Context, _ *model.EmptyRequest) ([]model.HealthData, error) {
	return h.health.ListAll(c.Request().Context(), middleware.CurrentUserID(c))
}

func (h *HealthDataHandler) List(c echo.Context, req *model.PageRequest) ([]model.HealthData, error) {
	return h.health.List(c.Request().Context(), middleware.CurrentUserID(c), req.Page())
}

func (h *HealthDataHandler) Create(c echo.Context, req *model.CreateHealthDataRequest) (*model.HealthData, error) {
	return h.health.Create(c.Request().Context(), middleware.CurrentUserID(c), req)
}

func (h *HealthDataHandler) CreateWeight(c echo.Context, req *model.WeightRequest) (*model.HealthData, error) {
	return h.health.CreateWeight(c.Request().Context(), middleware.CurrentUserID(c), req)
}

func (h *HealthDataHandler) UpdateWeight(c echo.Context, req *model.UpdateWeightRequest) (*model.HealthData, error) {
	return h.health.UpdateWeight(c.Request().Context(), middleware.CurrentUserID(c), req)
}

func (h *HealthDataHandler) DeleteWeight(c echo.Context, req *model.IDRequest) error {
	return h.health.DeleteWeight(c.Request().Context(), middleware.CurrentUserID(c), req.ID)
}

func (h *HealthDataHandler) Export(c echo.Context, _ *model.EmptyRequest) ([]byte, error) {
	return h.health.Export(c.Request().Context(), middleware.CurrentUserID(c))
}
