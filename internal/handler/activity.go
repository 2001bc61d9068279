package handler

import (
	"github.com/deppfellow/gearguardian/internal/middleware"
	"github.com/deppfellow/gearguardian/internal/model"
	"github.com/deppfellow/gearguardian/internal/server"
	"github.com/deppfellow/gearguardian/internal/service"
	"github.com/labstack/echo/v4"
)

type ActivityHandler struct {
	Handler
	activities *service.ActivityService
	streams    *service.StreamService
}

func NewActivityHandler(s *server.Server, activities *service.ActivityService, streams *service.StreamService) *ActivityHandler {
	return &ActivityHandler{
		Handler:    NewHandler(s),
		activities: activities,
		streams:    streams,
	}
}

func (h *ActivityHandler) Count(c echo.Context, _ *model.EmptyRequest) (*model.Count, error) {
	return h.activities.Count(c.Request().Context(), middleware.CurrentUserID(c))
}

func (h *ActivityHandler) List(c echo.Context, req *model.PageRequest) ([]model.Activity, error) {
	return h.activities.List(c.Request().Context(), middleware.CurrentUserID(c), req.Page())
}

func (h *ActivityHandler) Get(c echo.Context, req *model.IDRequest) (*model.Activity, error) {
	return h.activities.Get(c.Request().Context(), middleware.CurrentUserID(c), req.ID)
}

func (h *ActivityHandler) Week(c echo.Context, req *model.ActivityWeekRequest) ([]model.Activity, error) {
	return h.activities.Week(c.Request().Context(), middleware.CurrentUserID(c), req)
}

// ListByGear reads the gear id from :id.
func (h *ActivityHandler) ListByGear(c echo.Context, req *model.IDRequest) ([]model.Activity, error) {
	return h.activities.ListByGear(c.Request().Context(), middleware.CurrentUserID(c), req.ID)
}

func (h *ActivityHandler) Create(c echo.Context, req *model.CreateActivityRequest) (*model.Activity, error) {
	return h.activities.Create(c.Request().Context(), middleware.CurrentUserID(c), req)
}

func (h *ActivityHandler) AddGear(c echo.Context, req *model.ActivityGearRequest) (*model.Activity, error) {
	return h.activities.AddGear(c.Request().Context(), middleware.CurrentUserID(c), req)
}

func (h *ActivityHandler) RemoveGear(c echo.Context, req *model.IDRequest) (*model.Activity, error) {
	return h.activities.RemoveGear(c.Request().Context(), middleware.CurrentUserID(c), req.ID)
}

func (h *ActivityHandler) Delete(c echo.Context, req *model.IDRequest) error {
	return h.activities.Delete(c.Request().Context(), middleware.CurrentUserID(c), req.ID)
}

func (h *ActivityHandler) Streams(c echo.Context, req *model.IDRequest) ([]model.ActivityStream, error) {
	return h.streams.List(c.Request().Context(), middleware.CurrentUserID(c), req.ID)
}

func (h *ActivityHandler) StreamByType(c echo.Context, req *model.StreamByTypeRequest) (*model.ActivityStream, error) {
	return h.streams.GetByType(c.Request().Context(), middleware.CurrentUserID(c), req)
}
