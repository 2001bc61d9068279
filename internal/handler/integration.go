package handler

import (
	"github.com/deppfellow/gearguardian/internal/lib/job"
	"github.com/deppfellow/gearguardian/internal/middleware"
	"github.com/deppfellow/gearguardian/internal/model"
	"github.com/deppfellow/gearguardian/internal/server"
	"github.com/deppfellow/gearguardian/internal/service"
	"github.com/labstack/echo/v4"
)

type IntegrationHandler struct {
	Handler
	integrations *service.IntegrationService
}

func NewIntegrationHandler(s *server.Server, integrations *service.IntegrationService) *IntegrationHandler {
	return &IntegrationHandler{Handler: NewHandler(s), integrations: integrations}
}

func (h *IntegrationHandler) Get(c echo.Context, _ *model.EmptyRequest) (*model.UserIntegration, error) {
	return h.integrations.Get(c.Request().Context(), middleware.CurrentUserID(c))
}

func (h *IntegrationHandler) StravaLink(c echo.Context, _ *model.EmptyRequest) (*model.StravaLinkResponse, error) {
	return h.integrations.StravaLink(c.Request().Context(), middleware.CurrentUserID(c))
}

// StravaCallback is public: Strava redirects the browser here and the
// user is found by the pending state.
func (h *IntegrationHandler) StravaCallback(c echo.Context, req *model.StravaCallbackRequest) (*model.UserIntegration, error) {
	return h.integrations.StravaCallback(c.Request().Context(), req)
}

func (h *IntegrationHandler) StravaUnlink(c echo.Context, _ *model.EmptyRequest) error {
	return h.integrations.StravaUnlink(c.Request().Context(), middleware.CurrentUserID(c))
}

func (h *IntegrationHandler) StravaGear(c echo.Context, _ *model.EmptyRequest) (*model.QueuedResponse, error) {
	return h.integrations.QueueImport(c.Request().Context(), middleware.CurrentUserID(c), job.TaskUserStravaGear, 0)
}

func (h *IntegrationHandler) StravaActivities(c echo.Context, req *model.ImportDaysRequest) (*model.QueuedResponse, error) {
	return h.integrations.QueueImport(c.Request().Context(), middleware.CurrentUserID(c), job.TaskUserStravaActivities, req.Days)
}

func (h *IntegrationHandler) GarminConnectLink(c echo.Context, req *model.GarminConnectLinkRequest) (*model.UserIntegration, error) {
	return h.integrations.GarminConnectLink(c.Request().Context(), middleware.CurrentUserID(c), req)
}

func (h *IntegrationHandler) GarminConnectUnlink(c echo.Context, _ *model.EmptyRequest) error {
	return h.integrations.GarminConnectUnlink(c.Request().Context(), middleware.CurrentUserID(c))
}

func (h *IntegrationHandler) GarminConnectGear(c echo.Context, _ *model.EmptyRequest) (*model.QueuedResponse, error) {
	return h.integrations.QueueImport(c.Request().Context(), middleware.CurrentUserID(c), job.TaskUserGarminGear, 0)
}

func (h *IntegrationHandler) GarminConnectActivities(c echo.Context, req *model.ImportDaysRequest) (*model.QueuedResponse, error) {
	return h.integrations.QueueImport(c.Request().Context(), middleware.CurrentUserID(c), job.TaskUserGarminActivities, req.Days)
}
