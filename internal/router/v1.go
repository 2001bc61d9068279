package router

import (
	"net/http"

	"github.com/deppfellow/gearguardian/internal/handler"
	"github.com/deppfellow/gearguardian/internal/lib/token"
	"github.com/deppfellow/gearguardian/internal/middleware"
	"github.com/deppfellow/gearguardian/internal/model"
	"github.com/labstack/echo/v4"
)

const pageParams = "/page_number/:page_number/num_records/:num_records"

func registerV1Routes(v1 *echo.Group, h *handler.Handlers, auth *middleware.AuthMiddleware) {
	scoped := func(scopes ...string) []echo.MiddlewareFunc {
		return []echo.MiddlewareFunc{auth.RequireAuth, auth.RequireScopes(scopes...)}
	}

	// Public.
	v1.POST("/token", handler.Handle(h.Auth.Handler, h.Auth.Login, http.StatusOK, &model.LoginRequest{}))
	v1.GET("/strava/callback", handler.Handle(h.Integration.Handler, h.Integration.StravaCallback, http.StatusOK, &model.StravaCallbackRequest{}))

	v1.POST("/logout", handler.HandleNoContent(h.Auth.Handler, h.Auth.Logout, http.StatusNoContent, &model.EmptyRequest{}), auth.RequireAuth)

	users := v1.Group("/users")
	users.GET("/me", handler.Handle(h.User.Handler, h.User.Me, http.StatusOK, &model.EmptyRequest{}), scoped(token.ScopeProfile)...)
	users.POST("", handler.Handle(h.User.Handler, h.User.Create, http.StatusCreated, &model.CreateUserRequest{}), scoped(token.ScopeUsersWrite)...)

	registerActivityRoutes(v1.Group("/activities"), h.Activity, scoped)
	registerGearRoutes(v1.Group("/gear"), h.Gear, scoped)
	registerHealthRoutes(v1.Group("/health"), h.HealthData, scoped)
	registerIntegrationRoutes(v1, h.Integration, scoped)
}

type scopeFunc func(scopes ...string) []echo.MiddlewareFunc

func registerActivityRoutes(g *echo.Group, a *handler.ActivityHandler, scoped scopeFunc) {
	read := scoped(token.ScopeActivitiesRead)
	write := scoped(token.ScopeActivitiesWrite)

	g.GET("/number", handler.Handle(a.Handler, a.Count, http.StatusOK, &model.EmptyRequest{}), read...)
	g.GET(pageParams, handler.Handle(a.Handler, a.List, http.StatusOK, &model.PageRequest{}), read...)
	g.GET("/user/:user_id/week/:week", handler.Handle(a.Handler, a.Week, http.StatusOK, &model.ActivityWeekRequest{}), read...)
	g.GET("/gear/:id", handler.Handle(a.Handler, a.ListByGear, http.StatusOK, &model.IDRequest{}), scoped(token.ScopeActivitiesRead, token.ScopeGearsRead)...)
	g.GET("/:id", handler.Handle(a.Handler, a.Get, http.StatusOK, &model.IDRequest{}), read...)
	g.GET("/:id/streams", handler.Handle(a.Handler, a.Streams, http.StatusOK, &model.IDRequest{}), read...)
	g.GET("/:id/streams/type/:stream_type", handler.Handle(a.Handler, a.StreamByType, http.StatusOK, &model.StreamByTypeRequest{}), read...)

	g.POST("", handler.Handle(a.Handler, a.Create, http.StatusCreated, &model.CreateActivityRequest{}), write...)
	g.PUT("/:id/gear/:gear_id", handler.Handle(a.Handler, a.AddGear, http.StatusOK, &model.ActivityGearRequest{}), write...)
	g.DELETE("/:id/gear", handler.Handle(a.Handler, a.RemoveGear, http.StatusOK, &model.IDRequest{}), write...)
	g.DELETE("/:id", handler.HandleNoContent(a.Handler, a.Delete, http.StatusNoContent, &model.IDRequest{}), write...)
}

func registerGearRoutes(g *echo.Group, gh *handler.GearHandler, scoped scopeFunc) {
	read := scoped(token.ScopeGearsRead)
	write := scoped(token.ScopeGearsWrite)

	g.GET("/number", handler.Handle(gh.Handler, gh.Count, http.StatusOK, &model.EmptyRequest{}), read...)
	g.GET(pageParams, handler.Handle(gh.Handler, gh.List, http.StatusOK, &model.PageRequest{}), read...)
	g.GET("/nickname/:nickname", handler.Handle(gh.Handler, gh.ByNickname, http.StatusOK, &model.GearNicknameRequest{}), read...)
	g.GET("/type/:gear_type", handler.Handle(gh.Handler, gh.ByType, http.StatusOK, &model.GearTypeRequest{}), read...)
	g.GET("/:id", handler.Handle(gh.Handler, gh.Get, http.StatusOK, &model.IDRequest{}), read...)

	g.POST("", handler.Handle(gh.Handler, gh.Create, http.StatusCreated, &model.CreateGearRequest{}), write...)
	g.PUT("/:id", handler.Handle(gh.Handler, gh.Update, http.StatusOK, &model.UpdateGearRequest{}), write...)
	g.DELETE("/:id", handler.HandleNoContent(gh.Handler, gh.Delete, http.StatusNoContent, &model.IDRequest{}), write...)
}

func registerHealthRoutes(g *echo.Group, hd *handler.HealthDataHandler, scoped scopeFunc) {
	read := scoped(token.ScopeHealthRead)
	write := scoped(token.ScopeHealthWrite)

	g.GET("/number", handler.Handle(hd.Handler, hd.Count, http.StatusOK, &model.EmptyRequest{}), read...)
	g.GET("", handler.Handle(hd.Handler, hd.ListAll, http.StatusOK, &model.EmptyRequest{}), read...)
	g.GET(pageParams, handler.Handle(hd.Handler, hd.List, http.StatusOK, &model.PageRequest{}), read...)
	g.GET("/export", handler.HandleFile(hd.Handler, hd.Export, http.StatusOK, &model.EmptyRequest{}, "health_data.json", echo.MIMEApplicationJSON), read...)

	g.POST("", handler.Handle(hd.Handler, hd.Create, http.StatusCreated, &model.CreateHealthDataRequest{}), write...)
	g.POST("/weight", handler.Handle(hd.Handler, hd.CreateWeight, http.StatusCreated, &model.WeightRequest{}), write...)
	g.PUT("/weight/:id", handler.Handle(hd.Handler, hd.UpdateWeight, http.StatusOK, &model.UpdateWeightRequest{}), write...)
	g.DELETE("/weight/:id", handler.HandleNoContent(hd.Handler, hd.DeleteWeight, http.StatusNoContent, &model.IDRequest{}), write...)
}

func registerIntegrationRoutes(v1 *echo.Group, ih *handler.IntegrationHandler, scoped scopeFunc) {
	profile := scoped(token.ScopeProfile)
	gearWrite := scoped(token.ScopeGearsWrite)
	activitiesWrite := scoped(token.ScopeActivitiesWrite)

	v1.GET("/integrations", handler.Handle(ih.Handler, ih.Get, http.StatusOK, &model.EmptyRequest{}), profile...)

	strava := v1.Group("/strava")
	strava.GET("/link", handler.Handle(ih.Handler, ih.StravaLink, http.StatusOK, &model.EmptyRequest{}), profile...)
	strava.DELETE("/unlink", handler.HandleNoContent(ih.Handler, ih.StravaUnlink, http.StatusNoContent, &model.EmptyRequest{}), profile...)
	strava.POST("/gear", handler.Handle(ih.Handler, ih.StravaGear, http.StatusAccepted, &model.EmptyRequest{}), gearWrite...)
	strava.POST("/activities/days/:days", handler.Handle(ih.Handler, ih.StravaActivities, http.StatusAccepted, &model.ImportDaysRequest{}), activitiesWrite...)

	garmin := v1.Group("/garminconnect")
	garmin.POST("/link", handler.Handle(ih.Handler, ih.GarminConnectLink, http.StatusOK, &model.GarminConnectLinkRequest{}), profile...)
	garmin.DELETE("/unlink", handler.HandleNoContent(ih.Handler, ih.GarminConnectUnlink, http.StatusNoContent, &model.EmptyRequest{}), profile...)
	garmin.POST("/gear", handler.Handle(ih.Handler, ih.GarminConnectGear, http.StatusAccepted, &model.EmptyRequest{}), gearWrite...)
	garmin.POST("/activities/days/:days", handler.Handle(ih.Handler, ih.GarminConnectActivities, http.StatusAccepted, &model.ImportDaysRequest{}), activitiesWrite...)
}
