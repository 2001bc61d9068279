package handler

import (
	"github.com/deppfellow/gearguardian/internal/server"
	"github.com/deppfellow/gearguardian/internal/service"
)

// Handlers groups every HTTP handler so the router receives one value.
type Handlers struct {
	Health      *HealthHandler
	OpenAPI     *OpenAPIHandler
	Auth        *AuthHandler
	User        *UserHandler
	Activity    *ActivityHandler
	Gear        *GearHandler
	HealthData  *HealthDataHandler
	Integration *IntegrationHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:      NewHealthHandler(s),
		OpenAPI:     NewOpenAPIHandler(s),
		Auth:        NewAuthHandler(s, services.Auth),
		User:        NewUserHandler(s, services.User),
		Activity:    NewActivityHandler(s, services.Activity, services.Stream),
		Gear:        NewGearHandler(s, services.Gear),
		HealthData:  NewHealthDataHandler(s, services.Health),
		Integration: NewIntegrationHandler(s, services.Integration),
	}
}
