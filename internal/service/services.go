package service

import (
	"github.com/deppfellow/gearguardian/internal/integration"
	"github.com/deppfellow/gearguardian/internal/lib/email"
	"github.com/deppfellow/gearguardian/internal/lib/garmin"
	"github.com/deppfellow/gearguardian/internal/lib/job"
	"github.com/deppfellow/gearguardian/internal/lib/strava"
	"github.com/deppfellow/gearguardian/internal/lib/token"
	"github.com/deppfellow/gearguardian/internal/repository"
	"github.com/deppfellow/gearguardian/internal/server"
)

type Services struct {
	Auth        *AuthService
	User        *UserService
	Activity    *ActivityService
	Stream      *StreamService
	Gear        *GearService
	Health      *HealthService
	Integration *IntegrationService

	// Sync runs the provider imports; only the job worker calls it.
	Sync  *integration.Service
	Email *email.Client
	Job   *job.JobService

	server *server.Server
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	cfg := s.Config

	stravaClient := strava.NewClient(cfg.Integration.Strava, s.Logger)
	garminClient := garmin.NewClient(cfg.Integration.GarminConnect, s.Logger)

	health := NewHealthService(repos.HealthData, repos.Users)

	sync := integration.NewService(integration.Deps{
		Activities:          repos.Activities,
		Gear:                repos.Gear,
		Integrations:        repos.Integrations,
		Weights:             health,
		Strava:              stravaClient,
		Garmin:              garminClient,
		Logger:              s.Logger,
		StravaRefreshWindow: cfg.Integration.Strava.RefreshWindow,
	})

	auth := NewAuthService(repos.Users, repos.Tokens, token.Config{
		Secret: cfg.Auth.SecretKey,
		Issuer: cfg.Auth.Issuer,
		TTL:    cfg.Auth.AccessTokenTTL,
	})

	return &Services{
		Auth:        auth,
		User:        NewUserService(repos.Users, s.Job, s.Logger),
		Activity:    NewActivityService(repos.Activities, repos.Gear),
		Stream:      NewStreamService(repos.Activities, repos.Streams),
		Gear:        NewGearService(repos.Gear),
		Health:      health,
		Integration: NewIntegrationService(repos.Integrations, stravaClient, s.Job),
		Sync:        sync,
		Email:       email.NewClient(cfg, s.Logger),
		Job:         s.Job,
		server:      s,
	}, nil
}

// RegisterJobs binds every background task handler on the job service.
func (s *Services) RegisterJobs() {
	handlers := job.NewHandlers(s.Auth, s.Sync, s.Email, s.server.Config.Jobs.Lookback, s.server.Logger)
	handlers.Register(s.Job)
}
