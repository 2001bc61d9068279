package repository

import (
	"github.com/deppfellow/gearguardian/internal/server"
)

// Repositories groups every repository so services receive one value.
type Repositories struct {
	Users        *UserRepository
	Tokens       *AccessTokenRepository
	Integrations *IntegrationRepository
	Gear         *GearRepository
	Activities   *ActivityRepository
	Streams      *ActivityStreamRepository
	HealthData   *HealthDataRepository
}

func NewRepositories(s *server.Server) *Repositories {
	pool := s.DB.Pool
	return &Repositories{
		Users:        NewUserRepository(pool),
		Tokens:       NewAccessTokenRepository(pool),
		Integrations: NewIntegrationRepository(pool),
		Gear:         NewGearRepository(pool),
		Activities:   NewActivityRepository(pool),
		Streams:      NewActivityStreamRepository(pool),
		HealthData:   NewHealthDataRepository(pool),
	}
}
