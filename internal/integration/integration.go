// Package integration pulls data from Strava and Garmin Connect into the
// local store and links synced activities to the user's gear.
//
// Every periodic entry point loops over linked users one at a time. A
// failure for one user is logged and the loop moves on.
package integration

import (
	"context"
	"errors"
	"time"

	"github.com/deppfellow/gearguardian/internal/lib/garmin"
	"github.com/deppfellow/gearguardian/internal/lib/strava"
	"github.com/deppfellow/gearguardian/internal/model"
	"github.com/rs/zerolog"
)

// ErrNotLinked is returned when a user has no usable link to the provider.
var ErrNotLinked = errors.New("integration not linked")

type ActivityStore interface {
	ListWithProviderGear(ctx context.Context, userID int64, provider model.Provider) ([]model.Activity, error)
	UpdateGearIDs(ctx context.Context, activities []model.Activity) error
	KnownProviderIDs(ctx context.Context, provider model.Provider, ids []int64) (map[int64]bool, error)
	CreateWithStreams(ctx context.Context, activity *model.Activity, streams []model.ActivityStream) (*model.Activity, error)
}

type GearStore interface {
	ListAll(ctx context.Context, userID int64) ([]model.Gear, error)
	CreateMany(ctx context.Context, gears []model.Gear) ([]model.Gear, error)
}

type IntegrationStore interface {
	GetByUserID(ctx context.Context, userID int64) (*model.UserIntegration, error)
	SetStravaTokens(ctx context.Context, userID int64, tokens model.StravaTokens) error
	SetStravaSyncGear(ctx context.Context, userID int64, enabled bool) error
	SetGarminConnectSyncGear(ctx context.Context, userID int64, enabled bool) error
	ListStravaLinked(ctx context.Context) ([]model.UserIntegration, error)
	ListStravaExpiringBefore(ctx context.Context, t time.Time) ([]model.UserIntegration, error)
	ListGarminConnectLinked(ctx context.Context) ([]model.UserIntegration, error)
}

// WeightRecorder stores one day of body composition. It returns a 409
// HTTPError when the day already has a weight.
type WeightRecorder interface {
	AddWeight(ctx context.Context, userID int64, data model.HealthData) (*model.HealthData, error)
}

type StravaAPI interface {
	Refresh(ctx context.Context, refreshToken string) (*model.StravaTokens, error)
	Athlete(ctx context.Context, token string) (*strava.Athlete, error)
	Gear(ctx context.Context, token, id string) (*strava.GearDetail, error)
	ActivitiesSince(ctx context.Context, token string, after time.Time) ([]strava.Activity, error)
	Streams(ctx context.Context, token string, activityID int64) (*strava.StreamSet, error)
}

type GarminAPI interface {
	LastUsedDevice(ctx context.Context, tok *garmin.Token) (*garmin.Device, error)
	Gear(ctx context.Context, tok *garmin.Token, userProfilePK int64) ([]garmin.Gear, error)
	ActivityGear(ctx context.Context, tok *garmin.Token, activityID int64) ([]garmin.Gear, error)
	ActivitiesSince(ctx context.Context, tok *garmin.Token, start time.Time) ([]garmin.Activity, error)
	Weights(ctx context.Context, tok *garmin.Token, start, end time.Time) ([]garmin.WeightSample, error)
}

// Deps wires a Service.
type Deps struct {
	Activities   ActivityStore
	Gear         GearStore
	Integrations IntegrationStore
	Weights      WeightRecorder
	Strava       StravaAPI
	Garmin       GarminAPI
	Logger       *zerolog.Logger
	// StravaRefreshWindow refreshes tokens expiring within this duration.
	StravaRefreshWindow time.Duration
}

type Service struct {
	activities    ActivityStore
	gear          GearStore
	integrations  IntegrationStore
	weights       WeightRecorder
	strava        StravaAPI
	garmin        GarminAPI
	logger        zerolog.Logger
	refreshWindow time.Duration
	now           func() time.Time
}

func NewService(d Deps) *Service {
	logger := zerolog.Nop()
	if d.Logger != nil {
		logger = d.Logger.With().Str("component", "integration").Logger()
	}

	window := d.StravaRefreshWindow
	if window <= 0 {
		window = time.Hour
	}

	return &Service{
		activities:    d.Activities,
		gear:          d.Gear,
		integrations:  d.Integrations,
		weights:       d.Weights,
		strava:        d.Strava,
		garmin:        d.Garmin,
		logger:        logger,
		refreshWindow: window,
		now:           time.Now,
	}
}

// forEachUser runs fn for every integration, logging and skipping failures.
// It returns how many users succeeded.
func (s *Service) forEachUser(ctx context.Context, job string, integrations []model.UserIntegration, fn func(context.Context, *model.UserIntegration) error) int {
	ok := 0
	for i := range integrations {
		if err := ctx.Err(); err != nil {
			s.logger.Warn().Str("job", job).Err(err).Msg("stopping user loop")
			return ok
		}

		in := &integrations[i]
		if err := fn(ctx, in); err != nil {
			s.logger.Error().Err(err).Str("job", job).Int64("user_id", in.UserID).Msg("user sync failed")
			continue
		}
		ok++
	}
	return ok
}
