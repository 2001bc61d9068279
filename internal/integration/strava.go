package integration

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/deppfellow/gearguardian/internal/lib/strava"
	"github.com/deppfellow/gearguardian/internal/model"
	"github.com/deppfellow/gearguardian/internal/observability"
)

// RefreshStravaTokens refreshes every Strava token that expires within the
// refresh window. It returns the number of users refreshed.
func (s *Service) RefreshStravaTokens(ctx context.Context) (int, error) {
	expiring, err := s.integrations.ListStravaExpiringBefore(ctx, s.now().Add(s.refreshWindow))
	if err != nil {
		return 0, fmt.Errorf("list expiring strava tokens: %w", err)
	}

	n := s.forEachUser(ctx, "strava:refresh_tokens", expiring, func(ctx context.Context, in *model.UserIntegration) error {
		_, err := s.refreshStrava(ctx, in)
		return err
	})
	return n, nil
}

func (s *Service) refreshStrava(ctx context.Context, in *model.UserIntegration) (*model.StravaTokens, error) {
	if in.StravaRefreshToken == nil || *in.StravaRefreshToken == "" {
		return nil, ErrNotLinked
	}

	tokens, err := s.strava.Refresh(ctx, *in.StravaRefreshToken)
	if err != nil {
		return nil, err
	}
	if err := s.integrations.SetStravaTokens(ctx, in.UserID, *tokens); err != nil {
		return nil, fmt.Errorf("store strava tokens: %w", err)
	}

	in.StravaToken = &tokens.AccessToken
	in.StravaRefreshToken = &tokens.RefreshToken
	in.StravaTokenExpiresAt = &tokens.ExpiresAt
	return tokens, nil
}

// stravaAccessToken returns a usable access token, refreshing it first when
// it has already expired.
func (s *Service) stravaAccessToken(ctx context.Context, in *model.UserIntegration) (string, error) {
	if !in.StravaLinked() {
		return "", ErrNotLinked
	}
	if in.StravaTokenExpiresAt != nil && !in.StravaTokenExpiresAt.After(s.now().Add(time.Minute)) {
		tokens, err := s.refreshStrava(ctx, in)
		if err != nil {
			return "", err
		}
		return tokens.AccessToken, nil
	}
	return *in.StravaToken, nil
}

// ImportStravaActivities imports recent activities for every linked user.
func (s *Service) ImportStravaActivities(ctx context.Context, lookback time.Duration) (int, error) {
	linked, err := s.integrations.ListStravaLinked(ctx)
	if err != nil {
		return 0, fmt.Errorf("list strava integrations: %w", err)
	}

	since := s.now().Add(-lookback)
	n := s.forEachUser(ctx, "strava:activities", linked, func(ctx context.Context, in *model.UserIntegration) error {
		_, err := s.importStrava(ctx, in, since)
		return err
	})
	return n, nil
}

// ImportStravaActivitiesForUser imports one user's activities started after since.
func (s *Service) ImportStravaActivitiesForUser(ctx context.Context, userID int64, since time.Time) (int, error) {
	in, err := s.integrations.GetByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return s.importStrava(ctx, in, since)
}

func (s *Service) importStrava(ctx context.Context, in *model.UserIntegration, since time.Time) (int, error) {
	token, err := s.stravaAccessToken(ctx, in)
	if err != nil {
		return 0, err
	}

	remote, err := s.strava.ActivitiesSince(ctx, token, since)
	if err != nil {
		return 0, fmt.Errorf("strava activities: %w", err)
	}
	if len(remote) == 0 {
		return 0, nil
	}

	ids := make([]int64, len(remote))
	for i := range remote {
		ids[i] = remote[i].ID
	}
	known, err := s.activities.KnownProviderIDs(ctx, model.ProviderStrava, ids)
	if err != nil {
		return 0, fmt.Errorf("known strava activities: %w", err)
	}

	imported := 0
	for i := range remote {
		if known[remote[i].ID] {
			continue
		}

		activity := stravaActivity(in.UserID, &remote[i])

		var streams []model.ActivityStream
		set, err := s.strava.Streams(ctx, token, remote[i].ID)
		if err != nil {
			s.logger.Warn().Err(err).Int64("strava_activity_id", remote[i].ID).Msg("strava streams unavailable")
		} else if streams, err = StravaStreams(set); err != nil {
			return imported, err
		}

		if _, err := s.activities.CreateWithStreams(ctx, activity, streams); err != nil {
			return imported, fmt.Errorf("store strava activity %d: %w", remote[i].ID, err)
		}
		imported++
	}

	observability.RecordActivitiesImported(string(model.ProviderStrava), imported)
	s.logger.Info().Int64("user_id", in.UserID).Int("imported", imported).Msg("strava activities imported")

	if imported > 0 && in.StravaSyncGear {
		if _, err := s.SetActivitiesGear(ctx, in.UserID, model.ProviderStrava); err != nil {
			return imported, err
		}
	}
	return imported, nil
}

func stravaVisibility(a *strava.Activity) model.Visibility {
	switch {
	case a.Private || a.Visibility == "only_me":
		return model.VisibilityPrivate
	case a.Visibility == "followers_only":
		return model.VisibilityFollowers
	default:
		return model.VisibilityPublic
	}
}

func stravaActivity(userID int64, a *strava.Activity) *model.Activity {
	sportType := a.SportType
	if sportType == "" {
		sportType = a.Type
	}

	stravaID := a.ID
	activity := &model.Activity{
		UserID:           userID,
		Name:             optional(a.Name),
		Distance:         int(math.Round(a.Distance)),
		ActivityType:     model.StravaActivityType(sportType),
		StartTime:        a.StartDate.UTC(),
		EndTime:          a.StartDate.UTC().Add(time.Duration(a.ElapsedTime) * time.Second),
		Timezone:         optional(a.Timezone),
		TotalElapsedTime: floatPtr(float64(a.ElapsedTime)),
		TotalTimerTime:   floatPtr(float64(a.MovingTime)),
		ElevationGain:    intPtr(a.TotalElevationGain),
		Visibility:       stravaVisibility(a),
		StravaGearID:     a.GearID,
		StravaActivityID: &stravaID,
	}

	if a.AverageSpeed > 0 {
		activity.AverageSpeed = floatPtr(a.AverageSpeed)
		activity.Pace = floatPtr(1 / a.AverageSpeed)
	}
	if a.AverageWatts != nil {
		activity.AveragePower = intPtr(*a.AverageWatts)
	}
	if a.Kilojoules != nil {
		// Mechanical work in kJ is close to kcal burned given typical efficiency.
		activity.Calories = intPtr(*a.Kilojoules)
	}
	return activity
}

func floatPtr(v float64) *float64 {
	return &v
}

func intPtr(v float64) *int {
	i := int(math.Round(v))
	return &i
}
