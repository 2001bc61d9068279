package integration

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/deppfellow/gearguardian/internal/errs"
	"github.com/deppfellow/gearguardian/internal/lib/garmin"
	"github.com/deppfellow/gearguardian/internal/model"
	"github.com/deppfellow/gearguardian/internal/observability"
)

// garminToken returns the stored OAuth2 access token. Expired tokens are
// not refreshed here; the user links Garmin Connect again instead.
func (s *Service) garminToken(in *model.UserIntegration) (*garmin.Token, error) {
	if !in.GarminConnectLinked() {
		return nil, ErrNotLinked
	}
	tok, err := garmin.ParseToken(in.GarminConnectOAuth2, s.now())
	if errors.Is(err, garmin.ErrTokenExpired) {
		s.logger.Warn().Int64("user_id", in.UserID).Msg("garmin connect token expired, user must relink")
	}
	return tok, err
}

// ImportGarminActivities imports activities since the start of yesterday
// for every linked user.
func (s *Service) ImportGarminActivities(ctx context.Context) (int, error) {
	linked, err := s.integrations.ListGarminConnectLinked(ctx)
	if err != nil {
		return 0, fmt.Errorf("list garmin integrations: %w", err)
	}

	since := startOfDay(s.now()).AddDate(0, 0, -1)
	n := s.forEachUser(ctx, "garminconnect:activities", linked, func(ctx context.Context, in *model.UserIntegration) error {
		_, err := s.importGarmin(ctx, in, since)
		return err
	})
	return n, nil
}

// ImportGarminActivitiesForUser imports one user's activities since the day of since.
func (s *Service) ImportGarminActivitiesForUser(ctx context.Context, userID int64, since time.Time) (int, error) {
	in, err := s.integrations.GetByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return s.importGarmin(ctx, in, since)
}

func (s *Service) importGarmin(ctx context.Context, in *model.UserIntegration, since time.Time) (int, error) {
	tok, err := s.garminToken(in)
	if err != nil {
		return 0, err
	}

	remote, err := s.garmin.ActivitiesSince(ctx, tok, since)
	if err != nil {
		return 0, fmt.Errorf("garmin activities: %w", err)
	}
	if len(remote) == 0 {
		return 0, nil
	}

	ids := make([]int64, len(remote))
	for i := range remote {
		ids[i] = remote[i].ActivityID
	}
	known, err := s.activities.KnownProviderIDs(ctx, model.ProviderGarminConnect, ids)
	if err != nil {
		return 0, fmt.Errorf("known garmin activities: %w", err)
	}

	imported := 0
	for i := range remote {
		if known[remote[i].ActivityID] {
			continue
		}

		activity := garminActivity(in.UserID, &remote[i])

		gear, err := s.garmin.ActivityGear(ctx, tok, remote[i].ActivityID)
		if err != nil {
			s.logger.Warn().Err(err).Int64("garminconnect_activity_id", remote[i].ActivityID).Msg("garmin activity gear unavailable")
		} else if len(gear) > 0 {
			activity.GarminConnectGearID = optional(gear[0].UUID)
		}

		if _, err := s.activities.CreateWithStreams(ctx, activity, nil); err != nil {
			return imported, fmt.Errorf("store garmin activity %d: %w", remote[i].ActivityID, err)
		}
		imported++
	}

	observability.RecordActivitiesImported(string(model.ProviderGarminConnect), imported)
	s.logger.Info().Int64("user_id", in.UserID).Int("imported", imported).Msg("garmin activities imported")

	if imported > 0 && in.GarminConnectSyncGear {
		if _, err := s.SetActivitiesGear(ctx, in.UserID, model.ProviderGarminConnect); err != nil {
			return imported, err
		}
	}
	return imported, nil
}

func garminActivity(userID int64, a *garmin.Activity) *model.Activity {
	garminID := a.ActivityID
	start := a.StartTimeGMT.Time

	elapsed := a.ElapsedDuration
	if elapsed == 0 {
		elapsed = a.Duration
	}

	activity := &model.Activity{
		UserID:                  userID,
		Name:                    optional(a.ActivityName),
		Distance:                int(math.Round(a.Distance)),
		Description:             a.Description,
		ActivityType:            model.GarminActivityType(a.ActivityType.TypeKey),
		StartTime:               start,
		EndTime:                 start.Add(time.Duration(elapsed * float64(time.Second))),
		TotalElapsedTime:        floatPtr(elapsed),
		TotalTimerTime:          floatPtr(a.Duration),
		AverageSpeed:            a.AverageSpeed,
		Visibility:              model.VisibilityPrivate,
		GarminConnectActivityID: &garminID,
	}

	if a.ElevationGain != nil {
		activity.ElevationGain = intPtr(*a.ElevationGain)
	}
	if a.ElevationLoss != nil {
		activity.ElevationLoss = intPtr(*a.ElevationLoss)
	}
	if a.AvgPower != nil {
		activity.AveragePower = intPtr(*a.AvgPower)
	}
	if a.Calories != nil {
		activity.Calories = intPtr(*a.Calories)
	}
	if a.Distance > 0 && a.Duration > 0 {
		activity.Pace = floatPtr(a.Duration / a.Distance)
	}
	return activity
}

// ImportGarminHealth stores yesterday's and today's weights for every
// linked user.
func (s *Service) ImportGarminHealth(ctx context.Context) (int, error) {
	linked, err := s.integrations.ListGarminConnectLinked(ctx)
	if err != nil {
		return 0, fmt.Errorf("list garmin integrations: %w", err)
	}

	end := startOfDay(s.now())
	start := end.AddDate(0, 0, -1)
	n := s.forEachUser(ctx, "garminconnect:health", linked, func(ctx context.Context, in *model.UserIntegration) error {
		_, err := s.importGarminHealth(ctx, in, start, end)
		return err
	})
	return n, nil
}

func (s *Service) importGarminHealth(ctx context.Context, in *model.UserIntegration, start, end time.Time) (int, error) {
	tok, err := s.garminToken(in)
	if err != nil {
		return 0, err
	}

	samples, err := s.garmin.Weights(ctx, tok, start, end)
	if err != nil {
		return 0, fmt.Errorf("garmin weights: %w", err)
	}

	stored := 0
	for i := range samples {
		data, ok := healthFromSample(in.UserID, &samples[i])
		if !ok {
			continue
		}

		_, err := s.weights.AddWeight(ctx, in.UserID, data)
		var httpErr *errs.HTTPError
		switch {
		case errors.As(err, &httpErr) && httpErr.Status == http.StatusConflict:
			continue
		case err != nil:
			return stored, fmt.Errorf("store weight for %s: %w", samples[i].CalendarDate, err)
		}
		stored++
	}

	s.logger.Info().Int64("user_id", in.UserID).Int("stored", stored).Msg("garmin weights imported")
	return stored, nil
}

func healthFromSample(userID int64, w *garmin.WeightSample) (model.HealthData, bool) {
	if w.Weight == nil {
		return model.HealthData{}, false
	}
	day, err := time.Parse("2006-01-02", w.CalendarDate)
	if err != nil {
		return model.HealthData{}, false
	}

	sampleID := strconv.FormatInt(w.SamplePK, 10)
	return model.HealthData{
		UserID:                         userID,
		CreatedAt:                      day,
		Weight:                         grams(w.Weight),
		BodyFat:                        w.BodyFat,
		BodyWater:                      w.BodyWater,
		BoneMass:                       grams(w.BoneMass),
		MuscleMass:                     grams(w.MuscleMass),
		GarminConnectBodyCompositionID: &sampleID,
	}, true
}

// grams converts a Garmin mass in grams to kilograms.
func grams(v *float64) *float64 {
	if v == nil {
		return nil
	}
	kg := math.Round(*v/10) / 100
	return &kg
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
