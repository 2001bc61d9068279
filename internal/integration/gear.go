package integration

import (
	"context"
	"fmt"
	"strings"

	"github.com/deppfellow/gearguardian/internal/lib/strava"
	"github.com/deppfellow/gearguardian/internal/model"
)

// garminGearType maps Garmin's gearTypeName; only bikes are distinguished.
func garminGearType(name string) model.GearType {
	if name == "Bike" {
		return model.GearTypeBike
	}
	return model.GearTypeShoes
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// SyncGarminGear imports the Garmin gear the user does not have yet, turns
// on gear sync and reconciles Garmin activities. It returns the new gear.
func (s *Service) SyncGarminGear(ctx context.Context, userID int64) ([]model.Gear, error) {
	in, err := s.integrations.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	tok, err := s.garminToken(in)
	if err != nil {
		return nil, err
	}

	device, err := s.garmin.LastUsedDevice(ctx, tok)
	if err != nil {
		return nil, fmt.Errorf("garmin last used device: %w", err)
	}
	remote, err := s.garmin.Gear(ctx, tok, device.UserProfileNumber)
	if err != nil {
		return nil, fmt.Errorf("garmin gear: %w", err)
	}

	existing, err := s.gear.ListAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list gear: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for i := range existing {
		if id := existing[i].ExternalID(model.ProviderGarminConnect); id != "" {
			known[id] = true
		}
	}

	var fresh []model.Gear
	for _, g := range remote {
		if g.UUID == "" || known[g.UUID] {
			continue
		}
		known[g.UUID] = true

		uuid := g.UUID
		fresh = append(fresh, model.Gear{
			Brand:               optional(g.GearMakeName),
			Model:               optional(g.GearModelName),
			Nickname:            g.Name(),
			GearType:            garminGearType(g.GearTypeName),
			UserID:              userID,
			IsActive:            g.GearStatusName == "active",
			GarminConnectGearID: &uuid,
		})
	}

	created, err := s.storeGear(ctx, fresh)
	if err != nil {
		return nil, err
	}

	if err := s.integrations.SetGarminConnectSyncGear(ctx, userID, true); err != nil {
		return nil, fmt.Errorf("enable garmin gear sync: %w", err)
	}
	if _, err := s.SetActivitiesGear(ctx, userID, model.ProviderGarminConnect); err != nil {
		return nil, err
	}

	return created, nil
}

// SyncStravaGear imports the athlete's bikes and shoes not stored yet,
// turns on gear sync and reconciles Strava activities.
func (s *Service) SyncStravaGear(ctx context.Context, userID int64) ([]model.Gear, error) {
	in, err := s.integrations.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	token, err := s.stravaAccessToken(ctx, in)
	if err != nil {
		return nil, err
	}

	athlete, err := s.strava.Athlete(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("strava athlete: %w", err)
	}

	existing, err := s.gear.ListAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list gear: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for i := range existing {
		if id := existing[i].ExternalID(model.ProviderStrava); id != "" {
			known[id] = true
		}
	}

	var fresh []model.Gear
	collect := func(items []strava.SummaryGear, gearType model.GearType) {
		for _, item := range items {
			if item.ID == "" || known[item.ID] {
				continue
			}
			known[item.ID] = true
			fresh = append(fresh, s.stravaGear(ctx, token, userID, item, gearType))
		}
	}
	collect(athlete.Bikes, model.GearTypeBike)
	collect(athlete.Shoes, model.GearTypeShoes)

	created, err := s.storeGear(ctx, fresh)
	if err != nil {
		return nil, err
	}

	if err := s.integrations.SetStravaSyncGear(ctx, userID, true); err != nil {
		return nil, fmt.Errorf("enable strava gear sync: %w", err)
	}
	if _, err := s.SetActivitiesGear(ctx, userID, model.ProviderStrava); err != nil {
		return nil, err
	}

	return created, nil
}

// stravaGear builds a gear record, enriching it with brand and model from
// the detail endpoint when that call succeeds.
func (s *Service) stravaGear(ctx context.Context, token string, userID int64, item strava.SummaryGear, gearType model.GearType) model.Gear {
	id := item.ID
	g := model.Gear{
		Nickname:     item.Name,
		GearType:     gearType,
		UserID:       userID,
		IsActive:     !item.Retired,
		StravaGearID: &id,
	}

	detail, err := s.strava.Gear(ctx, token, item.ID)
	if err != nil {
		s.logger.Warn().Err(err).Str("strava_gear_id", item.ID).Msg("strava gear detail unavailable")
		return g
	}
	g.Brand = optional(detail.BrandName)
	g.Model = optional(detail.ModelName)
	if g.Nickname == "" {
		g.Nickname = detail.Name
	}
	return g
}

func (s *Service) storeGear(ctx context.Context, gears []model.Gear) ([]model.Gear, error) {
	if len(gears) == 0 {
		return nil, nil
	}
	created, err := s.gear.CreateMany(ctx, gears)
	if err != nil {
		return nil, fmt.Errorf("store gear: %w", err)
	}
	return created, nil
}
