package integration

import (
	"context"
	"fmt"

	"github.com/deppfellow/gearguardian/internal/model"
	"github.com/deppfellow/gearguardian/internal/observability"
)

// Reconcile links activities to gear through the provider gear id. For each
// activity carrying a provider gear id, the first gear with the same id
// wins. It returns the activities whose gear actually changed and the
// number of activities that matched a gear. Unmatched activities are left
// untouched.
func Reconcile(activities []model.Activity, gears []model.Gear, provider model.Provider) ([]model.Activity, int) {
	if len(activities) == 0 || len(gears) == 0 {
		return nil, 0
	}

	byExternalID := make(map[string]int64, len(gears))
	for i := range gears {
		id := gears[i].ExternalID(provider)
		if id == "" {
			continue
		}
		if _, seen := byExternalID[id]; !seen {
			byExternalID[id] = gears[i].ID
		}
	}

	var changed []model.Activity
	matched := 0
	for i := range activities {
		external := activities[i].ExternalGearID(provider)
		if external == "" {
			continue
		}

		gearID, ok := byExternalID[external]
		if !ok {
			continue
		}
		matched++

		if activities[i].GearID != nil && *activities[i].GearID == gearID {
			continue
		}
		id := gearID
		activities[i].GearID = &id
		changed = append(changed, activities[i])
	}

	return changed, matched
}

// SetActivitiesGear reconciles the user's provider-tagged activities with
// their gear and stores every changed association in one transaction.
func (s *Service) SetActivitiesGear(ctx context.Context, userID int64, provider model.Provider) (int, error) {
	activities, err := s.activities.ListWithProviderGear(ctx, userID, provider)
	if err != nil {
		return 0, fmt.Errorf("list activities: %w", err)
	}
	if len(activities) == 0 {
		return 0, nil
	}

	gears, err := s.gear.ListAll(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("list gear: %w", err)
	}
	if len(gears) == 0 {
		return 0, nil
	}

	changed, matched := Reconcile(activities, gears, provider)
	if len(changed) > 0 {
		if err := s.activities.UpdateGearIDs(ctx, changed); err != nil {
			return 0, fmt.Errorf("store gear associations: %w", err)
		}
	}

	observability.RecordGearLinked(string(provider), len(changed))
	s.logger.Info().
		Int64("user_id", userID).
		Str("provider", string(provider)).
		Int("matched", matched).
		Int("changed", len(changed)).
		Msg("activities gear reconciled")

	return matched, nil
}
