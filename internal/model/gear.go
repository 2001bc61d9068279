package model

import "time"

type GearType int16

const (
	GearTypeBike    GearType = 1
	GearTypeShoes   GearType = 2
	GearTypeWetsuit GearType = 3
)

type Gear struct {
	ID                  int64     `json:"id" db:"id"`
	Brand               *string   `json:"brand" db:"brand"`
	Model               *string   `json:"model" db:"model"`
	Nickname            string    `json:"nickname" db:"nickname"`
	GearType            GearType  `json:"gear_type" db:"gear_type"`
	UserID              int64     `json:"user_id" db:"user_id"`
	IsActive            bool      `json:"is_active" db:"is_active"`
	StravaGearID        *string   `json:"strava_gear_id" db:"strava_gear_id"`
	GarminConnectGearID *string   `json:"garminconnect_gear_id" db:"garminconnect_gear_id"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
}

// Provider identifies which external id links activities to gear.
type Provider string

const (
	ProviderStrava        Provider = "strava"
	ProviderGarminConnect Provider = "garminconnect"
)

// ExternalID returns the gear's id at the provider, or "" when unset.
func (g *Gear) ExternalID(p Provider) string {
	switch p {
	case ProviderStrava:
		return deref(g.StravaGearID)
	case ProviderGarminConnect:
		return deref(g.GarminConnectGearID)
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
