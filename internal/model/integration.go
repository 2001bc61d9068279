package model

import (
	"encoding/json"
	"time"

	gojson "github.com/goccy/go-json"
)

// UserIntegration stores a user's third-party links. Strava uses plain
// OAuth2 tokens; Garmin Connect tokens are opaque documents produced by the
// client-side login and stored as-is.
type UserIntegration struct {
	ID                    int64           `json:"id" db:"id"`
	UserID                int64           `json:"user_id" db:"user_id"`
	StravaState           *string         `json:"-" db:"strava_state"`
	StravaToken           *string         `json:"-" db:"strava_token"`
	StravaRefreshToken    *string         `json:"-" db:"strava_refresh_token"`
	StravaTokenExpiresAt  *time.Time      `json:"strava_token_expires_at" db:"strava_token_expires_at"`
	StravaSyncGear        bool            `json:"strava_sync_gear" db:"strava_sync_gear"`
	GarminConnectOAuth1   json.RawMessage `json:"-" db:"garminconnect_oauth1"`
	GarminConnectOAuth2   json.RawMessage `json:"-" db:"garminconnect_oauth2"`
	GarminConnectSyncGear bool            `json:"garminconnect_sync_gear" db:"garminconnect_sync_gear"`
	UpdatedAt             time.Time       `json:"updated_at" db:"updated_at"`
}

// MarshalJSON adds the computed linked flags; the tokens themselves are
// never serialized.
func (i UserIntegration) MarshalJSON() ([]byte, error) {
	type integration UserIntegration
	return gojson.Marshal(struct {
		integration
		StravaLinked        bool `json:"strava_linked"`
		GarminConnectLinked bool `json:"garminconnect_linked"`
	}{
		integration:         integration(i),
		StravaLinked:        i.StravaLinked(),
		GarminConnectLinked: i.GarminConnectLinked(),
	})
}

func (i *UserIntegration) StravaLinked() bool {
	return i != nil && i.StravaToken != nil && *i.StravaToken != ""
}

func (i *UserIntegration) GarminConnectLinked() bool {
	return i != nil && len(i.GarminConnectOAuth2) > 0 && string(i.GarminConnectOAuth2) != "null"
}

// StravaTokens is a refreshed Strava token triple.
type StravaTokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}
