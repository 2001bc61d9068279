package model

import (
	"encoding/json"
	"time"
)

type Visibility int16

const (
	VisibilityPublic    Visibility = 0
	VisibilityFollowers Visibility = 1
	VisibilityPrivate   Visibility = 2
)

type Activity struct {
	ID                      int64      `json:"id" db:"id"`
	UserID                  int64      `json:"user_id" db:"user_id"`
	Name                    *string    `json:"name" db:"name"`
	Distance                int        `json:"distance" db:"distance"`
	Description             *string    `json:"description" db:"description"`
	ActivityType            int        `json:"activity_type" db:"activity_type"`
	StartTime               time.Time  `json:"start_time" db:"start_time"`
	EndTime                 time.Time  `json:"end_time" db:"end_time"`
	Timezone                *string    `json:"timezone" db:"timezone"`
	TotalElapsedTime        *float64   `json:"total_elapsed_time" db:"total_elapsed_time"`
	TotalTimerTime          *float64   `json:"total_timer_time" db:"total_timer_time"`
	ElevationGain           *int       `json:"elevation_gain" db:"elevation_gain"`
	ElevationLoss           *int       `json:"elevation_loss" db:"elevation_loss"`
	Pace                    *float64   `json:"pace" db:"pace"`
	AverageSpeed            *float64   `json:"average_speed" db:"average_speed"`
	AveragePower            *int       `json:"average_power" db:"average_power"`
	Calories                *int       `json:"calories" db:"calories"`
	Visibility              Visibility `json:"visibility" db:"visibility"`
	GearID                  *int64     `json:"gear_id" db:"gear_id"`
	StravaGearID            *string    `json:"strava_gear_id" db:"strava_gear_id"`
	StravaActivityID        *int64     `json:"strava_activity_id" db:"strava_activity_id"`
	GarminConnectActivityID *int64     `json:"garminconnect_activity_id" db:"garminconnect_activity_id"`
	GarminConnectGearID     *string    `json:"garminconnect_gear_id" db:"garminconnect_gear_id"`
	CreatedAt               time.Time  `json:"created_at" db:"created_at"`
}

// ExternalGearID returns the provider gear id recorded on the activity.
func (a *Activity) ExternalGearID(p Provider) string {
	switch p {
	case ProviderStrava:
		return deref(a.StravaGearID)
	case ProviderGarminConnect:
		return deref(a.GarminConnectGearID)
	}
	return ""
}

// ReadableBy reports whether userID may see the activity.
func (a *Activity) ReadableBy(userID int64) bool {
	return a.UserID == userID || a.Visibility == VisibilityPublic
}

type StreamType int16

const (
	StreamTypeHeartRate StreamType = 1
	StreamTypePower     StreamType = 2
	StreamTypeCadence   StreamType = 3
	StreamTypeElevation StreamType = 4
	StreamTypeVelocity  StreamType = 5
	StreamTypePace      StreamType = 6
	StreamTypeLatLon    StreamType = 7
)

// ActivityStream holds one sampled series of an activity. Waypoints are
// stored as a JSON array whose element shape depends on the stream type.
type ActivityStream struct {
	ID                     int64           `json:"id" db:"id"`
	ActivityID             int64           `json:"activity_id" db:"activity_id"`
	StreamType             StreamType      `json:"stream_type" db:"stream_type"`
	StreamWaypoints        json.RawMessage `json:"stream_waypoints" db:"stream_waypoints"`
	StravaActivityStreamID *int64          `json:"strava_activity_stream_id" db:"strava_activity_stream_id"`
}
