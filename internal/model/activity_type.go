package model

import "strings"

// Activity types as stored in activities.activity_type.
const (
	ActivityTypeRun           = 1
	ActivityTypeTrailRun      = 2
	ActivityTypeVirtualRun    = 3
	ActivityTypeTrackRun      = 4
	ActivityTypeRide          = 7
	ActivityTypeGravelRide    = 8
	ActivityTypeMountainRide  = 9
	ActivityTypeVirtualRide   = 10
	ActivityTypeIndoorRide    = 11
	ActivityTypeEBikeRide     = 12
	ActivityTypeSwim          = 13
	ActivityTypeOpenWaterSwim = 14
	ActivityTypeWalk          = 15
	ActivityTypeHike          = 16
	ActivityTypeRowing        = 17
	ActivityTypeYoga          = 18
	ActivityTypeStrength      = 19
	ActivityTypeWorkout       = 20
)

var stravaActivityTypes = map[string]int{
	"run":               ActivityTypeRun,
	"trailrun":          ActivityTypeTrailRun,
	"virtualrun":        ActivityTypeVirtualRun,
	"ride":              ActivityTypeRide,
	"gravelride":        ActivityTypeGravelRide,
	"mountainbikeride":  ActivityTypeMountainRide,
	"virtualride":       ActivityTypeVirtualRide,
	"ebikeride":         ActivityTypeEBikeRide,
	"emountainbikeride": ActivityTypeEBikeRide,
	"swim":              ActivityTypeSwim,
	"walk":              ActivityTypeWalk,
	"hike":              ActivityTypeHike,
	"rowing":            ActivityTypeRowing,
	"yoga":              ActivityTypeYoga,
	"weighttraining":    ActivityTypeStrength,
	"workout":           ActivityTypeWorkout,
}

var garminActivityTypes = map[string]int{
	"running":             ActivityTypeRun,
	"trail_running":       ActivityTypeTrailRun,
	"treadmill_running":   ActivityTypeVirtualRun,
	"virtual_run":         ActivityTypeVirtualRun,
	"track_running":       ActivityTypeTrackRun,
	"cycling":             ActivityTypeRide,
	"road_biking":         ActivityTypeRide,
	"gravel_cycling":      ActivityTypeGravelRide,
	"mountain_biking":     ActivityTypeMountainRide,
	"virtual_ride":        ActivityTypeVirtualRide,
	"indoor_cycling":      ActivityTypeIndoorRide,
	"e_bike_fitness":      ActivityTypeEBikeRide,
	"lap_swimming":        ActivityTypeSwim,
	"open_water_swimming": ActivityTypeOpenWaterSwim,
	"walking":             ActivityTypeWalk,
	"hiking":              ActivityTypeHike,
	"indoor_rowing":       ActivityTypeRowing,
	"rowing":              ActivityTypeRowing,
	"yoga":                ActivityTypeYoga,
	"strength_training":   ActivityTypeStrength,
}

// StravaActivityType maps a Strava sport_type (or legacy type) to a stored
// activity type. Unknown values become a generic workout.
func StravaActivityType(sportType string) int {
	if t, ok := stravaActivityTypes[strings.ToLower(sportType)]; ok {
		return t
	}
	return ActivityTypeWorkout
}

// GarminActivityType maps a Garmin Connect typeKey.
func GarminActivityType(typeKey string) int {
	if t, ok := garminActivityTypes[strings.ToLower(typeKey)]; ok {
		return t
	}
	return ActivityTypeWorkout
}
