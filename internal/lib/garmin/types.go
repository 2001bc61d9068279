package garmin

import (
	"strings"
	"time"
)

type Device struct {
	UserDeviceID       int64  `json:"userDeviceId"`
	UserProfileNumber  int64  `json:"userProfileNumber"`
	LastUsedDeviceName string `json:"lastUsedDeviceName"`
}

type Gear struct {
	UUID            string `json:"uuid"`
	DisplayName     string `json:"displayName"`
	CustomMakeModel string `json:"customMakeModel"`
	GearMakeName    string `json:"gearMakeName"`
	GearModelName   string `json:"gearModelName"`
	GearTypeName    string `json:"gearTypeName"`
	GearStatusName  string `json:"gearStatusName"`
}

// Name is the label shown for the gear in Garmin Connect.
func (g Gear) Name() string {
	switch {
	case g.DisplayName != "":
		return g.DisplayName
	case g.CustomMakeModel != "":
		return g.CustomMakeModel
	default:
		return strings.TrimSpace(g.GearMakeName + " " + g.GearModelName)
	}
}

type ActivityType struct {
	TypeKey string `json:"typeKey"`
}

// Timestamp parses the "2006-01-02 15:04:05" GMT timestamps of the
// activity list.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	parsed, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		return err
	}
	t.Time = parsed.UTC()
	return nil
}

type Activity struct {
	ActivityID      int64        `json:"activityId"`
	ActivityName    string       `json:"activityName"`
	Description     *string      `json:"description"`
	StartTimeGMT    Timestamp    `json:"startTimeGMT"`
	ActivityType    ActivityType `json:"activityType"`
	Distance        float64      `json:"distance"`
	Duration        float64      `json:"duration"`
	ElapsedDuration float64      `json:"elapsedDuration"`
	MovingDuration  float64      `json:"movingDuration"`
	ElevationGain   *float64     `json:"elevationGain"`
	ElevationLoss   *float64     `json:"elevationLoss"`
	AverageSpeed    *float64     `json:"averageSpeed"`
	AvgPower        *float64     `json:"avgPower"`
	Calories        *float64     `json:"calories"`
}

// WeightSample is one body-composition entry. Weight and the masses are
// reported in grams.
type WeightSample struct {
	SamplePK     int64    `json:"samplePk"`
	CalendarDate string   `json:"calendarDate"`
	Weight       *float64 `json:"weight"`
	BMI          *float64 `json:"bmi"`
	BodyFat      *float64 `json:"bodyFat"`
	BodyWater    *float64 `json:"bodyWater"`
	BoneMass     *float64 `json:"boneMass"`
	MuscleMass   *float64 `json:"muscleMass"`
}

type weightRange struct {
	DateWeightList []WeightSample `json:"dateWeightList"`
}
