package strava

import "time"

type Athlete struct {
	ID        int64         `json:"id"`
	Username  string        `json:"username"`
	FirstName string        `json:"firstname"`
	LastName  string        `json:"lastname"`
	Bikes     []SummaryGear `json:"bikes"`
	Shoes     []SummaryGear `json:"shoes"`
}

type SummaryGear struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Primary  bool    `json:"primary"`
	Retired  bool    `json:"retired"`
	Distance float64 `json:"distance"`
}

type GearDetail struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	BrandName   string `json:"brand_name"`
	ModelName   string `json:"model_name"`
	Description string `json:"description"`
	Retired     bool   `json:"retired"`
}

// Activity is the summary representation returned by /athlete/activities.
type Activity struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Type               string    `json:"type"`
	SportType          string    `json:"sport_type"`
	Distance           float64   `json:"distance"`
	MovingTime         int       `json:"moving_time"`
	ElapsedTime        int       `json:"elapsed_time"`
	TotalElevationGain float64   `json:"total_elevation_gain"`
	StartDate          time.Time `json:"start_date"`
	Timezone           string    `json:"timezone"`
	AverageSpeed       float64   `json:"average_speed"`
	AverageWatts       *float64  `json:"average_watts"`
	Kilojoules         *float64  `json:"kilojoules"`
	GearID             *string   `json:"gear_id"`
	Private            bool      `json:"private"`
	Visibility         string    `json:"visibility"`
}

// NumberStream is a numeric series aligned with the time stream.
type NumberStream struct {
	Data []float64 `json:"data"`
}

type LatLngStream struct {
	Data [][2]float64 `json:"data"`
}

// StreamSet is the response of the streams endpoint with key_by_type=true.
// Absent series are nil.
type StreamSet struct {
	Time           *NumberStream `json:"time"`
	HeartRate      *NumberStream `json:"heartrate"`
	Watts          *NumberStream `json:"watts"`
	Cadence        *NumberStream `json:"cadence"`
	Altitude       *NumberStream `json:"altitude"`
	VelocitySmooth *NumberStream `json:"velocity_smooth"`
	LatLng         *LatLngStream `json:"latlng"`
}
