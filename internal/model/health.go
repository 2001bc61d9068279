package model

import (
	"math"
	"time"
)

// HealthData is one day of body measurements for a user.
type HealthData struct {
	ID                             int64     `json:"id" db:"id"`
	UserID                         int64     `json:"user_id" db:"user_id"`
	CreatedAt                      time.Time `json:"created_at" db:"created_at"`
	Weight                         *float64  `json:"weight" db:"weight"`
	BMI                            *float64  `json:"bmi" db:"bmi"`
	BodyFat                        *float64  `json:"body_fat" db:"body_fat"`
	BodyWater                      *float64  `json:"body_water" db:"body_water"`
	BoneMass                       *float64  `json:"bone_mass" db:"bone_mass"`
	MuscleMass                     *float64  `json:"muscle_mass" db:"muscle_mass"`
	GarminConnectBodyCompositionID *string   `json:"garminconnect_body_composition_id" db:"garminconnect_body_composition_id"`
}

// CalculateBMI returns weight / height² with height in centimetres, or nil
// when either value is unknown.
func CalculateBMI(weightKg *float64, heightCm *int) *float64 {
	if weightKg == nil || heightCm == nil || *heightCm <= 0 {
		return nil
	}
	h := float64(*heightCm) / 100
	bmi := math.Round(*weightKg/(h*h)*100) / 100
	return &bmi
}
