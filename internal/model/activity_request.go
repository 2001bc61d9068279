package model

import (
	"time"

	"github.com/deppfellow/gearguardian/internal/validation"
)

// ActivityWeekRequest selects a user's activities in one ISO week,
// counted back from the current week (0 is this week).
type ActivityWeekRequest struct {
	UserID int64 `param:"user_id" validate:"required,gte=1"`
	Week   int   `param:"week" validate:"gte=0,lte=520"`
}

func (r *ActivityWeekRequest) Validate() error { return validation.Struct(r) }

type CreateActivityRequest struct {
	Name             *string    `json:"name" validate:"omitempty,max=250"`
	Distance         int        `json:"distance" validate:"gte=0"`
	Description      *string    `json:"description" validate:"omitempty,max=2500"`
	ActivityType     int        `json:"activity_type" validate:"required,gte=1"`
	StartTime        time.Time  `json:"start_time" validate:"required"`
	EndTime          time.Time  `json:"end_time" validate:"required,gtfield=StartTime"`
	Timezone         *string    `json:"timezone" validate:"omitempty,max=250"`
	TotalElapsedTime *float64   `json:"total_elapsed_time" validate:"omitempty,gte=0"`
	TotalTimerTime   *float64   `json:"total_timer_time" validate:"omitempty,gte=0"`
	ElevationGain    *int       `json:"elevation_gain" validate:"omitempty,gte=0"`
	ElevationLoss    *int       `json:"elevation_loss" validate:"omitempty,gte=0"`
	Pace             *float64   `json:"pace" validate:"omitempty,gte=0"`
	AverageSpeed     *float64   `json:"average_speed" validate:"omitempty,gte=0"`
	AveragePower     *int       `json:"average_power" validate:"omitempty,gte=0"`
	Calories         *int       `json:"calories" validate:"omitempty,gte=0"`
	Visibility       Visibility `json:"visibility" validate:"oneof=0 1 2"`
	GearID           *int64     `json:"gear_id" validate:"omitempty,gte=1"`
}

func (r *CreateActivityRequest) Validate() error { return validation.Struct(r) }

// ActivityGearRequest addresses the gear of one activity.
type ActivityGearRequest struct {
	ActivityID int64 `param:"id" validate:"required,gte=1"`
	GearID     int64 `param:"gear_id" validate:"required,gte=1"`
}

func (r *ActivityGearRequest) Validate() error { return validation.Struct(r) }

type StreamByTypeRequest struct {
	ActivityID int64      `param:"id" validate:"required,gte=1"`
	StreamType StreamType `param:"stream_type" validate:"gte=1,lte=7"`
}

func (r *StreamByTypeRequest) Validate() error { return validation.Struct(r) }
