package model

import "github.com/deppfellow/gearguardian/internal/validation"

type CreateHealthDataRequest struct {
	CreatedAt  Date     `json:"created_at"`
	Weight     *float64 `json:"weight" validate:"omitempty,gt=0,lte=500"`
	BodyFat    *float64 `json:"body_fat" validate:"omitempty,gte=0,lte=100"`
	BodyWater  *float64 `json:"body_water" validate:"omitempty,gte=0,lte=100"`
	BoneMass   *float64 `json:"bone_mass" validate:"omitempty,gte=0"`
	MuscleMass *float64 `json:"muscle_mass" validate:"omitempty,gte=0"`
}

func (r *CreateHealthDataRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	if r.CreatedAt.IsZero() {
		return validation.CustomValidationErrors{{Field: "created_at", Message: "is required"}}
	}
	return nil
}

type WeightRequest struct {
	CreatedAt Date    `json:"created_at"`
	Weight    float64 `json:"weight" validate:"required,gt=0,lte=500"`
}

func (r *WeightRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	if r.CreatedAt.IsZero() {
		return validation.CustomValidationErrors{{Field: "created_at", Message: "is required"}}
	}
	return nil
}

// UpdateWeightRequest carries the owner in the body; it must match the
// authenticated user.
type UpdateWeightRequest struct {
	ID     int64   `param:"id" json:"-" validate:"required,gte=1"`
	UserID int64   `json:"user_id" validate:"required,gte=1"`
	Weight float64 `json:"weight" validate:"required,gt=0,lte=500"`
}

func (r *UpdateWeightRequest) Validate() error { return validation.Struct(r) }
