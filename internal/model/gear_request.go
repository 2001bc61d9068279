package model

import "github.com/deppfellow/gearguardian/internal/validation"

type GearNicknameRequest struct {
	Nickname string `param:"nickname" validate:"required,max=250"`
}

func (r *GearNicknameRequest) Validate() error { return validation.Struct(r) }

type GearTypeRequest struct {
	GearType GearType `param:"gear_type" validate:"oneof=1 2 3"`
}

func (r *GearTypeRequest) Validate() error { return validation.Struct(r) }

type CreateGearRequest struct {
	Brand               *string  `json:"brand" validate:"omitempty,max=250"`
	Model               *string  `json:"model" validate:"omitempty,max=250"`
	Nickname            string   `json:"nickname" validate:"required,max=250"`
	GearType            GearType `json:"gear_type" validate:"oneof=1 2 3"`
	IsActive            *bool    `json:"is_active"`
	StravaGearID        *string  `json:"strava_gear_id" validate:"omitempty,max=45"`
	GarminConnectGearID *string  `json:"garminconnect_gear_id" validate:"omitempty,max=45"`
}

func (r *CreateGearRequest) Validate() error { return validation.Struct(r) }

type UpdateGearRequest struct {
	ID int64 `param:"id" json:"-" validate:"required,gte=1"`
	CreateGearRequest
}

func (r *UpdateGearRequest) Validate() error { return validation.Struct(r) }
