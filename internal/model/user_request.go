package model

import "github.com/deppfellow/gearguardian/internal/validation"

type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required,max=45"`
	Password string `json:"password" form:"password" validate:"required,max=72"`
}

func (r *LoginRequest) Validate() error { return validation.Struct(r) }

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int64    `json:"expires_in"`
	Scopes      []string `json:"scopes"`
}

type CreateUserRequest struct {
	Name              string     `json:"name" validate:"required,max=250"`
	Username          string     `json:"username" validate:"required,min=3,max=45"`
	Email             string     `json:"email" validate:"required,email,max=250"`
	Password          string     `json:"password" validate:"required,min=8,max=72"`
	City              *string    `json:"city" validate:"omitempty,max=250"`
	Birthdate         *Date      `json:"birthdate"`
	PreferredLanguage string     `json:"preferred_language" validate:"omitempty,oneof=en pt ca de fr nl es"`
	Gender            int16      `json:"gender" validate:"oneof=1 2 3"`
	AccessType        AccessType `json:"access_type" validate:"oneof=1 2"`
	Height            *int       `json:"height" validate:"omitempty,gte=50,lte=260"`
}

func (r *CreateUserRequest) Validate() error { return validation.Struct(r) }
