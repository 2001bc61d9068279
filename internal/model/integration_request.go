package model

import (
	"encoding/json"

	"github.com/deppfellow/gearguardian/internal/validation"
)

type StravaCallbackRequest struct {
	Code  string `query:"code" validate:"required"`
	State string `query:"state" validate:"required"`
	Scope string `query:"scope"`
}

func (r *StravaCallbackRequest) Validate() error { return validation.Struct(r) }

// StravaLinkResponse carries the authorization URL the client opens.
type StravaLinkResponse struct {
	URL string `json:"url"`
}

// GarminConnectLinkRequest holds the token documents produced by the
// client-side Garmin Connect login.
type GarminConnectLinkRequest struct {
	OAuth1 json.RawMessage `json:"oauth1"`
	OAuth2 json.RawMessage `json:"oauth2"`
}

func (r *GarminConnectLinkRequest) Validate() error {
	var errs validation.CustomValidationErrors
	if !isJSONObject(r.OAuth1) {
		errs = append(errs, validation.CustomValidationError{Field: "oauth1", Message: "must be a JSON object"})
	}
	if !isJSONObject(r.OAuth2) {
		errs = append(errs, validation.CustomValidationError{Field: "oauth2", Message: "must be a JSON object"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func isJSONObject(raw json.RawMessage) bool {
	var v map[string]any
	return len(raw) > 0 && json.Unmarshal(raw, &v) == nil && v != nil
}

type ImportDaysRequest struct {
	Days int `param:"days" validate:"gte=1,lte=365"`
}

func (r *ImportDaysRequest) Validate() error { return validation.Struct(r) }

// QueuedResponse acknowledges an enqueued import.
type QueuedResponse struct {
	Queued bool   `json:"queued"`
	Task   string `json:"task"`
}
