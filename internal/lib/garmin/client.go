// Package garmin reads activities, gear and body composition from Garmin
// Connect using the OAuth2 token document produced by the client-side
// Garmin login.
package garmin

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/deppfellow/gearguardian/internal/config"
	"github.com/deppfellow/gearguardian/internal/lib/upstream"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

const (
	providerName = "garminconnect"
	dateLayout   = "2006-01-02"
	pageSize     = 100
)

// ErrTokenExpired means the stored token can no longer be used and the
// user has to link Garmin Connect again.
var ErrTokenExpired = errors.New("garminconnect: oauth2 token expired")

// Token is the subset of the stored OAuth2 document the client needs.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
}

// ParseToken decodes the stored OAuth2 document and rejects tokens that
// expired before now.
func ParseToken(doc json.RawMessage, now time.Time) (*Token, error) {
	var tok Token
	if err := json.Unmarshal(doc, &tok); err != nil {
		return nil, fmt.Errorf("garminconnect: decode oauth2 token: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("garminconnect: oauth2 token without access_token")
	}
	if tok.ExpiresAt > 0 && time.Unix(tok.ExpiresAt, 0).Before(now) {
		return nil, ErrTokenExpired
	}
	return &tok, nil
}

type Client struct {
	api *upstream.Client
}

func NewClient(cfg config.GarminConnectConfig, logger *zerolog.Logger) *Client {
	return &Client{
		api: upstream.New(upstream.Options{
			Provider:      providerName,
			BaseURL:       cfg.BaseURL,
			RatePerSecond: cfg.RateLimit,
			Logger:        logger,
		}),
	}
}

// LastUsedDevice identifies the user's profile number.
func (c *Client) LastUsedDevice(ctx context.Context, tok *Token) (*Device, error) {
	var device Device
	if err := c.api.GetJSON(ctx, "/device-service/deviceservice/mylastused", nil, tok.AccessToken, &device); err != nil {
		return nil, err
	}
	return &device, nil
}

// Gear lists all gear registered on a user profile.
func (c *Client) Gear(ctx context.Context, tok *Token, userProfilePK int64) ([]Gear, error) {
	query := url.Values{"userProfilePk": {strconv.FormatInt(userProfilePK, 10)}}

	var gear []Gear
	if err := c.api.GetJSON(ctx, "/gear-service/gear/filterGear", query, tok.AccessToken, &gear); err != nil {
		return nil, err
	}
	return gear, nil
}

// ActivityGear lists the gear recorded on one activity.
func (c *Client) ActivityGear(ctx context.Context, tok *Token, activityID int64) ([]Gear, error) {
	query := url.Values{"activityId": {strconv.FormatInt(activityID, 10)}}

	var gear []Gear
	if err := c.api.GetJSON(ctx, "/gear-service/gear/filterGear", query, tok.AccessToken, &gear); err != nil {
		return nil, err
	}
	return gear, nil
}

// ActivitiesSince pages through activities started on or after the day of start.
func (c *Client) ActivitiesSince(ctx context.Context, tok *Token, start time.Time) ([]Activity, error) {
	var all []Activity
	for offset := 0; ; offset += pageSize {
		query := url.Values{
			"startDate": {start.Format(dateLayout)},
			"start":     {strconv.Itoa(offset)},
			"limit":     {strconv.Itoa(pageSize)},
		}

		var batch []Activity
		err := c.api.GetJSON(ctx, "/activitylist-service/activities/search/activities", query, tok.AccessToken, &batch)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < pageSize {
			return all, nil
		}
	}
}

// Weights returns the body-composition samples between two days, inclusive.
func (c *Client) Weights(ctx context.Context, tok *Token, start, end time.Time) ([]WeightSample, error) {
	query := url.Values{
		"startDate": {start.Format(dateLayout)},
		"endDate":   {end.Format(dateLayout)},
	}

	var resp weightRange
	if err := c.api.GetJSON(ctx, "/weight-service/weight/dateRange", query, tok.AccessToken, &resp); err != nil {
		return nil, err
	}
	return resp.DateWeightList, nil
}
