// Package strava is a small client for the Strava v3 REST API and its
// OAuth2 token endpoint.
package strava

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/deppfellow/gearguardian/internal/config"
	"github.com/deppfellow/gearguardian/internal/lib/upstream"
	"github.com/deppfellow/gearguardian/internal/model"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

const (
	providerName = "strava"

	// DefaultPerPage is the page size used when paging through activities.
	DefaultPerPage = 100

	streamKeys = "time,heartrate,watts,cadence,altitude,velocity_smooth,latlng"
)

var scopes = []string{"read", "read_all", "profile:read_all", "activity:read", "activity:read_all"}

type Client struct {
	api   *upstream.Client
	oauth *oauth2.Config
	// httpClient is used for token requests so tests can swap transports.
	httpClient *http.Client
}

func NewClient(cfg config.StravaConfig, logger *zerolog.Logger) *Client {
	httpClient := &http.Client{Timeout: 30 * time.Second}

	return &Client{
		api: upstream.New(upstream.Options{
			Provider:      providerName,
			BaseURL:       cfg.BaseURL,
			RatePerSecond: cfg.RateLimit,
			HTTPClient:    httpClient,
			Logger:        logger,
		}),
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: httpClient,
	}
}

// AuthCodeURL is where the user is sent to authorize the application.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("approval_prompt", "force"))
}

// Exchange trades an authorization code for a token triple.
func (c *Client) Exchange(ctx context.Context, code string) (*model.StravaTokens, error) {
	tok, err := c.oauth.Exchange(c.tokenContext(ctx), code)
	if err != nil {
		return nil, fmt.Errorf("strava: exchange code: %w", err)
	}
	return toTokens(tok)
}

// Refresh obtains a new access token from a refresh token. Strava may
// rotate the refresh token, so the full triple is returned.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*model.StravaTokens, error) {
	src := c.oauth.TokenSource(c.tokenContext(ctx), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("strava: refresh token: %w", err)
	}
	if tok.RefreshToken == "" {
		tok.RefreshToken = refreshToken
	}
	return toTokens(tok)
}

func (c *Client) tokenContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

func toTokens(tok *oauth2.Token) (*model.StravaTokens, error) {
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("strava: token response without access token")
	}

	expiresAt := tok.Expiry
	// Strava also sends an absolute expires_at; prefer it when present.
	if raw, ok := tok.Extra("expires_at").(float64); ok && raw > 0 {
		expiresAt = time.Unix(int64(raw), 0)
	}

	return &model.StravaTokens{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    expiresAt.UTC(),
	}, nil
}

// Athlete returns the authenticated athlete with their gear summaries.
func (c *Client) Athlete(ctx context.Context, token string) (*Athlete, error) {
	var athlete Athlete
	if err := c.api.GetJSON(ctx, "/athlete", nil, token, &athlete); err != nil {
		return nil, err
	}
	return &athlete, nil
}

// Gear returns the detailed record of one gear item.
func (c *Client) Gear(ctx context.Context, token, id string) (*GearDetail, error) {
	var gear GearDetail
	if err := c.api.GetJSON(ctx, "/gear/"+url.PathEscape(id), nil, token, &gear); err != nil {
		return nil, err
	}
	return &gear, nil
}

// Activities returns one page of activities started after the given time.
func (c *Client) Activities(ctx context.Context, token string, after time.Time, page, perPage int) ([]Activity, error) {
	query := url.Values{
		"after":    {strconv.FormatInt(after.Unix(), 10)},
		"page":     {strconv.Itoa(page)},
		"per_page": {strconv.Itoa(perPage)},
	}

	var activities []Activity
	if err := c.api.GetJSON(ctx, "/athlete/activities", query, token, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// ActivitiesSince pages through every activity started after the given time.
func (c *Client) ActivitiesSince(ctx context.Context, token string, after time.Time) ([]Activity, error) {
	var all []Activity
	for page := 1; ; page++ {
		batch, err := c.Activities(ctx, token, after, page, DefaultPerPage)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < DefaultPerPage {
			return all, nil
		}
	}
}

// Streams returns the sampled series of an activity keyed by type.
func (c *Client) Streams(ctx context.Context, token string, activityID int64) (*StreamSet, error) {
	query := url.Values{
		"keys":        {streamKeys},
		"key_by_type": {"true"},
	}

	var streams StreamSet
	path := "/activities/" + strconv.FormatInt(activityID, 10) + "/streams"
	if err := c.api.GetJSON(ctx, path, query, token, &streams); err != nil {
		return nil, err
	}
	return &streams, nil
}
