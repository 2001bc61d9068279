package integration

import (
	"context"
	"time"

	"github.com/deppfellow/gearguardian/internal/errs"
	"github.com/deppfellow/gearguardian/internal/lib/garmin"
	"github.com/deppfellow/gearguardian/internal/lib/strava"
	"github.com/deppfellow/gearguardian/internal/model"
)

type fakeActivities struct {
	withGear []model.Activity
	known    map[int64]bool
	updated  [][]model.Activity
	created  []model.Activity
	streams  map[int][]model.ActivityStream
}

func (f *fakeActivities) ListWithProviderGear(_ context.Context, _ int64, _ model.Provider) ([]model.Activity, error) {
	out := make([]model.Activity, len(f.withGear))
	copy(out, f.withGear)
	return out, nil
}

func (f *fakeActivities) UpdateGearIDs(_ context.Context, activities []model.Activity) error {
	f.updated = append(f.updated, activities)
	return nil
}

func (f *fakeActivities) KnownProviderIDs(_ context.Context, _ model.Provider, _ []int64) (map[int64]bool, error) {
	if f.known == nil {
		return map[int64]bool{}, nil
	}
	return f.known, nil
}

func (f *fakeActivities) CreateWithStreams(_ context.Context, a *model.Activity, streams []model.ActivityStream) (*model.Activity, error) {
	if f.streams == nil {
		f.streams = map[int][]model.ActivityStream{}
	}
	a.ID = int64(len(f.created) + 1)
	f.streams[len(f.created)] = streams
	f.created = append(f.created, *a)
	return a, nil
}

type fakeGear struct {
	gears   []model.Gear
	created []model.Gear
}

func (f *fakeGear) ListAll(_ context.Context, _ int64) ([]model.Gear, error) {
	return f.gears, nil
}

func (f *fakeGear) CreateMany(_ context.Context, gears []model.Gear) ([]model.Gear, error) {
	for i := range gears {
		gears[i].ID = int64(100 + len(f.gears) + i)
	}
	f.created = append(f.created, gears...)
	f.gears = append(f.gears, gears...)
	return gears, nil
}

type fakeIntegrations struct {
	byUser        map[int64]*model.UserIntegration
	stravaTokens  map[int64]model.StravaTokens
	stravaSync    map[int64]bool
	garminSync    map[int64]bool
	expiringAfter time.Time
}

func newFakeIntegrations(items ...model.UserIntegration) *fakeIntegrations {
	f := &fakeIntegrations{
		byUser:       map[int64]*model.UserIntegration{},
		stravaTokens: map[int64]model.StravaTokens{},
		stravaSync:   map[int64]bool{},
		garminSync:   map[int64]bool{},
	}
	for i := range items {
		item := items[i]
		f.byUser[item.UserID] = &item
	}
	return f
}

func (f *fakeIntegrations) GetByUserID(_ context.Context, userID int64) (*model.UserIntegration, error) {
	in, ok := f.byUser[userID]
	if !ok {
		return &model.UserIntegration{UserID: userID}, nil
	}
	cp := *in
	return &cp, nil
}

func (f *fakeIntegrations) SetStravaTokens(_ context.Context, userID int64, tokens model.StravaTokens) error {
	f.stravaTokens[userID] = tokens
	return nil
}

func (f *fakeIntegrations) SetStravaSyncGear(_ context.Context, userID int64, enabled bool) error {
	f.stravaSync[userID] = enabled
	return nil
}

func (f *fakeIntegrations) SetGarminConnectSyncGear(_ context.Context, userID int64, enabled bool) error {
	f.garminSync[userID] = enabled
	return nil
}

func (f *fakeIntegrations) all(keep func(*model.UserIntegration) bool) []model.UserIntegration {
	var out []model.UserIntegration
	for _, in := range f.byUser {
		if keep(in) {
			out = append(out, *in)
		}
	}
	return out
}

func (f *fakeIntegrations) ListStravaLinked(_ context.Context) ([]model.UserIntegration, error) {
	return f.all(func(in *model.UserIntegration) bool { return in.StravaLinked() }), nil
}

func (f *fakeIntegrations) ListStravaExpiringBefore(_ context.Context, t time.Time) ([]model.UserIntegration, error) {
	f.expiringAfter = t
	return f.all(func(in *model.UserIntegration) bool {
		return in.StravaTokenExpiresAt != nil && in.StravaTokenExpiresAt.Before(t)
	}), nil
}

func (f *fakeIntegrations) ListGarminConnectLinked(_ context.Context) ([]model.UserIntegration, error) {
	return f.all(func(in *model.UserIntegration) bool { return in.GarminConnectLinked() }), nil
}

// fakeWeights applies the create-or-fill rule on a per-day map.
type fakeWeights struct {
	days map[string]model.HealthData
}

func (f *fakeWeights) AddWeight(_ context.Context, userID int64, data model.HealthData) (*model.HealthData, error) {
	if f.days == nil {
		f.days = map[string]model.HealthData{}
	}
	key := data.CreatedAt.Format("2006-01-02")
	if existing, ok := f.days[key]; ok && existing.Weight != nil {
		return nil, errs.NewConflictError("Weight already added to this day", true, nil)
	}
	data.UserID = userID
	f.days[key] = data
	return &data, nil
}

type fakeStrava struct {
	athlete    *strava.Athlete
	details    map[string]*strava.GearDetail
	activities []strava.Activity
	streams    map[int64]*strava.StreamSet
	refreshed  []string
	tokensUsed []string
}

func (f *fakeStrava) Refresh(_ context.Context, refreshToken string) (*model.StravaTokens, error) {
	f.refreshed = append(f.refreshed, refreshToken)
	return &model.StravaTokens{
		AccessToken:  "fresh-access",
		RefreshToken: "fresh-refresh",
		ExpiresAt:    time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}, nil
}

func (f *fakeStrava) Athlete(_ context.Context, token string) (*strava.Athlete, error) {
	f.tokensUsed = append(f.tokensUsed, token)
	return f.athlete, nil
}

func (f *fakeStrava) Gear(_ context.Context, _ string, id string) (*strava.GearDetail, error) {
	if d, ok := f.details[id]; ok {
		return d, nil
	}
	return nil, errs.NewNotFoundError("gear not found", false, nil)
}

func (f *fakeStrava) ActivitiesSince(_ context.Context, token string, _ time.Time) ([]strava.Activity, error) {
	f.tokensUsed = append(f.tokensUsed, token)
	return f.activities, nil
}

func (f *fakeStrava) Streams(_ context.Context, _ string, activityID int64) (*strava.StreamSet, error) {
	return f.streams[activityID], nil
}

type fakeGarmin struct {
	profile      int64
	gear         []garmin.Gear
	activityGear map[int64][]garmin.Gear
	activities   []garmin.Activity
	weights      []garmin.WeightSample
}

func (f *fakeGarmin) LastUsedDevice(_ context.Context, _ *garmin.Token) (*garmin.Device, error) {
	return &garmin.Device{UserProfileNumber: f.profile}, nil
}

func (f *fakeGarmin) Gear(_ context.Context, _ *garmin.Token, _ int64) ([]garmin.Gear, error) {
	return f.gear, nil
}

func (f *fakeGarmin) ActivityGear(_ context.Context, _ *garmin.Token, activityID int64) ([]garmin.Gear, error) {
	return f.activityGear[activityID], nil
}

func (f *fakeGarmin) ActivitiesSince(_ context.Context, _ *garmin.Token, _ time.Time) ([]garmin.Activity, error) {
	return f.activities, nil
}

func (f *fakeGarmin) Weights(_ context.Context, _ *garmin.Token, _, _ time.Time) ([]garmin.WeightSample, error) {
	return f.weights, nil
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }
