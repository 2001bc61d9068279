package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/deppfellow/gearguardian/internal/errs"
	"github.com/deppfellow/gearguardian/internal/model"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
)

// statusOf returns the HTTP status carried by err, or 0.
func statusOf(err error) int {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	return 0
}

type fakeUsers struct {
	byID map[int64]*model.User
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeTokens struct {
	mu   sync.Mutex
	rows map[string]*model.AccessToken
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{rows: map[string]*model.AccessToken{}}
}

func (f *fakeTokens) Create(_ context.Context, t *model.AccessToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[t.TokenID] = t
	return nil
}

func (f *fakeTokens) Get(_ context.Context, tokenID string) (*model.AccessToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.rows[tokenID]; ok {
		return t, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTokens) Delete(_ context.Context, userID int64, tokenID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.rows[tokenID]; ok && t.UserID == userID {
		delete(f.rows, tokenID)
	}
	return nil
}

func (f *fakeTokens) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, t := range f.rows {
		if t.ExpiresAt.Before(now) {
			delete(f.rows, id)
			n++
		}
	}
	return n, nil
}

type fakeHealth struct {
	rows   []model.HealthData
	nextID int64
}

func (f *fakeHealth) Count(_ context.Context, userID int64) (int64, error) {
	var n int64
	for _, r := range f.rows {
		if r.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeHealth) ListAll(_ context.Context, userID int64) ([]model.HealthData, error) {
	var out []model.HealthData
	for _, r := range f.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeHealth) List(ctx context.Context, userID int64, _ model.Page) ([]model.HealthData, error) {
	return f.ListAll(ctx, userID)
}

func (f *fakeHealth) GetByDate(_ context.Context, userID int64, day time.Time) (*model.HealthData, error) {
	for i := range f.rows {
		r := f.rows[i]
		if r.UserID == userID && r.CreatedAt.Format(time.DateOnly) == day.Format(time.DateOnly) {
			return &r, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeHealth) GetByID(_ context.Context, userID, id int64) (*model.HealthData, error) {
	for i := range f.rows {
		if f.rows[i].UserID == userID && f.rows[i].ID == id {
			r := f.rows[i]
			return &r, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeHealth) Create(_ context.Context, data *model.HealthData) (*model.HealthData, error) {
	f.nextID++
	data.ID = f.nextID
	f.rows = append(f.rows, *data)
	return data, nil
}

func (f *fakeHealth) UpdateWeight(_ context.Context, userID, id int64, weight, bmi *float64) (*model.HealthData, error) {
	for i := range f.rows {
		if f.rows[i].UserID == userID && f.rows[i].ID == id {
			f.rows[i].Weight = weight
			f.rows[i].BMI = bmi
			r := f.rows[i]
			return &r, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeHealth) FillWeight(_ context.Context, userID, id int64, data *model.HealthData) (*model.HealthData, error) {
	for i := range f.rows {
		row := &f.rows[i]
		if row.UserID != userID || row.ID != id {
			continue
		}
		row.Weight, row.BMI = data.Weight, data.BMI
		for _, p := range []struct{ dst, src **float64 }{
			{&row.BodyFat, &data.BodyFat},
			{&row.BodyWater, &data.BodyWater},
			{&row.BoneMass, &data.BoneMass},
			{&row.MuscleMass, &data.MuscleMass},
		} {
			if *p.src != nil {
				*p.dst = *p.src
			}
		}
		if data.GarminConnectBodyCompositionID != nil {
			row.GarminConnectBodyCompositionID = data.GarminConnectBodyCompositionID
		}
		r := *row
		return &r, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeHealth) Delete(_ context.Context, userID, id int64) error {
	for i := range f.rows {
		if f.rows[i].UserID == userID && f.rows[i].ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeActivities struct {
	byID    map[int64]*model.Activity
	between []model.Activity
	from    time.Time
	to      time.Time
}

func (f *fakeActivities) Count(_ context.Context, userID int64) (int64, error) {
	var n int64
	for _, a := range f.byID {
		if a.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeActivities) List(_ context.Context, userID int64, _ model.Page) ([]model.Activity, error) {
	var out []model.Activity
	for _, a := range f.byID {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeActivities) ListBetween(_ context.Context, _ int64, from, to time.Time) ([]model.Activity, error) {
	f.from, f.to = from, to
	return f.between, nil
}

func (f *fakeActivities) ListByGear(_ context.Context, userID, gearID int64) ([]model.Activity, error) {
	var out []model.Activity
	for _, a := range f.byID {
		if a.UserID == userID && a.GearID != nil && *a.GearID == gearID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeActivities) GetByID(_ context.Context, id int64) (*model.Activity, error) {
	if a, ok := f.byID[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeActivities) Create(_ context.Context, a *model.Activity) (*model.Activity, error) {
	a.ID = int64(len(f.byID) + 1)
	f.byID[a.ID] = a
	return a, nil
}

func (f *fakeActivities) SetGear(_ context.Context, activityID int64, gearID *int64) error {
	a, ok := f.byID[activityID]
	if !ok {
		return pgx.ErrNoRows
	}
	a.GearID = gearID
	return nil
}

func (f *fakeActivities) Delete(_ context.Context, id int64) error {
	delete(f.byID, id)
	return nil
}

type fakeGear struct {
	byID map[int64]*model.Gear
}

func (f *fakeGear) GetByID(_ context.Context, id int64) (*model.Gear, error) {
	if g, ok := f.byID[id]; ok {
		copied := *g
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

type fakeIntegrations struct {
	rows map[int64]*model.UserIntegration
}

func (f *fakeIntegrations) get(userID int64) *model.UserIntegration {
	in, ok := f.rows[userID]
	if !ok {
		in = &model.UserIntegration{UserID: userID}
		f.rows[userID] = in
	}
	return in
}

func (f *fakeIntegrations) GetByUserID(_ context.Context, userID int64) (*model.UserIntegration, error) {
	copied := *f.get(userID)
	return &copied, nil
}

func (f *fakeIntegrations) GetByStravaState(_ context.Context, state string) (*model.UserIntegration, error) {
	for _, in := range f.rows {
		if in.StravaState != nil && *in.StravaState == state {
			copied := *in
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeIntegrations) SetStravaState(_ context.Context, userID int64, state *string) error {
	f.get(userID).StravaState = state
	return nil
}

func (f *fakeIntegrations) SetStravaTokens(_ context.Context, userID int64, tokens model.StravaTokens) error {
	in := f.get(userID)
	in.StravaToken = &tokens.AccessToken
	in.StravaRefreshToken = &tokens.RefreshToken
	in.StravaTokenExpiresAt = &tokens.ExpiresAt
	in.StravaState = nil
	return nil
}

func (f *fakeIntegrations) UnlinkStrava(_ context.Context, userID int64) error {
	in := f.get(userID)
	in.StravaToken, in.StravaRefreshToken, in.StravaTokenExpiresAt = nil, nil, nil
	return nil
}

func (f *fakeIntegrations) SetGarminConnectTokens(_ context.Context, userID int64, oauth1, oauth2 json.RawMessage) error {
	in := f.get(userID)
	in.GarminConnectOAuth1, in.GarminConnectOAuth2 = oauth1, oauth2
	return nil
}

func (f *fakeIntegrations) UnlinkGarminConnect(_ context.Context, userID int64) error {
	in := f.get(userID)
	in.GarminConnectOAuth1, in.GarminConnectOAuth2 = nil, nil
	return nil
}

type fakeStravaLinker struct {
	code string
}

func (f *fakeStravaLinker) AuthCodeURL(state string) string {
	return "https://strava.test/oauth/authorize?state=" + state
}

func (f *fakeStravaLinker) Exchange(_ context.Context, code string) (*model.StravaTokens, error) {
	if code != f.code {
		return nil, errors.New("bad code")
	}
	return &model.StravaTokens{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Date(2025, 3, 2, 16, 0, 0, 0, time.UTC),
	}, nil
}

type fakeQueue struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeQueue) Enqueue(_ context.Context, task *asynq.Task, _ ...asynq.Option) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.tasks = append(f.tasks, task)
	return true, nil
}

func (f *fakeUsers) Create(_ context.Context, u *model.User) (*model.User, error) {
	u.ID = int64(len(f.byID) + 1)
	f.byID[u.ID] = u
	return u, nil
}
