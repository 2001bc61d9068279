package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/deppfellow/gearguardian/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHealthFixture() (*HealthService, *fakeHealth) {
	height := 180
	users := &fakeUsers{byID: map[int64]*model.User{
		1: {ID: 1, Username: "ana", Height: &height},
		2: {ID: 2, Username: "ben"},
	}}
	store := &fakeHealth{}
	return NewHealthService(store, users), store
}

func day(s string) model.Date {
	t, _ := time.Parse(time.DateOnly, s)
	return model.Date{Time: t}
}

func TestCreateWeightComputesBMI(t *testing.T) {
	svc, store := newHealthFixture()

	got, err := svc.CreateWeight(context.Background(), 1, &model.WeightRequest{CreatedAt: day("2025-03-01"), Weight: 81})
	require.NoError(t, err)
	require.NotNil(t, got.BMI)
	assert.InDelta(t, 25.0, *got.BMI, 0.01)
	assert.Len(t, store.rows, 1)
}

func TestCreateWeightWithoutHeight(t *testing.T) {
	svc, _ := newHealthFixture()

	got, err := svc.CreateWeight(context.Background(), 2, &model.WeightRequest{CreatedAt: day("2025-03-01"), Weight: 70})
	require.NoError(t, err)
	assert.Nil(t, got.BMI)
}

func TestCreateWeightSameDayConflicts(t *testing.T) {
	svc, store := newHealthFixture()
	ctx := context.Background()

	_, err := svc.CreateWeight(ctx, 1, &model.WeightRequest{CreatedAt: day("2025-03-01"), Weight: 80})
	require.NoError(t, err)

	_, err = svc.CreateWeight(ctx, 1, &model.WeightRequest{CreatedAt: day("2025-03-01"), Weight: 79})
	assert.Equal(t, http.StatusConflict, statusOf(err))
	assert.Len(t, store.rows, 1)
}

func TestCreateWeightFillsEmptyDay(t *testing.T) {
	svc, store := newHealthFixture()
	fat := 18.5
	store.rows = []model.HealthData{{ID: 7, UserID: 1, CreatedAt: day("2025-03-01").Time, BodyFat: &fat}}
	store.nextID = 7

	got, err := svc.CreateWeight(context.Background(), 1, &model.WeightRequest{CreatedAt: day("2025-03-01"), Weight: 80})
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	require.Len(t, store.rows, 1)
	assert.Equal(t, 80.0, *store.rows[0].Weight)
	assert.Equal(t, 18.5, *store.rows[0].BodyFat)
}

func TestAddWeightFillKeepsBodyComposition(t *testing.T) {
	svc, store := newHealthFixture()
	fat, water, muscle := 18.5, 55.0, 38.2
	compositionID := "bc-1"
	store.rows = []model.HealthData{{ID: 3, UserID: 1, CreatedAt: day("2025-03-02").Time, BodyFat: &fat}}
	store.nextID = 3

	weight := 79.5
	got, err := svc.AddWeight(context.Background(), 1, model.HealthData{
		CreatedAt:                      day("2025-03-02").Time,
		Weight:                         &weight,
		BodyWater:                      &water,
		MuscleMass:                     &muscle,
		GarminConnectBodyCompositionID: &compositionID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ID)
	require.Len(t, store.rows, 1)

	row := store.rows[0]
	assert.Equal(t, 79.5, *row.Weight)
	require.NotNil(t, row.BMI)
	assert.Equal(t, 18.5, *row.BodyFat)
	assert.Equal(t, 55.0, *row.BodyWater)
	assert.Equal(t, 38.2, *row.MuscleMass)
	assert.Nil(t, row.BoneMass)
	assert.Equal(t, "bc-1", *row.GarminConnectBodyCompositionID)
}

func TestUpdateWeightRejectsOtherUser(t *testing.T) {
	svc, store := newHealthFixture()
	w := 80.0
	store.rows = []model.HealthData{{ID: 1, UserID: 1, Weight: &w}}

	_, err := svc.UpdateWeight(context.Background(), 1, &model.UpdateWeightRequest{ID: 1, UserID: 2, Weight: 70})
	assert.Equal(t, http.StatusForbidden, statusOf(err))
	assert.Equal(t, 80.0, *store.rows[0].Weight)

	got, err := svc.UpdateWeight(context.Background(), 1, &model.UpdateWeightRequest{ID: 1, UserID: 1, Weight: 78})
	require.NoError(t, err)
	assert.Equal(t, 78.0, *got.Weight)
}

func TestDeleteWeightMissing(t *testing.T) {
	svc, _ := newHealthFixture()

	err := svc.DeleteWeight(context.Background(), 1, 99)
	assert.True(t, isNotFound(err))
}

func TestExportEmpty(t *testing.T) {
	svc, _ := newHealthFixture()

	data, err := svc.Export(context.Background(), 1)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}
