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

func newActivityFixture() (*ActivityService, *fakeActivities) {
	activities := &fakeActivities{byID: map[int64]*model.Activity{
		1: {ID: 1, UserID: 1, Visibility: model.VisibilityPrivate},
		2: {ID: 2, UserID: 2, Visibility: model.VisibilityPublic},
		3: {ID: 3, UserID: 2, Visibility: model.VisibilityFollowers},
	}}
	gear := &fakeGear{byID: map[int64]*model.Gear{
		10: {ID: 10, UserID: 1},
		20: {ID: 20, UserID: 2},
	}}
	svc := NewActivityService(activities, gear)
	svc.now = func() time.Time { return time.Date(2025, 3, 5, 15, 0, 0, 0, time.UTC) }
	return svc, activities
}

func TestIsoWeek(t *testing.T) {
	// Wednesday.
	now := time.Date(2025, 3, 5, 15, 0, 0, 0, time.UTC)

	from, to := isoWeek(now, 0)
	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), to)

	from, _ = isoWeek(now, 2)
	assert.Equal(t, time.Date(2025, 2, 17, 0, 0, 0, 0, time.UTC), from)

	// Sunday still belongs to the week that started on Monday.
	from, _ = isoWeek(time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC), 0)
	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), from)
}

func TestGetActivityVisibility(t *testing.T) {
	svc, _ := newActivityFixture()
	ctx := context.Background()

	_, err := svc.Get(ctx, 1, 1)
	assert.NoError(t, err)

	_, err = svc.Get(ctx, 1, 2)
	assert.NoError(t, err)

	_, err = svc.Get(ctx, 1, 3)
	assert.Equal(t, http.StatusForbidden, statusOf(err))

	_, err = svc.Get(ctx, 1, 42)
	assert.True(t, isNotFound(err))
}

func TestWeekFiltersOtherUsers(t *testing.T) {
	svc, activities := newActivityFixture()
	activities.between = []model.Activity{*activities.byID[2], *activities.byID[3]}

	got, err := svc.Week(context.Background(), 1, &model.ActivityWeekRequest{UserID: 2, Week: 1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, time.Date(2025, 2, 24, 0, 0, 0, 0, time.UTC), activities.from)

	got, err = svc.Week(context.Background(), 2, &model.ActivityWeekRequest{UserID: 2})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestActivityGearOwnership(t *testing.T) {
	svc, activities := newActivityFixture()
	ctx := context.Background()

	_, err := svc.AddGear(ctx, 1, &model.ActivityGearRequest{ActivityID: 1, GearID: 20})
	assert.Equal(t, http.StatusForbidden, statusOf(err))

	_, err = svc.AddGear(ctx, 1, &model.ActivityGearRequest{ActivityID: 2, GearID: 10})
	assert.Equal(t, http.StatusForbidden, statusOf(err))

	got, err := svc.AddGear(ctx, 1, &model.ActivityGearRequest{ActivityID: 1, GearID: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(10), *got.GearID)
	assert.Equal(t, int64(10), *activities.byID[1].GearID)

	got, err = svc.RemoveGear(ctx, 1, 1)
	require.NoError(t, err)
	assert.Nil(t, got.GearID)
}

func TestDeleteActivityRequiresOwner(t *testing.T) {
	svc, activities := newActivityFixture()

	err := svc.Delete(context.Background(), 1, 2)
	assert.Equal(t, http.StatusForbidden, statusOf(err))
	assert.Contains(t, activities.byID, int64(2))

	require.NoError(t, svc.Delete(context.Background(), 1, 1))
	assert.NotContains(t, activities.byID, int64(1))
}

func TestCreateActivityWithForeignGear(t *testing.T) {
	svc, _ := newActivityFixture()
	gearID := int64(20)

	_, err := svc.Create(context.Background(), 1, &model.CreateActivityRequest{
		ActivityType: model.ActivityTypeRun,
		StartTime:    time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
		EndTime:      time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		GearID:       &gearID,
	})
	assert.Equal(t, http.StatusForbidden, statusOf(err))
}
