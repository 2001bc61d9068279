package integration

import (
	"context"
	"testing"
	"time"

	"github.com/deppfellow/gearguardian/internal/lib/garmin"
	"github.com/deppfellow/gearguardian/internal/lib/strava"
	"github.com/deppfellow/gearguardian/internal/model"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)

func garminIntegration(userID int64) model.UserIntegration {
	doc := []byte(`{"access_token":"garmin-access","token_type":"Bearer","expires_at":1900000000}`)
	return model.UserIntegration{UserID: userID, GarminConnectOAuth2: doc, GarminConnectSyncGear: true}
}

func stravaIntegration(userID int64, expires time.Time) model.UserIntegration {
	return model.UserIntegration{
		UserID:               userID,
		StravaToken:          strPtr("access"),
		StravaRefreshToken:   strPtr("refresh"),
		StravaTokenExpiresAt: &expires,
		StravaSyncGear:       true,
	}
}

func newTestService(d Deps) *Service {
	svc := NewService(d)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestSyncGarminGear(t *testing.T) {
	gear := &fakeGear{gears: []model.Gear{{ID: 1, UserID: 7, GarminConnectGearID: strPtr("known")}}}
	activities := &fakeActivities{withGear: []model.Activity{{ID: 50, UserID: 7, GarminConnectGearID: strPtr("new-bike")}}}
	integrations := newFakeIntegrations(garminIntegration(7))
	api := &fakeGarmin{
		profile: 42,
		gear: []garmin.Gear{
			{UUID: "known", DisplayName: "Old shoes", GearTypeName: "Shoes", GearStatusName: "active"},
			{UUID: "new-bike", DisplayName: "Tarmac", GearMakeName: "Specialized", GearTypeName: "Bike", GearStatusName: "active"},
			{UUID: "new-shoes", GearModelName: "Pegasus 40", GearMakeName: "Nike", GearTypeName: "Shoes", GearStatusName: "retired"},
		},
	}

	svc := newTestService(Deps{Activities: activities, Gear: gear, Integrations: integrations, Garmin: api})
	created, err := svc.SyncGarminGear(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, created, 2)

	bike := created[0]
	assert.Equal(t, "Tarmac", bike.Nickname)
	assert.Equal(t, model.GearTypeBike, bike.GearType)
	assert.True(t, bike.IsActive)
	assert.Equal(t, "Specialized", *bike.Brand)
	assert.Equal(t, "new-bike", *bike.GarminConnectGearID)

	shoes := created[1]
	assert.Equal(t, model.GearTypeShoes, shoes.GearType)
	assert.False(t, shoes.IsActive)
	assert.Equal(t, "Nike Pegasus 40", shoes.Nickname)

	assert.True(t, integrations.garminSync[7])
	require.Len(t, activities.updated, 1)
	assert.Equal(t, bike.ID, *activities.updated[0][0].GearID)
}

func TestSyncGarminGearNotLinked(t *testing.T) {
	svc := newTestService(Deps{Integrations: newFakeIntegrations(), Garmin: &fakeGarmin{}})
	_, err := svc.SyncGarminGear(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotLinked)
}

func TestSyncGarminGearExpiredToken(t *testing.T) {
	in := model.UserIntegration{UserID: 3, GarminConnectOAuth2: []byte(`{"access_token":"x","expires_at":1000}`)}
	svc := newTestService(Deps{Integrations: newFakeIntegrations(in), Garmin: &fakeGarmin{}})

	_, err := svc.SyncGarminGear(context.Background(), 3)
	assert.ErrorIs(t, err, garmin.ErrTokenExpired)
}

func TestSyncStravaGear(t *testing.T) {
	gear := &fakeGear{gears: []model.Gear{{ID: 1, StravaGearID: strPtr("b1")}}}
	integrations := newFakeIntegrations(stravaIntegration(9, fixedNow.Add(3*time.Hour)))
	api := &fakeStrava{
		athlete: &strava.Athlete{
			Bikes: []strava.SummaryGear{{ID: "b1", Name: "Known"}, {ID: "b2", Name: "Gravel"}},
			Shoes: []strava.SummaryGear{{ID: "g3", Name: "Trail", Retired: true}},
		},
		details: map[string]*strava.GearDetail{"b2": {ID: "b2", BrandName: "Canyon", ModelName: "Grail"}},
	}

	svc := newTestService(Deps{Activities: &fakeActivities{}, Gear: gear, Integrations: integrations, Strava: api})
	created, err := svc.SyncStravaGear(context.Background(), 9)
	require.NoError(t, err)
	require.Len(t, created, 2)

	assert.Equal(t, model.GearTypeBike, created[0].GearType)
	assert.Equal(t, "Canyon", *created[0].Brand)
	assert.Equal(t, "Grail", *created[0].Model)
	assert.Equal(t, model.GearTypeShoes, created[1].GearType)
	assert.False(t, created[1].IsActive)
	assert.Nil(t, created[1].Brand)

	assert.True(t, integrations.stravaSync[9])
	assert.Empty(t, api.refreshed)
}

func TestImportStravaActivitiesRefreshesExpiredToken(t *testing.T) {
	integrations := newFakeIntegrations(stravaIntegration(4, fixedNow.Add(-time.Minute)))
	activities := &fakeActivities{known: map[int64]bool{100: true}}
	gearID := "b1"
	api := &fakeStrava{
		activities: []strava.Activity{
			{ID: 100, SportType: "Run"},
			{ID: 101, Name: "Lunch Ride", SportType: "Ride", Distance: 25012.6, ElapsedTime: 3600,
				MovingTime: 3400, AverageSpeed: 7.5, GearID: &gearID, StartDate: fixedNow.Add(-2 * time.Hour)},
		},
		streams: map[int64]*strava.StreamSet{
			101: {
				Time:      &strava.NumberStream{Data: []float64{0, 1}},
				HeartRate: &strava.NumberStream{Data: []float64{130, 131}},
			},
		},
	}
	gear := &fakeGear{gears: []model.Gear{{ID: 8, StravaGearID: &gearID}}}

	svc := newTestService(Deps{Activities: activities, Gear: gear, Integrations: integrations, Strava: api})
	n, err := svc.ImportStravaActivities(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Equal(t, []string{"refresh"}, api.refreshed)
	assert.Equal(t, []string{"fresh-access"}, api.tokensUsed)
	assert.Equal(t, "fresh-access", integrations.stravaTokens[4].AccessToken)

	require.Len(t, activities.created, 1)
	a := activities.created[0]
	assert.Equal(t, int64(101), *a.StravaActivityID)
	assert.Equal(t, 25013, a.Distance)
	assert.Equal(t, model.ActivityTypeRide, a.ActivityType)
	assert.Equal(t, a.StartTime.Add(time.Hour), a.EndTime)
	assert.InDelta(t, 1/7.5, *a.Pace, 1e-9)
	require.Len(t, activities.streams[0], 1)
	assert.Equal(t, model.StreamTypeHeartRate, activities.streams[0][0].StreamType)
}

func TestRefreshStravaTokensUsesWindow(t *testing.T) {
	integrations := newFakeIntegrations(
		stravaIntegration(1, fixedNow.Add(30*time.Minute)),
		stravaIntegration(2, fixedNow.Add(5*time.Hour)),
	)
	api := &fakeStrava{}

	svc := newTestService(Deps{Integrations: integrations, Strava: api, StravaRefreshWindow: time.Hour})
	n, err := svc.RefreshStravaTokens(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, n)
	assert.Equal(t, fixedNow.Add(time.Hour), integrations.expiringAfter)
	assert.Contains(t, integrations.stravaTokens, int64(1))
	assert.NotContains(t, integrations.stravaTokens, int64(2))
}

func TestImportGarminActivities(t *testing.T) {
	integrations := newFakeIntegrations(garminIntegration(5))
	activities := &fakeActivities{}
	api := &fakeGarmin{
		activities: []garmin.Activity{{
			ActivityID:   77,
			ActivityName: "Morning Run",
			StartTimeGMT: garmin.Timestamp{Time: fixedNow.Add(-3 * time.Hour)},
			ActivityType: garmin.ActivityType{TypeKey: "running"},
			Distance:     10000,
			Duration:     3000,
		}},
		activityGear: map[int64][]garmin.Gear{77: {{UUID: "shoe-uuid"}}},
	}

	svc := newTestService(Deps{Activities: activities, Gear: &fakeGear{}, Integrations: integrations, Garmin: api})
	n, err := svc.ImportGarminActivities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.Len(t, activities.created, 1)
	a := activities.created[0]
	assert.Equal(t, "shoe-uuid", *a.GarminConnectGearID)
	assert.Equal(t, model.ActivityTypeRun, a.ActivityType)
	assert.InDelta(t, 0.3, *a.Pace, 1e-9)
}

func TestImportGarminHealthSkipsExistingWeight(t *testing.T) {
	integrations := newFakeIntegrations(garminIntegration(5))
	weights := &fakeWeights{}
	w1, w2 := 72500.0, 72100.0
	bone := 3100.0
	api := &fakeGarmin{weights: []garmin.WeightSample{
		{SamplePK: 1, CalendarDate: "2025-03-01", Weight: &w1, BoneMass: &bone},
		{SamplePK: 2, CalendarDate: "2025-03-01", Weight: &w2},
		{SamplePK: 3, CalendarDate: "2025-03-02"},
	}}

	svc := newTestService(Deps{Integrations: integrations, Weights: weights, Garmin: api})
	n, err := svc.ImportGarminHealth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.Len(t, weights.days, 1)
	day := weights.days["2025-03-01"]
	assert.InDelta(t, 72.5, *day.Weight, 1e-9)
	assert.InDelta(t, 3.1, *day.BoneMass, 1e-9)
	assert.Equal(t, "1", *day.GarminConnectBodyCompositionID)
}

func TestStravaStreams(t *testing.T) {
	set := &strava.StreamSet{
		Time:           &strava.NumberStream{Data: []float64{0, 1, 2}},
		VelocitySmooth: &strava.NumberStream{Data: []float64{0, 2, 4}},
		LatLng:         &strava.LatLngStream{Data: [][2]float64{{1, 2}, {3, 4}, {5, 6}}},
	}

	streams, err := StravaStreams(set)
	require.NoError(t, err)
	require.Len(t, streams, 3)

	byType := map[model.StreamType]json.RawMessage{}
	for _, s := range streams {
		byType[s.StreamType] = s.StreamWaypoints
	}

	var pace []pacePoint
	require.NoError(t, json.Unmarshal(byType[model.StreamTypePace], &pace))
	assert.Equal(t, []pacePoint{{Time: 1, Pace: 0.5}, {Time: 2, Pace: 0.25}}, pace)

	var coords []latLonPoint
	require.NoError(t, json.Unmarshal(byType[model.StreamTypeLatLon], &coords))
	assert.Equal(t, latLonPoint{Time: 2, Lat: 5, Lon: 6}, coords[2])

	none, err := StravaStreams(&strava.StreamSet{HeartRate: &strava.NumberStream{Data: []float64{1}}})
	require.NoError(t, err)
	assert.Empty(t, none)
}
