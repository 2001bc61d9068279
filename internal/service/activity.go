package service

import (
	"context"
	"time"

	"github.com/deppfellow/gearguardian/internal/model"
)

type ActivityStore interface {
	Count(ctx context.Context, userID int64) (int64, error)
	List(ctx context.Context, userID int64, page model.Page) ([]model.Activity, error)
	ListBetween(ctx context.Context, userID int64, from, to time.Time) ([]model.Activity, error)
	ListByGear(ctx context.Context, userID, gearID int64) ([]model.Activity, error)
	GetByID(ctx context.Context, id int64) (*model.Activity, error)
	Create(ctx context.Context, activity *model.Activity) (*model.Activity, error)
	SetGear(ctx context.Context, activityID int64, gearID *int64) error
	Delete(ctx context.Context, id int64) error
}

type GearReader interface {
	GetByID(ctx context.Context, id int64) (*model.Gear, error)
}

type ActivityService struct {
	activities ActivityStore
	gear       GearReader
	now        func() time.Time
}

func NewActivityService(activities ActivityStore, gear GearReader) *ActivityService {
	return &ActivityService{activities: activities, gear: gear, now: time.Now}
}

func (s *ActivityService) Count(ctx context.Context, userID int64) (*model.Count, error) {
	n, err := s.activities.Count(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &model.Count{Count: n}, nil
}

func (s *ActivityService) List(ctx context.Context, userID int64, page model.Page) ([]model.Activity, error) {
	return s.activities.List(ctx, userID, page)
}

// Get returns an activity the caller owns or that is public.
func (s *ActivityService) Get(ctx context.Context, userID, id int64) (*model.Activity, error) {
	activity, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !activity.ReadableBy(userID) {
		return nil, forbidden("Not authorized to access this activity")
	}
	return activity, nil
}

// owned returns the activity when userID owns it.
func (s *ActivityService) owned(ctx context.Context, userID, id int64) (*model.Activity, error) {
	activity, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if activity.UserID != userID {
		return nil, forbidden("Not authorized to change this activity")
	}
	return activity, nil
}

func (s *ActivityService) ownedGear(ctx context.Context, userID, gearID int64) error {
	gear, err := s.gear.GetByID(ctx, gearID)
	if err != nil {
		return err
	}
	if gear.UserID != userID {
		return forbidden("Not authorized to use this gear")
	}
	return nil
}

// Week returns the activities of one ISO week, `week` weeks before the
// current one. Other users' activities are filtered to the public ones.
func (s *ActivityService) Week(ctx context.Context, callerID int64, req *model.ActivityWeekRequest) ([]model.Activity, error) {
	from, to := isoWeek(s.now(), req.Week)

	activities, err := s.activities.ListBetween(ctx, req.UserID, from, to)
	if err != nil {
		return nil, err
	}
	if req.UserID == callerID {
		return activities, nil
	}

	visible := make([]model.Activity, 0, len(activities))
	for i := range activities {
		if activities[i].ReadableBy(callerID) {
			visible = append(visible, activities[i])
		}
	}
	return visible, nil
}

// isoWeek returns [monday 00:00, next monday 00:00) in UTC for the week
// `back` weeks before the one containing now.
func isoWeek(now time.Time, back int) (time.Time, time.Time) {
	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	sinceMonday := (int(today.Weekday()) + 6) % 7
	from := today.AddDate(0, 0, -sinceMonday-7*back)
	return from, from.AddDate(0, 0, 7)
}

func (s *ActivityService) ListByGear(ctx context.Context, userID, gearID int64) ([]model.Activity, error) {
	if err := s.ownedGear(ctx, userID, gearID); err != nil {
		return nil, err
	}
	return s.activities.ListByGear(ctx, userID, gearID)
}

// Create stores a manually entered activity.
func (s *ActivityService) Create(ctx context.Context, userID int64, req *model.CreateActivityRequest) (*model.Activity, error) {
	if req.GearID != nil {
		if err := s.ownedGear(ctx, userID, *req.GearID); err != nil {
			return nil, err
		}
	}

	return s.activities.Create(ctx, &model.Activity{
		UserID:           userID,
		Name:             req.Name,
		Distance:         req.Distance,
		Description:      req.Description,
		ActivityType:     req.ActivityType,
		StartTime:        req.StartTime.UTC(),
		EndTime:          req.EndTime.UTC(),
		Timezone:         req.Timezone,
		TotalElapsedTime: req.TotalElapsedTime,
		TotalTimerTime:   req.TotalTimerTime,
		ElevationGain:    req.ElevationGain,
		ElevationLoss:    req.ElevationLoss,
		Pace:             req.Pace,
		AverageSpeed:     req.AverageSpeed,
		AveragePower:     req.AveragePower,
		Calories:         req.Calories,
		Visibility:       req.Visibility,
		GearID:           req.GearID,
	})
}

// AddGear links an owned activity to owned gear.
func (s *ActivityService) AddGear(ctx context.Context, userID int64, req *model.ActivityGearRequest) (*model.Activity, error) {
	activity, err := s.owned(ctx, userID, req.ActivityID)
	if err != nil {
		return nil, err
	}
	if err := s.ownedGear(ctx, userID, req.GearID); err != nil {
		return nil, err
	}

	gearID := req.GearID
	if err := s.activities.SetGear(ctx, activity.ID, &gearID); err != nil {
		return nil, err
	}
	activity.GearID = &gearID
	return activity, nil
}

func (s *ActivityService) RemoveGear(ctx context.Context, userID, activityID int64) (*model.Activity, error) {
	activity, err := s.owned(ctx, userID, activityID)
	if err != nil {
		return nil, err
	}
	if err := s.activities.SetGear(ctx, activity.ID, nil); err != nil {
		return nil, err
	}
	activity.GearID = nil
	return activity, nil
}

func (s *ActivityService) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.activities.Delete(ctx, id)
}
