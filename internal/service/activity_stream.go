package service

import (
	"context"

	"github.com/deppfellow/gearguardian/internal/model"
)

type StreamStore interface {
	ListByActivity(ctx context.Context, activityID int64) ([]model.ActivityStream, error)
	GetByType(ctx context.Context, activityID int64, streamType model.StreamType) (*model.ActivityStream, error)
}

type ActivityReader interface {
	GetByID(ctx context.Context, id int64) (*model.Activity, error)
}

// StreamService serves the sampled series of activities the caller can read.
type StreamService struct {
	activities ActivityReader
	streams    StreamStore
}

func NewStreamService(activities ActivityReader, streams StreamStore) *StreamService {
	return &StreamService{activities: activities, streams: streams}
}

func (s *StreamService) readable(ctx context.Context, userID, activityID int64) error {
	activity, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		return err
	}
	if !activity.ReadableBy(userID) {
		return forbidden("Not authorized to access this activity")
	}
	return nil
}

func (s *StreamService) List(ctx context.Context, userID, activityID int64) ([]model.ActivityStream, error) {
	if err := s.readable(ctx, userID, activityID); err != nil {
		return nil, err
	}
	return s.streams.ListByActivity(ctx, activityID)
}

func (s *StreamService) GetByType(ctx context.Context, userID int64, req *model.StreamByTypeRequest) (*model.ActivityStream, error) {
	if err := s.readable(ctx, userID, req.ActivityID); err != nil {
		return nil, err
	}
	return s.streams.GetByType(ctx, req.ActivityID, req.StreamType)
}
