package service

import (
	"context"
	"encoding/json"

	"github.com/deppfellow/gearguardian/internal/errs"
	"github.com/deppfellow/gearguardian/internal/lib/job"
	"github.com/deppfellow/gearguardian/internal/model"
	"github.com/google/uuid"
)

type IntegrationStore interface {
	GetByUserID(ctx context.Context, userID int64) (*model.UserIntegration, error)
	GetByStravaState(ctx context.Context, state string) (*model.UserIntegration, error)
	SetStravaState(ctx context.Context, userID int64, state *string) error
	SetStravaTokens(ctx context.Context, userID int64, tokens model.StravaTokens) error
	UnlinkStrava(ctx context.Context, userID int64) error
	SetGarminConnectTokens(ctx context.Context, userID int64, oauth1, oauth2 json.RawMessage) error
	UnlinkGarminConnect(ctx context.Context, userID int64) error
}

// StravaLinker is the OAuth side of the Strava client.
type StravaLinker interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*model.StravaTokens, error)
}

// IntegrationService links and unlinks providers and queues on-demand
// imports. The imports themselves run in the job worker.
type IntegrationService struct {
	integrations IntegrationStore
	strava       StravaLinker
	queue        Enqueuer
}

func NewIntegrationService(integrations IntegrationStore, strava StravaLinker, queue Enqueuer) *IntegrationService {
	return &IntegrationService{integrations: integrations, strava: strava, queue: queue}
}

func (s *IntegrationService) Get(ctx context.Context, userID int64) (*model.UserIntegration, error) {
	return s.integrations.GetByUserID(ctx, userID)
}

// StravaLink stores a fresh state and returns the authorization URL.
func (s *IntegrationService) StravaLink(ctx context.Context, userID int64) (*model.StravaLinkResponse, error) {
	if _, err := s.integrations.GetByUserID(ctx, userID); err != nil {
		return nil, err
	}

	state := uuid.NewString()
	if err := s.integrations.SetStravaState(ctx, userID, &state); err != nil {
		return nil, err
	}
	return &model.StravaLinkResponse{URL: s.strava.AuthCodeURL(state)}, nil
}

// StravaCallback completes the OAuth flow for the user whose pending state
// matches.
func (s *IntegrationService) StravaCallback(ctx context.Context, req *model.StravaCallbackRequest) (*model.UserIntegration, error) {
	pending, err := s.integrations.GetByStravaState(ctx, req.State)
	if err != nil {
		if isNotFound(err) {
			return nil, errs.NewBadRequestError("Invalid or expired Strava state", true, nil, nil, nil)
		}
		return nil, err
	}

	tokens, err := s.strava.Exchange(ctx, req.Code)
	if err != nil {
		return nil, errs.NewBadRequestError("Strava rejected the authorization code", true, nil, nil, nil)
	}
	if err := s.integrations.SetStravaTokens(ctx, pending.UserID, *tokens); err != nil {
		return nil, err
	}
	return s.integrations.GetByUserID(ctx, pending.UserID)
}

func (s *IntegrationService) StravaUnlink(ctx context.Context, userID int64) error {
	return s.integrations.UnlinkStrava(ctx, userID)
}

func (s *IntegrationService) GarminConnectLink(ctx context.Context, userID int64, req *model.GarminConnectLinkRequest) (*model.UserIntegration, error) {
	if _, err := s.integrations.GetByUserID(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.integrations.SetGarminConnectTokens(ctx, userID, req.OAuth1, req.OAuth2); err != nil {
		return nil, err
	}
	return s.integrations.GetByUserID(ctx, userID)
}

func (s *IntegrationService) GarminConnectUnlink(ctx context.Context, userID int64) error {
	return s.integrations.UnlinkGarminConnect(ctx, userID)
}

func notLinked(provider string) error {
	return errs.NewBadRequestError(provider+" is not linked", true, nil, nil, &errs.Action{
		Type:    errs.ActionTypeRedirect,
		Message: "Link " + provider + " first",
		Value:   "/settings/integrations",
	})
}

// QueueImport enqueues a per-user import task after checking the user is
// linked to the task's provider.
func (s *IntegrationService) QueueImport(ctx context.Context, userID int64, taskType string, days int) (*model.QueuedResponse, error) {
	in, err := s.integrations.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch taskType {
	case job.TaskUserStravaGear, job.TaskUserStravaActivities:
		if !in.StravaLinked() {
			return nil, notLinked("Strava")
		}
	case job.TaskUserGarminGear, job.TaskUserGarminActivities:
		if !in.GarminConnectLinked() {
			return nil, notLinked("Garmin Connect")
		}
	default:
		return nil, errs.NewBadRequestError("Unknown import", true, nil, nil, nil)
	}

	task, err := job.NewUserImportTask(taskType, userID, days)
	if err != nil {
		return nil, err
	}
	queued, err := s.queue.Enqueue(ctx, task)
	if err != nil {
		return nil, errs.NewServiceUnavailableError("Could not queue the import, try again later")
	}
	return &model.QueuedResponse{Queued: queued, Task: taskType}, nil
}
