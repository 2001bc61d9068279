package job

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/hibiken/asynq"
)

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// Task type names. Asynq routes on these strings.
const (
	TaskRemoveExpiredTokens  = "tokens:remove_expired"
	TaskRefreshStravaTokens  = "strava:refresh_tokens"
	TaskStravaActivities     = "strava:activities"
	TaskGarminActivities     = "garminconnect:activities"
	TaskGarminHealth         = "garminconnect:health"
	TaskUserStravaGear       = "strava:user_gear"
	TaskUserStravaActivities = "strava:user_activities"
	TaskUserGarminGear       = "garminconnect:user_gear"
	TaskUserGarminActivities = "garminconnect:user_activities"
	TaskWelcome              = "email:welcome"
)

// periodicTaskTimeout bounds one run over all linked users.
const periodicTaskTimeout = 30 * time.Minute

// NewPeriodicTask builds one of the payload-less periodic tasks. Unique
// for ttl, so a tick cannot queue it again while the previous one is pending
// or running.
func NewPeriodicTask(taskType string, ttl time.Duration) *asynq.Task {
	queue := QueueDefault
	if taskType == TaskRemoveExpiredTokens || taskType == TaskRefreshStravaTokens {
		queue = QueueCritical
	}

	return asynq.NewTask(
		taskType,
		nil,
		asynq.Queue(queue),
		asynq.MaxRetry(3),
		asynq.Timeout(periodicTaskTimeout),
		asynq.Unique(ttl),
	)
}

// UserImportPayload asks for one user's on-demand import. Days is only
// used by activity imports.
type UserImportPayload struct {
	UserID int64 `json:"user_id"`
	Days   int   `json:"days,omitempty"`
}

// NewUserImportTask builds a per-user import task of the given type.
func NewUserImportTask(taskType string, userID int64, days int) (*asynq.Task, error) {
	payload, err := json.Marshal(UserImportPayload{UserID: userID, Days: days})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		taskType,
		payload,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
		asynq.Unique(10*time.Minute),
	), nil
}

// WelcomeEmailPayload is the JSON payload of the welcome email task.
type WelcomeEmailPayload struct {
	To       string `json:"to"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

func NewWelcomeEmailTask(to, name, username string) (*asynq.Task, error) {
	payload, err := json.Marshal(WelcomeEmailPayload{
		To:       to,
		Name:     name,
		Username: username,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskWelcome,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue(QueueLow),
		asynq.Timeout(30*time.Second),
	), nil
}
