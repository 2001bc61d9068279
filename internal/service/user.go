package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/deppfellow/gearguardian/internal/lib/job"
	"github.com/deppfellow/gearguardian/internal/model"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Create(ctx context.Context, user *model.User) (*model.User, error)
}

type UserService struct {
	users  UserStore
	queue  Enqueuer
	logger *zerolog.Logger
}

func NewUserService(users UserStore, queue Enqueuer, logger *zerolog.Logger) *UserService {
	return &UserService{users: users, queue: queue, logger: logger}
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

// Create stores a new user and queues the welcome email. A failure to
// queue the email does not fail the request.
func (s *UserService) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	language := req.PreferredLanguage
	if language == "" {
		language = "en"
	}

	user := &model.User{
		Name:              strings.TrimSpace(req.Name),
		Username:          strings.ToLower(strings.TrimSpace(req.Username)),
		Email:             strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:      string(hash),
		City:              req.City,
		PreferredLanguage: language,
		Gender:            req.Gender,
		AccessType:        req.AccessType,
		Height:            req.Height,
		IsActive:          true,
	}
	if req.Birthdate != nil && !req.Birthdate.IsZero() {
		b := req.Birthdate.Time
		user.Birthdate = &b
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	task, err := job.NewWelcomeEmailTask(created.Email, created.Name, created.Username)
	if err == nil {
		_, err = s.queue.Enqueue(ctx, task)
	}
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", created.ID).Msg("failed to enqueue welcome email")
	}

	return created, nil
}
