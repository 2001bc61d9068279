package service

import (
	"context"
	"errors"
	"testing"

	"github.com/deppfellow/gearguardian/internal/lib/job"
	"github.com/deppfellow/gearguardian/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateUserQueuesWelcome(t *testing.T) {
	users := &fakeUsers{byID: map[int64]*model.User{}}
	queue := &fakeQueue{}
	logger := zerolog.Nop()
	svc := NewUserService(users, queue, &logger)

	created, err := svc.Create(context.Background(), &model.CreateUserRequest{
		Name:       " Ana Lima ",
		Username:   "AnaL",
		Email:      "Ana@Example.com",
		Password:   "correct-horse",
		Gender:     2,
		AccessType: model.AccessTypeRegular,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Lima", created.Name)
	assert.Equal(t, "anal", created.Username)
	assert.Equal(t, "ana@example.com", created.Email)
	assert.Equal(t, "en", created.PreferredLanguage)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("correct-horse")))

	require.Len(t, queue.tasks, 1)
	assert.Equal(t, job.TaskWelcome, queue.tasks[0].Type())
}

func TestCreateUserSurvivesQueueFailure(t *testing.T) {
	users := &fakeUsers{byID: map[int64]*model.User{}}
	logger := zerolog.Nop()
	svc := NewUserService(users, &fakeQueue{err: errors.New("down")}, &logger)

	_, err := svc.Create(context.Background(), &model.CreateUserRequest{
		Name: "Ben", Username: "ben", Email: "ben@example.com", Password: "correct-horse",
		Gender: 1, AccessType: model.AccessTypeRegular,
	})
	assert.NoError(t, err)
	assert.Len(t, users.byID, 1)
}
