package service

import (
	"context"
	"time"

	"github.com/deppfellow/gearguardian/internal/errs"
	"github.com/deppfellow/gearguardian/internal/model"
	"github.com/goccy/go-json"
)

type HealthDataStore interface {
	Count(ctx context.Context, userID int64) (int64, error)
	ListAll(ctx context.Context, userID int64) ([]model.HealthData, error)
	List(ctx context.Context, userID int64, page model.Page) ([]model.HealthData, error)
	GetByDate(ctx context.Context, userID int64, day time.Time) (*model.HealthData, error)
	GetByID(ctx context.Context, userID, id int64) (*model.HealthData, error)
	Create(ctx context.Context, data *model.HealthData) (*model.HealthData, error)
	UpdateWeight(ctx context.Context, userID, id int64, weight, bmi *float64) (*model.HealthData, error)
	FillWeight(ctx context.Context, userID, id int64, data *model.HealthData) (*model.HealthData, error)
	Delete(ctx context.Context, userID, id int64) error
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// HealthService manages daily body measurements. There is at most one row
// per user and day, and a day's weight is written once.
type HealthService struct {
	health HealthDataStore
	users  UserReader
}

func NewHealthService(health HealthDataStore, users UserReader) *HealthService {
	return &HealthService{health: health, users: users}
}

func (s *HealthService) Count(ctx context.Context, userID int64) (*model.Count, error) {
	n, err := s.health.Count(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &model.Count{Count: n}, nil
}

func (s *HealthService) ListAll(ctx context.Context, userID int64) ([]model.HealthData, error) {
	return s.health.ListAll(ctx, userID)
}

func (s *HealthService) List(ctx context.Context, userID int64, page model.Page) ([]model.HealthData, error) {
	return s.health.List(ctx, userID, page)
}

func (s *HealthService) bmi(ctx context.Context, userID int64, weight *float64) (*float64, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return model.CalculateBMI(weight, user.Height), nil
}

func (s *HealthService) Create(ctx context.Context, userID int64, req *model.CreateHealthDataRequest) (*model.HealthData, error) {
	bmi, err := s.bmi(ctx, userID, req.Weight)
	if err != nil {
		return nil, err
	}

	return s.health.Create(ctx, &model.HealthData{
		UserID:     userID,
		CreatedAt:  req.CreatedAt.Time,
		Weight:     req.Weight,
		BMI:        bmi,
		BodyFat:    req.BodyFat,
		BodyWater:  req.BodyWater,
		BoneMass:   req.BoneMass,
		MuscleMass: req.MuscleMass,
	})
}

// AddWeight records the weight of one day. An existing row without a
// weight is filled in along with any body composition values data
// carries; a row that already has one is a conflict.
func (s *HealthService) AddWeight(ctx context.Context, userID int64, data model.HealthData) (*model.HealthData, error) {
	existing, err := s.health.GetByDate(ctx, userID, data.CreatedAt)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	if existing != nil && existing.Weight != nil {
		return nil, errs.NewConflictError("Weight already added to this day", true, nil)
	}

	bmi, err := s.bmi(ctx, userID, data.Weight)
	if err != nil {
		return nil, err
	}

	data.UserID = userID
	data.BMI = bmi
	if existing != nil {
		return s.health.FillWeight(ctx, userID, existing.ID, &data)
	}
	return s.health.Create(ctx, &data)
}

func (s *HealthService) CreateWeight(ctx context.Context, userID int64, req *model.WeightRequest) (*model.HealthData, error) {
	weight := req.Weight
	return s.AddWeight(ctx, userID, model.HealthData{CreatedAt: req.CreatedAt.Time, Weight: &weight})
}

// UpdateWeight changes the weight of one of the caller's rows.
func (s *HealthService) UpdateWeight(ctx context.Context, userID int64, req *model.UpdateWeightRequest) (*model.HealthData, error) {
	if req.UserID != userID {
		return nil, forbidden("Not authorized to edit this health data")
	}

	weight := req.Weight
	bmi, err := s.bmi(ctx, userID, &weight)
	if err != nil {
		return nil, err
	}
	return s.health.UpdateWeight(ctx, userID, req.ID, &weight, bmi)
}

func (s *HealthService) DeleteWeight(ctx context.Context, userID, id int64) error {
	return s.health.Delete(ctx, userID, id)
}

// Export returns every row of the user as an indented JSON document.
func (s *HealthService) Export(ctx context.Context, userID int64) ([]byte, error) {
	rows, err := s.health.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []model.HealthData{}
	}
	return json.MarshalIndent(rows, "", "  ")
}
