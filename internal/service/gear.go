package service

import (
	"context"
	"strings"

	"github.com/deppfellow/gearguardian/internal/model"
)

type GearStore interface {
	Count(ctx context.Context, userID int64) (int64, error)
	List(ctx context.Context, userID int64, page model.Page) ([]model.Gear, error)
	ListByNickname(ctx context.Context, userID int64, nickname string) ([]model.Gear, error)
	ListByType(ctx context.Context, userID int64, gearType model.GearType) ([]model.Gear, error)
	GetByID(ctx context.Context, id int64) (*model.Gear, error)
	Create(ctx context.Context, gear *model.Gear) (*model.Gear, error)
	Update(ctx context.Context, gear *model.Gear) (*model.Gear, error)
	Delete(ctx context.Context, id int64) error
}

type GearService struct {
	gear GearStore
}

func NewGearService(gear GearStore) *GearService {
	return &GearService{gear: gear}
}

func (s *GearService) Count(ctx context.Context, userID int64) (*model.Count, error) {
	n, err := s.gear.Count(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &model.Count{Count: n}, nil
}

func (s *GearService) List(ctx context.Context, userID int64, page model.Page) ([]model.Gear, error) {
	return s.gear.List(ctx, userID, page)
}

func (s *GearService) Get(ctx context.Context, userID, id int64) (*model.Gear, error) {
	gear, err := s.gear.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if gear.UserID != userID {
		return nil, forbidden("Not authorized to access this gear")
	}
	return gear, nil
}

// ListByNickname matches case-insensitively on any part of the nickname.
func (s *GearService) ListByNickname(ctx context.Context, userID int64, nickname string) ([]model.Gear, error) {
	return s.gear.ListByNickname(ctx, userID, strings.TrimSpace(nickname))
}

func (s *GearService) ListByType(ctx context.Context, userID int64, gearType model.GearType) ([]model.Gear, error) {
	return s.gear.ListByType(ctx, userID, gearType)
}

func (s *GearService) Create(ctx context.Context, userID int64, req *model.CreateGearRequest) (*model.Gear, error) {
	gear := &model.Gear{UserID: userID, IsActive: true}
	applyGearRequest(gear, req)
	return s.gear.Create(ctx, gear)
}

func (s *GearService) Update(ctx context.Context, userID int64, req *model.UpdateGearRequest) (*model.Gear, error) {
	gear, err := s.Get(ctx, userID, req.ID)
	if err != nil {
		return nil, err
	}
	applyGearRequest(gear, &req.CreateGearRequest)
	return s.gear.Update(ctx, gear)
}

// Delete removes owned gear. Activities that used it keep existing
// without a gear.
func (s *GearService) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.gear.Delete(ctx, id)
}

func applyGearRequest(gear *model.Gear, req *model.CreateGearRequest) {
	gear.Brand = req.Brand
	gear.Model = req.Model
	gear.Nickname = strings.TrimSpace(req.Nickname)
	gear.GearType = req.GearType
	if req.IsActive != nil {
		gear.IsActive = *req.IsActive
	}
	gear.StravaGearID = emptyToNil(req.StravaGearID)
	gear.GarminConnectGearID = emptyToNil(req.GarminConnectGearID)
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
