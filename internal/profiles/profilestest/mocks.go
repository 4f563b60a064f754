// internal/profiles/profilestest/mocks.go
// Package profilestest provides testify mocks of the profile storage interfaces.
package profilestest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"disc-workers/internal/disc"
	"disc-workers/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) SaveProfile(ctx context.Context, profile *disc.Profile, ownerID string) (*models.ProfileRecord, error) {
	args := m.Called(ctx, profile, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProfileRecord), args.Error(1)
}

func (m *MockRepository) GetUserProfiles(ctx context.Context, ownerID string, limit int) ([]*disc.Profile, error) {
	args := m.Called(ctx, ownerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*disc.Profile), args.Error(1)
}

func (m *MockRepository) CountUserProfiles(ctx context.Context, ownerID string) (int, error) {
	args := m.Called(ctx, ownerID)
	return args.Int(0), args.Error(1)
}

type MockIndex struct {
	mock.Mock
}

func (m *MockIndex) IndexProfile(ctx context.Context, record *models.ProfileRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockIndex) StyleDistribution(ctx context.Context, filter models.DistributionFilter) (*models.StyleDistribution, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StyleDistribution), args.Error(1)
}

var (
	_ models.ProfileRepository = (*MockRepository)(nil)
	_ models.ProfileIndex      = (*MockIndex)(nil)
)
