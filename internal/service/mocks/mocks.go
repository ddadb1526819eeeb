package mocks

import (
	"context"

	"invite_contest_bot/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetOrCreateUser(ctx context.Context, telegramID int64, username, firstName string) (*model.User, error) {
	args := m.Called(ctx, telegramID, username, firstName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetUserRank(ctx context.Context, telegramID int64) (*model.RankInfo, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RankInfo), args.Error(1)
}

func (m *MockUserRepository) GetTopUsers(ctx context.Context, limit int) ([]*model.User, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

type MockReferralRepository struct {
	mock.Mock
}

func (m *MockReferralRepository) GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockReferralRepository) RegisterReferral(ctx context.Context, referrerID, referredID int64) (model.RegisterOutcome, error) {
	args := m.Called(ctx, referrerID, referredID)
	return args.Get(0).(model.RegisterOutcome), args.Error(1)
}

func (m *MockReferralRepository) ActivateReferral(ctx context.Context, memberID int64) (int64, bool, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockReferralRepository) DeactivateReferral(ctx context.Context, memberID int64) (int64, bool, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

type MockBroadcastRepository struct {
	mock.Mock
}

func (m *MockBroadcastRepository) GetAllUserIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockBroadcastRepository) DeleteUser(ctx context.Context, telegramID int64) error {
	args := m.Called(ctx, telegramID)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendMessage(ctx context.Context, telegramID int64, text string) error {
	args := m.Called(ctx, telegramID, text)
	return args.Error(0)
}
