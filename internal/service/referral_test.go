package service

import (
	"context"
	"testing"

	"invite_contest_bot/internal/model"
	"invite_contest_bot/internal/repository"
	"invite_contest_bot/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestReferralService_Register(t *testing.T) {
	tests := []struct {
		name            string
		referrerID      int64
		referredID      int64
		mockSetup       func(mockRepo *mocks.MockReferralRepository)
		expectedOutcome model.RegisterOutcome
		expectedError   error
	}{
		{
			name:            "Self referral is rejected without touching the store",
			referrerID:      42,
			referredID:      42,
			mockSetup:       func(mockRepo *mocks.MockReferralRepository) {},
			expectedOutcome: model.RegisterSelfReferral,
		},
		{
			name:       "Unknown referrer changes nothing",
			referrerID: 99,
			referredID: 7,
			mockSetup: func(mockRepo *mocks.MockReferralRepository) {
				mockRepo.On("GetUserByTelegramID", mock.Anything, int64(99)).
					Return(nil, repository.ErrNotFound)
			},
			expectedOutcome: model.RegisterUnknownReferrer,
		},
		{
			name:       "First registration creates a pending referral",
			referrerID: 1,
			referredID: 2,
			mockSetup: func(mockRepo *mocks.MockReferralRepository) {
				mockRepo.On("GetUserByTelegramID", mock.Anything, int64(1)).
					Return(&model.User{TelegramID: 1}, nil)
				mockRepo.On("RegisterReferral", mock.Anything, int64(1), int64(2)).
					Return(model.RegisterCreated, nil)
			},
			expectedOutcome: model.RegisterCreated,
		},
		{
			name:       "Active referral is left untouched",
			referrerID: 1,
			referredID: 2,
			mockSetup: func(mockRepo *mocks.MockReferralRepository) {
				mockRepo.On("GetUserByTelegramID", mock.Anything, int64(1)).
					Return(&model.User{TelegramID: 1}, nil)
				mockRepo.On("RegisterReferral", mock.Anything, int64(1), int64(2)).
					Return(model.RegisterAlreadyActive, nil)
			},
			expectedOutcome: model.RegisterAlreadyActive,
		},
		{
			name:       "Store error propagates",
			referrerID: 1,
			referredID: 2,
			mockSetup: func(mockRepo *mocks.MockReferralRepository) {
				mockRepo.On("GetUserByTelegramID", mock.Anything, int64(1)).
					Return(&model.User{TelegramID: 1}, nil)
				mockRepo.On("RegisterReferral", mock.Anything, int64(1), int64(2)).
					Return(model.RegisterOutcome(0), assert.AnError)
			},
			expectedError: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockReferralRepository{}
			tt.mockSetup(mockRepo)
			service := NewReferralService(mockRepo)

			result, err := service.Register(context.Background(), tt.referrerID, tt.referredID)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedOutcome, result.Outcome)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestReferralService_OnMemberJoined_NoPendingReferral(t *testing.T) {
	mockRepo := &mocks.MockReferralRepository{}
	mockRepo.On("ActivateReferral", mock.Anything, int64(5)).
		Return(int64(0), false, nil)
	service := NewReferralService(mockRepo)

	result, err := service.OnMemberJoined(context.Background(), 5)

	assert.NoError(t, err)
	assert.False(t, result.Credited)
	mockRepo.AssertExpectations(t)
}

func TestReferralService_OnMemberLeft_NoActiveReferral(t *testing.T) {
	mockRepo := &mocks.MockReferralRepository{}
	mockRepo.On("DeactivateReferral", mock.Anything, int64(5)).
		Return(int64(0), false, nil)
	service := NewReferralService(mockRepo)

	result, err := service.OnMemberLeft(context.Background(), 5)

	assert.NoError(t, err)
	assert.False(t, result.Debited)
	mockRepo.AssertExpectations(t)
}

// Sequence properties run against a stateful in-memory store that mirrors the
// SQL transitions, so the count-equals-active-referrals invariant can be
// checked after every step.

func TestReferralService_JoinLeaveCycle(t *testing.T) {
	store := newFakeStore(1, 2)
	service := NewReferralService(store)
	ctx := context.Background()

	result, err := service.Register(ctx, 1, 2)
	assert.NoError(t, err)
	assert.Equal(t, model.RegisterCreated, result.Outcome)
	store.assertInvariant(t)

	join, err := service.OnMemberJoined(ctx, 2)
	assert.NoError(t, err)
	assert.True(t, join.Credited)
	assert.Equal(t, int64(1), join.ReferrerID)
	assert.Equal(t, 1, store.count(1))
	store.assertInvariant(t)

	leave, err := service.OnMemberLeft(ctx, 2)
	assert.NoError(t, err)
	assert.True(t, leave.Debited)
	assert.Equal(t, 0, store.count(1))
	store.assertInvariant(t)

	rejoin, err := service.OnMemberJoined(ctx, 2)
	assert.NoError(t, err)
	assert.True(t, rejoin.Credited)
	assert.Equal(t, 1, store.count(1))
	store.assertInvariant(t)
}

func TestReferralService_RepeatRegistrationHitsReassignBranch(t *testing.T) {
	store := newFakeStore(1, 2)
	service := NewReferralService(store)
	ctx := context.Background()

	first, err := service.Register(ctx, 1, 2)
	assert.NoError(t, err)
	assert.Equal(t, model.RegisterCreated, first.Outcome)

	// Same pair again while still pending: one row, reassign branch, so the
	// referrer is not congratulated about a "new" referral twice.
	second, err := service.Register(ctx, 1, 2)
	assert.NoError(t, err)
	assert.Equal(t, model.RegisterReassigned, second.Outcome)
	assert.Equal(t, 1, len(store.referrals))
	store.assertInvariant(t)
}

func TestReferralService_Reassignment(t *testing.T) {
	store := newFakeStore(1, 2, 3)
	service := NewReferralService(store)
	ctx := context.Background()

	_, err := service.Register(ctx, 1, 2)
	assert.NoError(t, err)
	_, err = service.OnMemberJoined(ctx, 2)
	assert.NoError(t, err)
	assert.Equal(t, 1, store.count(1))

	_, err = service.OnMemberLeft(ctx, 2)
	assert.NoError(t, err)
	assert.Equal(t, 0, store.count(1))

	result, err := service.Register(ctx, 3, 2)
	assert.NoError(t, err)
	assert.Equal(t, model.RegisterReassigned, result.Outcome)

	join, err := service.OnMemberJoined(ctx, 2)
	assert.NoError(t, err)
	assert.True(t, join.Credited)
	assert.Equal(t, int64(3), join.ReferrerID)
	assert.Equal(t, 1, store.count(3))
	assert.Equal(t, 0, store.count(1))
	store.assertInvariant(t)
}

func TestReferralService_ActiveReferralCannotBeReassigned(t *testing.T) {
	store := newFakeStore(1, 2, 3)
	service := NewReferralService(store)
	ctx := context.Background()

	_, err := service.Register(ctx, 1, 2)
	assert.NoError(t, err)
	_, err = service.OnMemberJoined(ctx, 2)
	assert.NoError(t, err)

	result, err := service.Register(ctx, 3, 2)
	assert.NoError(t, err)
	assert.Equal(t, model.RegisterAlreadyActive, result.Outcome)
	assert.Equal(t, int64(1), store.referrals[2].referrerID)
	assert.Equal(t, 1, store.count(1))
	store.assertInvariant(t)
}

func TestReferralService_LeaveFloorsAtZero(t *testing.T) {
	store := newFakeStore(1, 2)
	service := NewReferralService(store)
	ctx := context.Background()

	_, err := service.Register(ctx, 1, 2)
	assert.NoError(t, err)

	// Leave before any join: the referral is not active, nothing to debit.
	leave, err := service.OnMemberLeft(ctx, 2)
	assert.NoError(t, err)
	assert.False(t, leave.Debited)
	assert.Equal(t, 0, store.count(1))

	_, err = service.OnMemberJoined(ctx, 2)
	assert.NoError(t, err)
	_, err = service.OnMemberLeft(ctx, 2)
	assert.NoError(t, err)

	again, err := service.OnMemberLeft(ctx, 2)
	assert.NoError(t, err)
	assert.False(t, again.Debited)
	assert.Equal(t, 0, store.count(1))
	store.assertInvariant(t)
}

func TestReferralService_UnreferredJoinIsNoop(t *testing.T) {
	store := newFakeStore(1, 2)
	service := NewReferralService(store)

	join, err := service.OnMemberJoined(context.Background(), 2)
	assert.NoError(t, err)
	assert.False(t, join.Credited)
	assert.Equal(t, 0, store.count(1))
	assert.Equal(t, 0, len(store.referrals))
}
