package service

import (
	"context"
	"testing"

	"invite_contest_bot/internal/model"
	"invite_contest_bot/internal/repository"

	"github.com/stretchr/testify/assert"
)

type fakeReferral struct {
	referrerID int64
	active     bool
}

// fakeStore mirrors the repository's transition semantics in memory, including
// the zero floor on decrement, for sequence tests.
type fakeStore struct {
	counts    map[int64]int
	referrals map[int64]*fakeReferral
}

func newFakeStore(userIDs ...int64) *fakeStore {
	s := &fakeStore{
		counts:    make(map[int64]int),
		referrals: make(map[int64]*fakeReferral),
	}
	for _, id := range userIDs {
		s.counts[id] = 0
	}
	return s
}

func (s *fakeStore) GetUserByTelegramID(_ context.Context, telegramID int64) (*model.User, error) {
	count, ok := s.counts[telegramID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &model.User{TelegramID: telegramID, ReferralCount: count}, nil
}

func (s *fakeStore) RegisterReferral(_ context.Context, referrerID, referredID int64) (model.RegisterOutcome, error) {
	ref, ok := s.referrals[referredID]
	if !ok {
		s.referrals[referredID] = &fakeReferral{referrerID: referrerID}
		return model.RegisterCreated, nil
	}
	if ref.active {
		return model.RegisterAlreadyActive, nil
	}
	ref.referrerID = referrerID
	return model.RegisterReassigned, nil
}

func (s *fakeStore) ActivateReferral(_ context.Context, memberID int64) (int64, bool, error) {
	ref, ok := s.referrals[memberID]
	if !ok || ref.active {
		return 0, false, nil
	}
	ref.active = true
	s.counts[ref.referrerID]++
	return ref.referrerID, true, nil
}

func (s *fakeStore) DeactivateReferral(_ context.Context, memberID int64) (int64, bool, error) {
	ref, ok := s.referrals[memberID]
	if !ok || !ref.active {
		return 0, false, nil
	}
	ref.active = false
	if s.counts[ref.referrerID] > 0 {
		s.counts[ref.referrerID]--
	}
	return ref.referrerID, true, nil
}

func (s *fakeStore) count(telegramID int64) int {
	return s.counts[telegramID]
}

// assertInvariant checks that every stored count equals the number of active
// referrals owned by that user.
func (s *fakeStore) assertInvariant(t *testing.T) {
	t.Helper()
	for userID, count := range s.counts {
		active := 0
		for _, ref := range s.referrals {
			if ref.referrerID == userID && ref.active {
				active++
			}
		}
		assert.Equal(t, active, count, "referral_count drifted for user %d", userID)
		assert.GreaterOrEqual(t, count, 0)
	}
}
