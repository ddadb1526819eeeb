package service

import (
	"context"
	"errors"
	"fmt"

	"invite_contest_bot/internal/model"
	"invite_contest_bot/internal/repository"
)

// RegisterResult is the transactional outcome of a registration attempt. Any
// notifications derived from it are best-effort and sent after the commit.
type RegisterResult struct {
	Outcome    model.RegisterOutcome
	ReferrerID int64
	ReferredID int64
}

type JoinResult struct {
	Credited   bool
	ReferrerID int64
	MemberID   int64
}

type LeaveResult struct {
	Debited    bool
	ReferrerID int64
	MemberID   int64
}

type ReferralService struct {
	repo ReferralRepository
}

func NewReferralService(repo ReferralRepository) *ReferralService {
	return &ReferralService{
		repo: repo,
	}
}

// Register records referredID's intent to join under referrerID's link.
// Self-referrals and unknown referrers change nothing; an existing inactive
// referral is reassigned unconditionally, an active one is left alone.
func (s *ReferralService) Register(ctx context.Context, referrerID, referredID int64) (*RegisterResult, error) {
	result := &RegisterResult{
		ReferrerID: referrerID,
		ReferredID: referredID,
	}

	if referrerID == referredID {
		result.Outcome = model.RegisterSelfReferral
		return result, nil
	}

	_, err := s.repo.GetUserByTelegramID(ctx, referrerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			result.Outcome = model.RegisterUnknownReferrer
			return result, nil
		}
		return nil, fmt.Errorf("failed to look up referrer: %w", err)
	}

	outcome, err := s.repo.RegisterReferral(ctx, referrerID, referredID)
	if err != nil {
		return nil, fmt.Errorf("failed to register referral: %w", err)
	}

	result.Outcome = outcome
	return result, nil
}

// OnMemberJoined activates a pending referral for the member, crediting the
// referrer exactly once. A join without a pending referral is a no-op.
func (s *ReferralService) OnMemberJoined(ctx context.Context, memberID int64) (*JoinResult, error) {
	referrerID, credited, err := s.repo.ActivateReferral(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to activate referral: %w", err)
	}

	return &JoinResult{
		Credited:   credited,
		ReferrerID: referrerID,
		MemberID:   memberID,
	}, nil
}

// OnMemberLeft deactivates the member's active referral and debits the
// referrer, never below zero. A leave without an active referral is a no-op.
func (s *ReferralService) OnMemberLeft(ctx context.Context, memberID int64) (*LeaveResult, error) {
	referrerID, debited, err := s.repo.DeactivateReferral(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to deactivate referral: %w", err)
	}

	return &LeaveResult{
		Debited:    debited,
		ReferrerID: referrerID,
		MemberID:   memberID,
	}, nil
}
