package service

import (
	"context"
	"errors"
	"fmt"

	"invite_contest_bot/internal/model"
	"invite_contest_bot/internal/repository"
)

const LeaderboardLimit = 10

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) GetOrCreateUser(ctx context.Context, telegramID int64, username, firstName string) (*model.User, error) {
	user, err := s.repo.GetOrCreateUser(ctx, telegramID, username, firstName)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create user: %w", err)
	}
	return user, nil
}

// GetRank reports the user's referral count and 1-based competition rank.
// Users with no active referrals come back with Ranked=false.
func (s *UserService) GetRank(ctx context.Context, telegramID int64) (*model.RankInfo, error) {
	rank, err := s.repo.GetUserRank(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &model.RankInfo{TelegramID: telegramID}, nil
		}
		return nil, fmt.Errorf("failed to get user rank: %w", err)
	}
	return rank, nil
}

func (s *UserService) GetLeaderboard(ctx context.Context) ([]*model.LeaderboardEntry, error) {
	users, err := s.repo.GetTopUsers(ctx, LeaderboardLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top users: %w", err)
	}

	entries := make([]*model.LeaderboardEntry, len(users))
	for i, user := range users {
		entries[i] = &model.LeaderboardEntry{
			TelegramID:    user.TelegramID,
			DisplayName:   user.DisplayName(),
			ReferralCount: user.ReferralCount,
		}
	}

	return entries, nil
}
