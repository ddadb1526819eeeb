package service

import (
	"context"
	"errors"

	"invite_contest_bot/internal/model"
)

var (
	ErrUserNotFound = errors.New("user not found")
	// ErrRecipientBlocked is reported by a Notifier when the recipient has
	// blocked the bot. Broadcast deletes such users; single sends just log it.
	ErrRecipientBlocked = errors.New("recipient blocked the bot")
)

type Service struct {
	*UserService
	*ReferralService
	*BroadcastService
}

func NewService(userService *UserService, referralService *ReferralService, broadcastService *BroadcastService) *Service {
	return &Service{
		UserService:      userService,
		ReferralService:  referralService,
		BroadcastService: broadcastService,
	}
}

// Notifier delivers a best-effort text message to a user. Errors are reported
// so callers can decide whether to log or act on them; they never affect a
// committed state transition.
type Notifier interface {
	SendMessage(ctx context.Context, telegramID int64, text string) error
}

type UserServiceI interface {
	GetOrCreateUser(ctx context.Context, telegramID int64, username, firstName string) (*model.User, error)
	GetRank(ctx context.Context, telegramID int64) (*model.RankInfo, error)
	GetLeaderboard(ctx context.Context) ([]*model.LeaderboardEntry, error)
}

type UserRepository interface {
	GetOrCreateUser(ctx context.Context, telegramID int64, username, firstName string) (*model.User, error)
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	GetUserRank(ctx context.Context, telegramID int64) (*model.RankInfo, error)
	GetTopUsers(ctx context.Context, limit int) ([]*model.User, error)
}

type ReferralServiceI interface {
	Register(ctx context.Context, referrerID, referredID int64) (*RegisterResult, error)
	OnMemberJoined(ctx context.Context, memberID int64) (*JoinResult, error)
	OnMemberLeft(ctx context.Context, memberID int64) (*LeaveResult, error)
}

type ReferralRepository interface {
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	RegisterReferral(ctx context.Context, referrerID, referredID int64) (model.RegisterOutcome, error)
	ActivateReferral(ctx context.Context, memberID int64) (int64, bool, error)
	DeactivateReferral(ctx context.Context, memberID int64) (int64, bool, error)
}

type BroadcastServiceI interface {
	Broadcast(ctx context.Context, text string) (*BroadcastResult, error)
}

type BroadcastRepository interface {
	GetAllUserIDs(ctx context.Context) ([]int64, error)
	DeleteUser(ctx context.Context, telegramID int64) error
}
