package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"invite_contest_bot/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultBroadcastBatchSize = 20
	DefaultBroadcastPause     = time.Second
)

type BroadcastResult struct {
	BroadcastID  uuid.UUID
	SuccessCount int
	FailedCount  int
}

type BroadcastService struct {
	repo     BroadcastRepository
	notifier Notifier

	batchSize  int
	batchPause time.Duration
}

func NewBroadcastService(repo BroadcastRepository, notifier Notifier, batchSize int, batchPause time.Duration) *BroadcastService {
	if batchSize <= 0 {
		batchSize = DefaultBroadcastBatchSize
	}
	return &BroadcastService{
		repo:       repo,
		notifier:   notifier,
		batchSize:  batchSize,
		batchPause: batchPause,
	}
}

// Broadcast fans text out to every known user, pausing after each batch to
// stay under the transport's rate limit. A recipient who blocked the bot is
// deleted from the store together with their referral rows. There is no
// resumption: a crash mid-broadcast loses progress.
func (s *BroadcastService) Broadcast(ctx context.Context, text string) (*BroadcastResult, error) {
	log := logger.Logger()

	result := &BroadcastResult{
		BroadcastID: uuid.New(),
	}

	ids, err := s.repo.GetAllUserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	log.Info("starting broadcast",
		zap.String("broadcast_id", result.BroadcastID.String()),
		zap.Int("recipients", len(ids)))

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		err := s.notifier.SendMessage(ctx, id, text)
		if err != nil {
			result.FailedCount++
			log.Warn("broadcast send failed",
				zap.String("broadcast_id", result.BroadcastID.String()),
				zap.Int64("telegram_id", id),
				zap.Error(err))

			if errors.Is(err, ErrRecipientBlocked) {
				if delErr := s.repo.DeleteUser(ctx, id); delErr != nil {
					log.Error("failed to delete blocked user",
						zap.Int64("telegram_id", id),
						zap.Error(delErr))
				}
			}
		} else {
			result.SuccessCount++
		}

		if (i+1)%s.batchSize == 0 && i+1 < len(ids) {
			time.Sleep(s.batchPause)
		}
	}

	log.Info("broadcast finished",
		zap.String("broadcast_id", result.BroadcastID.String()),
		zap.Int("success", result.SuccessCount),
		zap.Int("failed", result.FailedCount))

	return result, nil
}
