package bot

import (
	"context"

	"invite_contest_bot/internal/model"
	"invite_contest_bot/pkg/logger"
	"go.uber.org/zap"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	for _, event := range b.parseUpdate(update) {
		switch e := event.(type) {
		case model.StartEvent:
			b.handleStart(ctx, e)
		case model.MemberJoinedEvent:
			b.handleMemberJoined(ctx, e)
		case model.MemberLeftEvent:
			b.handleMemberLeft(ctx, e)
		case model.RankQueryEvent:
			b.handleRankQuery(ctx, e)
		case model.LeaderboardQueryEvent:
			b.handleLeaderboardQuery(ctx, e)
		}
	}
}

// notify is the best-effort send used for everything the state machine does
// not depend on. Failures are logged and swallowed.
func (b *Bot) notify(ctx context.Context, telegramID int64, text string) {
	if err := b.notifier.SendMessage(ctx, telegramID, text); err != nil {
		logger.Logger().Warn("failed to notify user",
			zap.Int64("telegram_id", telegramID),
			zap.Error(err))
	}
}

func (b *Bot) handleStart(ctx context.Context, e model.StartEvent) {
	log := logger.Logger()

	user, err := b.svc.GetOrCreateUser(ctx, e.UserID, e.Username, e.FirstName)
	if err != nil {
		log.Error("failed to upsert user on /start",
			zap.Int64("telegram_id", e.UserID),
			zap.Error(err))
		b.notify(ctx, e.UserID, msgSomethingWentWrong)
		return
	}

	if e.MalformedPayload {
		b.notify(ctx, e.UserID, msgBadStartPayload)
		b.notify(ctx, e.UserID, welcomeMessage(user.FirstName, b.InviteLink(user.TelegramID)))
		return
	}

	if e.ReferrerID == nil {
		b.notify(ctx, e.UserID, welcomeMessage(user.FirstName, b.InviteLink(user.TelegramID)))
		return
	}

	result, err := b.svc.Register(ctx, *e.ReferrerID, e.UserID)
	if err != nil {
		log.Error("failed to register referral",
			zap.Int64("referrer_id", *e.ReferrerID),
			zap.Int64("referred_id", e.UserID),
			zap.Error(err))
		b.notify(ctx, e.UserID, msgSomethingWentWrong)
		return
	}

	// The transition is committed; everything below is best-effort.
	switch result.Outcome {
	case model.RegisterSelfReferral:
		b.notify(ctx, e.UserID, msgSelfReferral)
	case model.RegisterUnknownReferrer:
		b.notify(ctx, e.UserID, msgBadStartPayload)
	case model.RegisterCreated:
		b.notify(ctx, e.UserID, joinPromptMessage())
		b.notify(ctx, result.ReferrerID, pendingReferralMessage(displayName(e)))
	case model.RegisterReassigned:
		b.notify(ctx, e.UserID, joinPromptMessage())
		b.notify(ctx, result.ReferrerID, returningReferralMessage(displayName(e)))
	case model.RegisterAlreadyActive:
		b.notify(ctx, e.UserID, msgAlreadyActive)
	}

	b.notify(ctx, e.UserID, welcomeMessage(user.FirstName, b.InviteLink(user.TelegramID)))
}

func (b *Bot) handleMemberJoined(ctx context.Context, e model.MemberJoinedEvent) {
	log := logger.Logger()

	if _, err := b.svc.GetOrCreateUser(ctx, e.MemberID, e.Username, e.FirstName); err != nil {
		log.Error("failed to upsert joined member",
			zap.Int64("telegram_id", e.MemberID),
			zap.Error(err))
		return
	}

	result, err := b.svc.OnMemberJoined(ctx, e.MemberID)
	if err != nil {
		log.Error("failed to process member join",
			zap.Int64("telegram_id", e.MemberID),
			zap.Error(err))
		return
	}

	if !result.Credited {
		log.Debug("unreferred member joined", zap.Int64("telegram_id", e.MemberID))
		return
	}

	b.notify(ctx, result.ReferrerID, referralCreditedMessage(e.FirstName))
}

func (b *Bot) handleMemberLeft(ctx context.Context, e model.MemberLeftEvent) {
	log := logger.Logger()

	result, err := b.svc.OnMemberLeft(ctx, e.MemberID)
	if err != nil {
		log.Error("failed to process member leave",
			zap.Int64("telegram_id", e.MemberID),
			zap.Error(err))
		return
	}

	if !result.Debited {
		return
	}

	b.notify(ctx, result.ReferrerID, referralLostMessage(e.FirstName))
}

func (b *Bot) handleRankQuery(ctx context.Context, e model.RankQueryEvent) {
	rank, err := b.svc.GetRank(ctx, e.UserID)
	if err != nil {
		logger.Logger().Error("failed to get rank",
			zap.Int64("telegram_id", e.UserID),
			zap.Error(err))
		b.notify(ctx, e.UserID, msgSomethingWentWrong)
		return
	}

	b.notify(ctx, e.UserID, rankMessage(rank))
}

func (b *Bot) handleLeaderboardQuery(ctx context.Context, e model.LeaderboardQueryEvent) {
	// Inside the group only administrators may pull the board; everyone else
	// is ignored without a reply.
	if e.FromGroup && !b.isGroupAdmin(e.UserID) {
		return
	}

	entries, err := b.svc.GetLeaderboard(ctx)
	if err != nil {
		logger.Logger().Error("failed to get leaderboard", zap.Error(err))
		b.notify(ctx, e.ChatID, msgSomethingWentWrong)
		return
	}

	b.notify(ctx, e.ChatID, leaderboardMessage(entries))
}

func displayName(e model.StartEvent) string {
	if e.Username != "" {
		return "@" + e.Username
	}
	return e.FirstName
}
