package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"invite_contest_bot/internal/model"
	"invite_contest_bot/internal/service"
	"invite_contest_bot/pkg/logger"
	"go.uber.org/zap"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const updateTimeout = 30

type Bot struct {
	api      *tgbotapi.BotAPI
	svc      *service.Service
	notifier *Notifier
	groupID  int64
}

func New(api *tgbotapi.BotAPI, svc *service.Service, notifier *Notifier, groupID int64) *Bot {
	return &Bot{
		api:      api,
		svc:      svc,
		notifier: notifier,
		groupID:  groupID,
	}
}

// Run consumes updates via long polling until ctx is cancelled. Each update is
// handled end-to-end before the next one is taken.
func (b *Bot) Run(ctx context.Context) error {
	log := logger.Logger()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = updateTimeout
	updates := b.api.GetUpdatesChan(u)

	log.Info("bot started",
		zap.String("username", b.api.Self.UserName),
		zap.Int64("group_id", b.groupID))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// InviteLink builds the personal referral link a user shares.
func (b *Bot) InviteLink(telegramID int64) string {
	return fmt.Sprintf("https://t.me/%s?start=%d", b.api.Self.UserName, telegramID)
}

// parseUpdate turns one raw update into zero or more typed events. A single
// group message can carry several joined members.
func (b *Bot) parseUpdate(update tgbotapi.Update) []interface{} {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return nil
	}

	var events []interface{}

	if msg.Chat.ID == b.groupID {
		for _, member := range msg.NewChatMembers {
			if member.IsBot {
				continue
			}
			events = append(events, model.MemberJoinedEvent{
				ChatID:    msg.Chat.ID,
				MemberID:  member.ID,
				Username:  member.UserName,
				FirstName: member.FirstName,
			})
		}
		if left := msg.LeftChatMember; left != nil && !left.IsBot {
			events = append(events, model.MemberLeftEvent{
				ChatID:    msg.Chat.ID,
				MemberID:  left.ID,
				Username:  left.UserName,
				FirstName: left.FirstName,
			})
		}
	}

	if !msg.IsCommand() {
		return events
	}

	switch msg.Command() {
	case "start":
		if msg.Chat.IsPrivate() {
			events = append(events, parseStartCommand(msg))
		}
	case "rank":
		if msg.Chat.IsPrivate() {
			events = append(events, model.RankQueryEvent{UserID: msg.From.ID})
		}
	case "top":
		events = append(events, model.LeaderboardQueryEvent{
			UserID:    msg.From.ID,
			ChatID:    msg.Chat.ID,
			FromGroup: !msg.Chat.IsPrivate(),
		})
	}

	return events
}

func parseStartCommand(msg *tgbotapi.Message) model.StartEvent {
	event := model.StartEvent{
		UserID:    msg.From.ID,
		Username:  msg.From.UserName,
		FirstName: msg.From.FirstName,
	}

	payload := strings.TrimSpace(msg.CommandArguments())
	if payload == "" {
		return event
	}

	referrerID, err := strconv.ParseInt(payload, 10, 64)
	if err != nil || referrerID <= 0 {
		event.MalformedPayload = true
		return event
	}

	event.ReferrerID = &referrerID
	return event
}

// isGroupAdmin asks the transport whether the user administers the contest
// group. Lookup failures count as not-admin.
func (b *Bot) isGroupAdmin(userID int64) bool {
	member, err := b.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: b.groupID,
			UserID: userID,
		},
	})
	if err != nil {
		logger.Logger().Warn("failed to get chat member status",
			zap.Int64("user_id", userID),
			zap.Error(err))
		return false
	}

	return member.Status == "creator" || member.Status == "administrator"
}
