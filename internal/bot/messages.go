package bot

import (
	"fmt"
	"strings"

	"invite_contest_bot/internal/model"
)

const (
	msgSomethingWentWrong = "Something went wrong, please try again later."
	msgSelfReferral       = "You can't use your own invite link \U0001F609"
	msgBadStartPayload    = "That invite link looks broken. Ask your friend for a fresh one!"
	msgAlreadyActive      = "You're already a counted member of the group. Share your own link to climb the board!"
	msgNoReferralsYet     = "No referrals yet. Share your invite link to get on the board!"
	msgLeaderboardEmpty   = "The leaderboard is empty. Be the first to invite someone!"
)

func welcomeMessage(firstName, inviteLink string) string {
	return fmt.Sprintf(
		"Hi %s! \U0001F44B\n\nInvite friends to the group with your personal link and climb the leaderboard:\n%s\n\nCommands:\n/rank — your score and place\n/top — the leaderboard",
		firstName, inviteLink)
}

func joinPromptMessage() string {
	return "Almost there! Join the group and your inviter gets the credit."
}

func pendingReferralMessage(firstName string) string {
	return fmt.Sprintf("%s opened your invite link. You'll be credited as soon as they join the group!", firstName)
}

func returningReferralMessage(firstName string) string {
	return fmt.Sprintf("%s is coming back through your invite link. You'll be credited when they rejoin!", firstName)
}

func referralCreditedMessage(firstName string) string {
	return fmt.Sprintf("\U0001F389 %s joined the group — that's +1 referral for you! Check /rank.", firstName)
}

func referralLostMessage(firstName string) string {
	return fmt.Sprintf("%s left the group, so one referral was removed from your score.", firstName)
}

func rankMessage(rank *model.RankInfo) string {
	if !rank.Ranked {
		return msgNoReferralsYet
	}
	return fmt.Sprintf("You have %d referral(s) and hold place %d on the leaderboard.", rank.ReferralCount, rank.Rank)
}

func leaderboardMessage(entries []*model.LeaderboardEntry) string {
	if len(entries) == 0 {
		return msgLeaderboardEmpty
	}

	var sb strings.Builder
	sb.WriteString("\U0001F3C6 Referral leaderboard:\n")
	for i, entry := range entries {
		sb.WriteString(fmt.Sprintf("%d. %s — %d\n", i+1, entry.DisplayName, entry.ReferralCount))
	}
	return strings.TrimRight(sb.String(), "\n")
}
