package model

import "time"

type User struct {
	TelegramID    int64
	Username      string
	FirstName     string
	ReferralCount int
	CreatedAt     time.Time
}

// DisplayName prefers the Telegram handle over the first name.
func (u *User) DisplayName() string {
	if u.Username != "" {
		return "@" + u.Username
	}
	return u.FirstName
}

type RankInfo struct {
	TelegramID    int64
	ReferralCount int
	Rank          int
	Ranked        bool
}

type LeaderboardEntry struct {
	TelegramID    int64
	DisplayName   string
	ReferralCount int
}
