package model

// Inbound transport events, parsed once at the bot boundary so the core
// never inspects raw update payloads.

type StartEvent struct {
	UserID    int64
	Username  string
	FirstName string
	// ReferrerID is nil when the command carried no usable payload.
	ReferrerID *int64
	// MalformedPayload is set when a payload was present but did not parse to
	// a user id. The user gets an informational reply and nothing changes.
	MalformedPayload bool
}

type MemberJoinedEvent struct {
	ChatID    int64
	MemberID  int64
	Username  string
	FirstName string
}

type MemberLeftEvent struct {
	ChatID    int64
	MemberID  int64
	Username  string
	FirstName string
}

type RankQueryEvent struct {
	UserID int64
}

type LeaderboardQueryEvent struct {
	UserID int64
	ChatID int64
	// FromGroup marks a request issued inside the contest group, where only
	// administrators may see the leaderboard.
	FromGroup bool
}
