package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"invite_contest_bot/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type User struct {
	TelegramID    int64     `db:"telegram_id"`
	Username      string    `db:"username"`
	FirstName     string    `db:"first_name"`
	ReferralCount int       `db:"referral_count"`
	CreatedAt     time.Time `db:"created_at"`
}

type userRank struct {
	ReferralCount int `db:"referral_count"`
	Rank          int `db:"rank"`
}

// GetOrCreateUser is the upsert every inbound event goes through before any
// referral row may reference the user id.
func (r *Repository) GetOrCreateUser(ctx context.Context, telegramID int64, username, firstName string) (*model.User, error) {
	var user User

	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		insertQuery, insertArgs, err := squirrel.
			Insert("users").
			SetMap(map[string]interface{}{
				"telegram_id": telegramID,
				"username":    username,
				"first_name":  firstName,
			}).
			Suffix("ON CONFLICT (telegram_id) DO NOTHING").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build user insert query: %w", err)
		}

		_, err = tx.ExecContext(ctx, insertQuery, insertArgs...)
		if err != nil {
			return fmt.Errorf("failed to insert user: %w", err)
		}

		selectQuery, selectArgs, err := squirrel.
			Select("*").
			From("users").
			Where(squirrel.Eq{"telegram_id": telegramID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		return tx.GetContext(ctx, &user, selectQuery, selectArgs...)
	})
	if err != nil {
		return nil, err
	}

	return &model.User{
		TelegramID:    user.TelegramID,
		Username:      user.Username,
		FirstName:     user.FirstName,
		ReferralCount: user.ReferralCount,
		CreatedAt:     user.CreatedAt,
	}, nil
}

func (r *Repository) GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	var user User
	query, args, err := squirrel.
		Select("*").
		From("users").
		Where(squirrel.Eq{"telegram_id": telegramID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &user, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &model.User{
		TelegramID:    user.TelegramID,
		Username:      user.Username,
		FirstName:     user.FirstName,
		ReferralCount: user.ReferralCount,
		CreatedAt:     user.CreatedAt,
	}, nil
}

// GetUserRank reads the count and the competition rank in one statement so the
// pair always comes from a single snapshot.
func (r *Repository) GetUserRank(ctx context.Context, telegramID int64) (*model.RankInfo, error) {
	var row userRank
	query, args, err := squirrel.
		Select(
			"u.referral_count",
			"(SELECT count(*) + 1 FROM users u2 WHERE u2.referral_count > u.referral_count) AS rank",
		).
		From("users u").
		Where(squirrel.Eq{"u.telegram_id": telegramID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &model.RankInfo{
		TelegramID:    telegramID,
		ReferralCount: row.ReferralCount,
		Rank:          row.Rank,
		Ranked:        row.ReferralCount > 0,
	}, nil
}

// GetTopUsers returns up to limit users with at least one active referral,
// ordered by count descending. Ties are ordered by telegram_id so the board
// is deterministic.
func (r *Repository) GetTopUsers(ctx context.Context, limit int) ([]*model.User, error) {
	var users []User
	query, args, err := squirrel.
		Select("telegram_id", "username", "first_name", "referral_count", "created_at").
		From("users").
		Where(squirrel.Gt{"referral_count": 0}).
		OrderBy("referral_count DESC", "telegram_id ASC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &users, query, args...)
	if err != nil {
		return nil, err
	}

	userList := make([]*model.User, len(users))
	for i, user := range users {
		userList[i] = &model.User{
			TelegramID:    user.TelegramID,
			Username:      user.Username,
			FirstName:     user.FirstName,
			ReferralCount: user.ReferralCount,
			CreatedAt:     user.CreatedAt,
		}
	}

	return userList, nil
}

func (r *Repository) GetAllUserIDs(ctx context.Context) ([]int64, error) {
	query, args, err := squirrel.
		Select("telegram_id").
		From("users").
		OrderBy("telegram_id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var ids []int64
	err = r.db.SelectContext(ctx, &ids, query, args...)
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// DeleteUser removes the user row; dependent referral rows cascade away.
func (r *Repository) DeleteUser(ctx context.Context, telegramID int64) error {
	query, args, err := squirrel.
		Delete("users").
		Where(squirrel.Eq{"telegram_id": telegramID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}
