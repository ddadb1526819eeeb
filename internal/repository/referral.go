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

type Referral struct {
	ReferredID int64     `db:"referred_id"`
	ReferrerID int64     `db:"referrer_id"`
	IsActive   bool      `db:"is_active"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// getReferralForUpdate locks the referred user's row for the rest of the
// transaction so concurrent transitions for the same user serialize.
func getReferralForUpdate(ctx context.Context, tx *sqlx.Tx, referredID int64) (*Referral, error) {
	query, args, err := squirrel.
		Select("referred_id", "referrer_id", "is_active", "created_at", "updated_at").
		From("referrals").
		Where(squirrel.Eq{"referred_id": referredID}).
		Suffix("FOR UPDATE").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var ref Referral
	err = tx.GetContext(ctx, &ref, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &ref, nil
}

// RegisterReferral creates a pending referral for referredID or reassigns an
// existing inactive one to referrerID. An active referral is never touched.
// The existence check and the write commit as one transaction.
func (r *Repository) RegisterReferral(ctx context.Context, referrerID, referredID int64) (model.RegisterOutcome, error) {
	var outcome model.RegisterOutcome

	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		ref, err := getReferralForUpdate(ctx, tx, referredID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}

		if err != nil {
			insertQuery, insertArgs, err := squirrel.
				Insert("referrals").
				SetMap(map[string]interface{}{
					"referred_id": referredID,
					"referrer_id": referrerID,
					"is_active":   false,
				}).
				PlaceholderFormat(squirrel.Dollar).
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build referral insert query: %w", err)
			}

			_, err = tx.ExecContext(ctx, insertQuery, insertArgs...)
			if err != nil {
				return fmt.Errorf("failed to insert referral: %w", err)
			}

			outcome = model.RegisterCreated
			return nil
		}

		if ref.IsActive {
			outcome = model.RegisterAlreadyActive
			return nil
		}

		updateQuery, updateArgs, err := squirrel.
			Update("referrals").
			Set("referrer_id", referrerID).
			Set("updated_at", squirrel.Expr("now()")).
			Where(squirrel.Eq{"referred_id": referredID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build referral update query: %w", err)
		}

		_, err = tx.ExecContext(ctx, updateQuery, updateArgs...)
		if err != nil {
			return fmt.Errorf("failed to reassign referral: %w", err)
		}

		outcome = model.RegisterReassigned
		return nil
	})
	if err != nil {
		return 0, err
	}

	return outcome, nil
}

// ActivateReferral marks the referral for memberID active and credits the
// referrer, both in one transaction. Returns the referrer id and false when
// there is no inactive referral to activate.
func (r *Repository) ActivateReferral(ctx context.Context, memberID int64) (int64, bool, error) {
	var referrerID int64
	activated := false

	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		ref, err := getReferralForUpdate(ctx, tx, memberID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			return err
		}
		if ref.IsActive {
			return nil
		}

		updateQuery, updateArgs, err := squirrel.
			Update("referrals").
			Set("is_active", true).
			Set("updated_at", squirrel.Expr("now()")).
			Where(squirrel.Eq{"referred_id": memberID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, updateQuery, updateArgs...)
		if err != nil {
			return fmt.Errorf("failed to activate referral: %w", err)
		}

		countQuery, countArgs, err := squirrel.
			Update("users").
			Set("referral_count", squirrel.Expr("referral_count + 1")).
			Where(squirrel.Eq{"telegram_id": ref.ReferrerID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, countQuery, countArgs...)
		if err != nil {
			return fmt.Errorf("failed to credit referrer: %w", err)
		}

		referrerID = ref.ReferrerID
		activated = true
		return nil
	})
	if err != nil {
		return 0, false, err
	}

	return referrerID, activated, nil
}

// DeactivateReferral marks the referral for memberID inactive and debits the
// referrer, floored at zero, both in one transaction. Returns the referrer id
// and false when there is no active referral to deactivate.
func (r *Repository) DeactivateReferral(ctx context.Context, memberID int64) (int64, bool, error) {
	var referrerID int64
	deactivated := false

	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		ref, err := getReferralForUpdate(ctx, tx, memberID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			return err
		}
		if !ref.IsActive {
			return nil
		}

		updateQuery, updateArgs, err := squirrel.
			Update("referrals").
			Set("is_active", false).
			Set("updated_at", squirrel.Expr("now()")).
			Where(squirrel.Eq{"referred_id": memberID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, updateQuery, updateArgs...)
		if err != nil {
			return fmt.Errorf("failed to deactivate referral: %w", err)
		}

		countQuery, countArgs, err := squirrel.
			Update("users").
			Set("referral_count", squirrel.Expr("GREATEST(referral_count - 1, 0)")).
			Where(squirrel.Eq{"telegram_id": ref.ReferrerID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, countQuery, countArgs...)
		if err != nil {
			return fmt.Errorf("failed to debit referrer: %w", err)
		}

		referrerID = ref.ReferrerID
		deactivated = true
		return nil
	})
	if err != nil {
		return 0, false, err
	}

	return referrerID, deactivated, nil
}
