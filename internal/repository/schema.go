package repository

import "github.com/jmoiron/sqlx"

// Referral rows cascade away with either side of the relationship, so the
// broadcast cleanup path only ever deletes from users.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	telegram_id    BIGINT PRIMARY KEY,
	username       TEXT NOT NULL DEFAULT '',
	first_name     TEXT NOT NULL DEFAULT '',
	referral_count INT  NOT NULL DEFAULT 0 CHECK (referral_count >= 0),
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS referrals (
	referred_id BIGINT PRIMARY KEY REFERENCES users (telegram_id) ON DELETE CASCADE,
	referrer_id BIGINT NOT NULL REFERENCES users (telegram_id) ON DELETE CASCADE,
	is_active   BOOLEAN NOT NULL DEFAULT false,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_referrals_referrer_id ON referrals (referrer_id);
`

func applySchema(db *sqlx.DB) error {
	_, err := db.Exec(schema)
	return err
}
