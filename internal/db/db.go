// internal/db/db.go
package db

import (
    "database/sql"

    _ "github.com/lib/pq"
)

var DB *sql.DB

func Init(dsn string) error {
    var err error
    DB, err = sql.Open("postgres", dsn)
    if err != nil {
        return err
    }
    return DB.Ping()
}

// Migrate creates the tables if they do not exist yet.
func Migrate() error {
    schema := `
    CREATE TABLE IF NOT EXISTS campaigns (
        id            SERIAL PRIMARY KEY,
        user_id       INT NOT NULL,
        name          TEXT NOT NULL,
        prompt        TEXT NOT NULL,
        tone          TEXT NOT NULL DEFAULT 'professional',
        platforms     TEXT[] NOT NULL,
        duration_days INT NOT NULL DEFAULT 0,
        posting_time  TEXT NOT NULL DEFAULT '09:00',
        timezone      TEXT NOT NULL DEFAULT 'UTC',
        status        TEXT NOT NULL DEFAULT 'active',
        created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        updated_at    TIMESTAMPTZ
    );

    CREATE TABLE IF NOT EXISTS posts (
        id               SERIAL PRIMARY KEY,
        campaign_id      INT NOT NULL REFERENCES campaigns(id),
        platform         TEXT NOT NULL,
        day_index        INT NOT NULL,
        content          TEXT NOT NULL,
        status           TEXT NOT NULL DEFAULT 'scheduled',
        scheduled_at     TIMESTAMPTZ NOT NULL,
        published_at     TIMESTAMPTZ,
        platform_post_id TEXT NOT NULL DEFAULT '',
        engagement       JSONB NOT NULL DEFAULT '{}',
        last_error       TEXT NOT NULL DEFAULT '',
        retry_count      INT NOT NULL DEFAULT 0,
        created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        UNIQUE (campaign_id, platform, day_index)
    );

    CREATE TABLE IF NOT EXISTS social_accounts (
        id               SERIAL PRIMARY KEY,
        user_id          INT NOT NULL,
        platform         TEXT NOT NULL,
        access_token     TEXT NOT NULL,
        refresh_token    TEXT NOT NULL DEFAULT '',
        token_expires_at TIMESTAMPTZ,
        active           BOOLEAN NOT NULL DEFAULT TRUE,
        created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
    );
    `
    _, err := DB.Exec(schema)
    return err
}
