// Package postgres implements the PostgreSQL persistence layer for Challenge Hub.
package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE USER PROGRESS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create user_progress table
-- Version: 001

CREATE TABLE IF NOT EXISTS user_progress (
    user_id BIGINT PRIMARY KEY,
    xp BIGINT NOT NULL DEFAULT 0,
    streak INTEGER NOT NULL DEFAULT 0,
    best_streak INTEGER NOT NULL DEFAULT 0,
    last_completion TIMESTAMP WITH TIME ZONE,
    total_completions INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    -- Constraints for data integrity
    CONSTRAINT valid_xp CHECK (xp >= 0),
    CONSTRAINT valid_streak CHECK (streak >= 0),
    CONSTRAINT valid_best_streak CHECK (best_streak >= streak),
    CONSTRAINT valid_total_completions CHECK (total_completions >= 0)
);

-- Leaderboard ordering: xp descending, ties broken by user_id ascending
CREATE INDEX IF NOT EXISTS idx_user_progress_xp ON user_progress(xp DESC, user_id ASC);
`

const migration001Down = `
DROP INDEX IF EXISTS idx_user_progress_xp;
DROP TABLE IF EXISTS user_progress;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE CHALLENGE SUGGESTIONS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create challenge_suggestions table
-- Version: 002

CREATE TABLE IF NOT EXISTS challenge_suggestions (
    id BIGSERIAL PRIMARY KEY,
    text TEXT NOT NULL,
    category TEXT NOT NULL,
    submitted_by BIGINT NOT NULL,
    approved BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT non_empty_text CHECK (length(text) > 0)
);

-- Daily pick scans only approved rows
CREATE INDEX IF NOT EXISTS idx_suggestions_approved ON challenge_suggestions(approved) WHERE approved = TRUE;
CREATE INDEX IF NOT EXISTS idx_suggestions_pending ON challenge_suggestions(created_at ASC) WHERE approved = FALSE;
`

const migration002Down = `
DROP INDEX IF EXISTS idx_suggestions_pending;
DROP INDEX IF EXISTS idx_suggestions_approved;
DROP TABLE IF EXISTS challenge_suggestions;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE CHANNEL CONFIG
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create channel_config table
-- Version: 003
-- Single-row key-value storage for channel role routing.

CREATE TABLE IF NOT EXISTS channel_config (
    id SMALLINT PRIMARY KEY DEFAULT 1,
    config JSONB NOT NULL,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT single_row CHECK (id = 1)
);
`

const migration003Down = `
DROP TABLE IF EXISTS channel_config;
`

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_user_progress",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_challenge_suggestions",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
		{
			Version: 3,
			Name:    "create_channel_config",
			UpSQL:   migration003Up,
			DownSQL: migration003Down,
		},
	}
}
