// Package postgres implements the PostgreSQL persistence layer for Challenge Hub.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/challenge-hub/challenge-hub-bot/internal/domain/progress"
	"github.com/challenge-hub/challenge-hub-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ProgressRepository implements progress.Repository for PostgreSQL.
type ProgressRepository struct {
	conn *Connection
}

// NewProgressRepository creates a new ProgressRepository.
func NewProgressRepository(conn *Connection) *ProgressRepository {
	return &ProgressRepository{conn: conn}
}

// GetByUserID returns the progress record for a user.
func (r *ProgressRepository) GetByUserID(ctx context.Context, userID shared.UserID) (*progress.UserProgress, error) {
	query := `
		SELECT user_id, xp, streak, best_streak, last_completion, total_completions,
		       created_at, updated_at
		FROM user_progress
		WHERE user_id = $1
	`

	row := r.conn.QueryRow(ctx, query, userID.Int64())
	return r.scanProgress(row)
}

// ApplyCompletion persists a credited completion in a single statement.
// XP is added as a delta, so a concurrent AddXP is never overwritten, and
// the write is guarded by the previously observed completion instant: when
// another completion got there first, the statement matches no row and
// shared.ErrAlreadyCompleted is returned.
func (r *ProgressRepository) ApplyCompletion(ctx context.Context, p *progress.UserProgress, xpDelta int64, prev *time.Time) (*progress.UserProgress, error) {
	query := `
		INSERT INTO user_progress (user_id, xp, streak, best_streak, last_completion, total_completions)
		VALUES ($1, $2, $3, $4, $5, 1)
		ON CONFLICT (user_id) DO UPDATE SET
			xp = user_progress.xp + EXCLUDED.xp,
			streak = EXCLUDED.streak,
			best_streak = GREATEST(user_progress.best_streak, EXCLUDED.best_streak),
			last_completion = EXCLUDED.last_completion,
			total_completions = user_progress.total_completions + 1,
			updated_at = NOW()
		WHERE user_progress.last_completion IS NOT DISTINCT FROM $6
		RETURNING user_id, xp, streak, best_streak, last_completion, total_completions,
		          created_at, updated_at
	`

	row := r.conn.QueryRow(ctx, query,
		p.UserID.Int64(),
		xpDelta,
		p.Streak,
		p.BestStreak,
		p.LastCompletion,
		prev,
	)

	updated, err := r.scanProgress(row)
	if err != nil {
		if errors.Is(err, shared.ErrUserNotFound) {
			return nil, shared.ErrAlreadyCompleted
		}
		return nil, fmt.Errorf("failed to apply completion: %w", err)
	}

	return updated, nil
}

// AddXP atomically adds XP, creating the record if absent, and returns the
// updated progress. A single-statement upsert serializes concurrent writers
// on the row.
func (r *ProgressRepository) AddXP(ctx context.Context, userID shared.UserID, amount int64) (*progress.UserProgress, error) {
	query := `
		INSERT INTO user_progress (user_id, xp)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET
			xp = user_progress.xp + EXCLUDED.xp,
			updated_at = NOW()
		RETURNING user_id, xp, streak, best_streak, last_completion, total_completions,
		          created_at, updated_at
	`

	row := r.conn.QueryRow(ctx, query, userID.Int64(), amount)
	p, err := r.scanProgress(row)
	if err != nil {
		return nil, fmt.Errorf("failed to add xp: %w", err)
	}

	return p, nil
}

// Top returns up to limit records ordered by xp descending, user_id ascending.
func (r *ProgressRepository) Top(ctx context.Context, limit int) ([]*progress.UserProgress, error) {
	query := `
		SELECT user_id, xp, streak, best_streak, last_completion, total_completions,
		       created_at, updated_at
		FROM user_progress
		ORDER BY xp DESC, user_id ASC
		LIMIT $1
	`

	rows, err := r.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var result []*progress.UserProgress
	for rows.Next() {
		p, err := r.scanProgress(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}

	return result, rows.Err()
}

// Count returns the total number of progress records.
func (r *ProgressRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, "SELECT COUNT(*) FROM user_progress").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count user progress: %w", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *ProgressRepository) scanProgress(row pgx.Row) (*progress.UserProgress, error) {
	var (
		p              progress.UserProgress
		userID         int64
		xp             int64
		lastCompletion *time.Time
	)

	err := row.Scan(
		&userID,
		&xp,
		&p.Streak,
		&p.BestStreak,
		&lastCompletion,
		&p.TotalCompletions,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user progress: %w", err)
	}

	p.UserID = shared.UserID(userID)
	p.XP = shared.XP(xp)
	p.LastCompletion = lastCompletion
	return &p, nil
}
