// Package postgres implements the PostgreSQL persistence layer for Challenge Hub.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/challenge-hub/challenge-hub-bot/internal/domain/challenge"
	"github.com/challenge-hub/challenge-hub-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUGGESTION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// SuggestionRepository implements challenge.Repository for PostgreSQL.
type SuggestionRepository struct {
	conn *Connection
}

// NewSuggestionRepository creates a new SuggestionRepository.
func NewSuggestionRepository(conn *Connection) *SuggestionRepository {
	return &SuggestionRepository{conn: conn}
}

// Create saves a new suggestion and fills in its sequential ID.
func (r *SuggestionRepository) Create(ctx context.Context, s *challenge.Suggestion) error {
	query := `
		INSERT INTO challenge_suggestions (text, category, submitted_by, approved, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.conn.QueryRow(ctx, query,
		s.Text,
		s.Category,
		s.SubmittedBy.Int64(),
		s.Approved,
		s.CreatedAt,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("failed to create suggestion: %w", err)
	}

	return nil
}

// GetByID returns a suggestion by ID.
func (r *SuggestionRepository) GetByID(ctx context.Context, id int64) (*challenge.Suggestion, error) {
	query := `
		SELECT id, text, category, submitted_by, approved, created_at
		FROM challenge_suggestions
		WHERE id = $1
	`

	row := r.conn.QueryRow(ctx, query, id)
	return r.scanSuggestion(row)
}

// Approve marks a suggestion as approved.
func (r *SuggestionRepository) Approve(ctx context.Context, id int64) error {
	query := `UPDATE challenge_suggestions SET approved = TRUE WHERE id = $1`

	result, err := r.conn.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to approve suggestion: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrSuggestionNotFound
	}

	return nil
}

// PickAndConsumeApproved selects one approved suggestion uniformly at random,
// deletes it and returns it. The destructive read runs as a single statement
// so two concurrent daily cycles can never consume the same row.
func (r *SuggestionRepository) PickAndConsumeApproved(ctx context.Context) (*challenge.Suggestion, error) {
	query := `
		DELETE FROM challenge_suggestions
		WHERE id = (
			SELECT id FROM challenge_suggestions
			WHERE approved = TRUE
			ORDER BY random()
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, text, category, submitted_by, approved, created_at
	`

	row := r.conn.QueryRow(ctx, query)
	s, err := r.scanSuggestion(row)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.ErrNoApprovedSuggestions
		}
		return nil, err
	}

	return s, nil
}

// ListPending returns up to limit unapproved suggestions, oldest first.
func (r *SuggestionRepository) ListPending(ctx context.Context, limit int) ([]*challenge.Suggestion, error) {
	query := `
		SELECT id, text, category, submitted_by, approved, created_at
		FROM challenge_suggestions
		WHERE approved = FALSE
		ORDER BY created_at ASC, id ASC
		LIMIT $1
	`

	rows, err := r.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending suggestions: %w", err)
	}
	defer rows.Close()

	var result []*challenge.Suggestion
	for rows.Next() {
		s, err := r.scanSuggestion(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}

	return result, rows.Err()
}

// CountApproved returns the number of approved suggestions.
func (r *SuggestionRepository) CountApproved(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx,
		"SELECT COUNT(*) FROM challenge_suggestions WHERE approved = TRUE",
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count approved suggestions: %w", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *SuggestionRepository) scanSuggestion(row pgx.Row) (*challenge.Suggestion, error) {
	var (
		s           challenge.Suggestion
		submittedBy int64
	)

	err := row.Scan(
		&s.ID,
		&s.Text,
		&s.Category,
		&submittedBy,
		&s.Approved,
		&s.CreatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrSuggestionNotFound
		}
		return nil, fmt.Errorf("failed to scan suggestion: %w", err)
	}

	s.SubmittedBy = shared.UserID(submittedBy)
	return &s, nil
}
