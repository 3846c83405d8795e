// Package postgres implements the PostgreSQL persistence layer for Challenge Hub.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/challenge-hub/challenge-hub-bot/internal/domain/routing"
	"github.com/challenge-hub/challenge-hub-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CHANNEL CONFIG REPOSITORY IMPLEMENTATION
// Single-row JSONB storage: the config is an opaque key-value document
// owned by the routing domain.
// ══════════════════════════════════════════════════════════════════════════════

// ConfigRepository implements routing.Repository for PostgreSQL.
type ConfigRepository struct {
	conn *Connection
}

// NewConfigRepository creates a new ConfigRepository.
func NewConfigRepository(conn *Connection) *ConfigRepository {
	return &ConfigRepository{conn: conn}
}

// Load returns the stored channel configuration.
func (r *ConfigRepository) Load(ctx context.Context) (*routing.ChannelConfig, error) {
	var raw []byte
	err := r.conn.QueryRow(ctx, "SELECT config FROM channel_config WHERE id = 1").Scan(&raw)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrChannelsNotConfigured
		}
		return nil, fmt.Errorf("failed to load channel config: %w", err)
	}

	var cfg routing.ChannelConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal channel config: %w", err)
	}

	return &cfg, nil
}

// Save stores the channel configuration, replacing any previous one.
func (r *ConfigRepository) Save(ctx context.Context, cfg *routing.ChannelConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal channel config: %w", err)
	}

	query := `
		INSERT INTO channel_config (id, config, updated_at)
		VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE SET
			config = EXCLUDED.config,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := r.conn.Exec(ctx, query, raw); err != nil {
		return fmt.Errorf("failed to save channel config: %w", err)
	}

	return nil
}
