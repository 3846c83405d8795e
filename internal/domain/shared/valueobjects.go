// Package shared contains common domain types, errors, and events
// that are used across all domain packages.
package shared

import (
	"strconv"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// UserID represents a unique chat-platform user identifier.
type UserID int64

// IsValid checks if the user ID is valid (positive number).
func (u UserID) IsValid() bool {
	return u > 0
}

// Int64 returns the underlying int64 value.
func (u UserID) Int64() int64 {
	return int64(u)
}

// String returns the string representation.
func (u UserID) String() string {
	return strconv.FormatInt(int64(u), 10)
}

// NewUserID creates a new UserID with validation.
func NewUserID(id int64) (UserID, error) {
	if id <= 0 {
		return 0, ErrInvalidUserID
	}
	return UserID(id), nil
}

// ChannelID represents a chat-platform channel identifier.
// Telegram channel IDs are negative for groups and channels.
type ChannelID int64

// IsValid checks if the channel ID is non-zero.
func (c ChannelID) IsValid() bool {
	return c != 0
}

// Int64 returns the underlying int64 value.
func (c ChannelID) Int64() int64 {
	return int64(c)
}

// String returns the string representation.
func (c ChannelID) String() string {
	return strconv.FormatInt(int64(c), 10)
}

// NewChannelID creates a new ChannelID with validation.
func NewChannelID(id int64) (ChannelID, error) {
	if id == 0 {
		return 0, ErrInvalidChannelID
	}
	return ChannelID(id), nil
}

// ParseChannelID parses a channel ID from its string form.
func ParseChannelID(s string) (ChannelID, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, WrapError("routing", "ParseChannelID", ErrInvalidID, "channel ID must be numeric", err)
	}
	return NewChannelID(id)
}

// ═══════════════════════════════════════════════════════════════════════════
// XP Value Object (Experience Points)
// ═══════════════════════════════════════════════════════════════════════════

// XP represents experience points earned by a user.
type XP int64

// MinXP is the floor for XP values; totals never go negative.
const MinXP XP = 0

// IsValid checks if the XP value is within valid range.
func (x XP) IsValid() bool {
	return x >= MinXP
}

// Int64 returns the underlying int64 value.
func (x XP) Int64() int64 {
	return int64(x)
}

// Add adds XP and returns the result, floored at MinXP.
func (x XP) Add(amount int64) XP {
	result := XP(int64(x) + amount)
	if result < MinXP {
		return MinXP
	}
	return result
}

// NewXP creates a new XP value with validation.
func NewXP(amount int64) (XP, error) {
	if amount < int64(MinXP) {
		return 0, ErrNegativeXP
	}
	return XP(amount), nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Rank Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Rank represents a user's position in the leaderboard.
type Rank int

const (
	MinRank  Rank = 1
	Unranked Rank = 0 // Not yet ranked
)

// IsValid checks if the rank is valid.
func (r Rank) IsValid() bool {
	return r >= MinRank
}

// Int returns the underlying int value.
func (r Rank) Int() int {
	return int(r)
}

// Medal returns a medal emoji for top ranks.
func (r Rank) Medal() string {
	switch r {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return ""
	}
}
