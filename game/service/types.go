package service

import (
	"time"

	"github.com/wricardo/mcp-training/memorygame/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameView   `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// ActionResult contains the outcome of a player action
type ActionResult struct {
	Accepted  bool             `json:"accepted"`
	Event     engine.EventType `json:"event"`
	GameState *engine.GameView `json:"game_state"`
	Message   string           `json:"message"`
	Flip      *FlipRecord      `json:"flip,omitempty"`
}

// GameEvent is emitted whenever a session's state changes, whether through a
// player action or an elapsed timer
type GameEvent struct {
	SessionID string           `json:"session_id"`
	Type      engine.EventType `json:"type"`
	GameState *engine.GameView `json:"game_state"`
	Timestamp time.Time        `json:"timestamp"`
}

// FlipRecord is one accepted card flip
type FlipRecord struct {
	Seq        int               `json:"seq"`
	Index      int               `json:"index"`
	Icon       string            `json:"icon"`
	Event      engine.EventType  `json:"event"`
	Clicks     int               `json:"clicks"`
	Difficulty engine.Difficulty `json:"difficulty"`
	DealID     string            `json:"deal_id"`
	Timestamp  time.Time         `json:"timestamp"`
}

// HistoryOptions configures flip history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated flip history
type HistoryResponse struct {
	Flips       []FlipRecord `json:"flips"`
	TotalFlips  int          `json:"total_flips"`
	Page        int          `json:"page"`
	PageSize    int          `json:"page_size"`
	TotalPages  int          `json:"total_pages"`
	HasNext     bool         `json:"has_next"`
	HasPrevious bool         `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename       string `json:"filename"`
	ConfigID       string `json:"config_id"` // The identifier to use for session creation
	Name           string `json:"name"`      // Display name
	Description    string `json:"description"`
	PaletteSize    int    `json:"palette_size"`
	DealDelayMs    int    `json:"deal_delay_ms"`
	ResolveDelayMs int    `json:"resolve_delay_ms"`
}

// DifficultyInfo describes one selectable difficulty
type DifficultyInfo struct {
	Name      engine.Difficulty `json:"name"`
	PairCount int               `json:"pair_count"`
	Cards     int               `json:"cards"`
	Columns   int               `json:"columns"`
}
