package engine

import (
	"fmt"
	"strings"
	"time"
)

// GameConfig is a rule set: which icons are dealt, how long the deal and
// resolve delays last, and the phase messages shown to the player.
type GameConfig struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Palette        []string `json:"palette"`
	DealDelayMs    int      `json:"deal_delay_ms,omitempty"`
	ResolveDelayMs int      `json:"resolve_delay_ms,omitempty"`
	Messages       Messages `json:"messages"`
}

// Messages are the per-phase texts of a rule set
type Messages struct {
	Menu    string `json:"menu"`
	Loading string `json:"loading"`
	Playing string `json:"playing,omitempty"`
	Victory string `json:"victory"`
}

// DefaultConfig returns the built-in "classic" rule set.
func DefaultConfig() *GameConfig {
	palette := make([]string, len(DefaultPalette))
	copy(palette, DefaultPalette)
	return &GameConfig{
		Name:           "classic",
		Description:    "Twelve everyday icons, 1.5s deal and 0.8s reveal",
		Palette:        palette,
		DealDelayMs:    int(DefaultDealDelay / time.Millisecond),
		ResolveDelayMs: int(DefaultResolveDelay / time.Millisecond),
		Messages: Messages{
			Menu:    "Choose your difficulty level",
			Loading: "Loading cards...",
			Playing: "Matches: %d | Clicks: %d",
			Victory: "All matched! You did it in %d clicks!",
		},
	}
}

// DealDelay is how long a fresh deck stays in the loading phase.
func (c *GameConfig) DealDelay() time.Duration {
	if c == nil || c.DealDelayMs <= 0 {
		return DefaultDealDelay
	}
	return time.Duration(c.DealDelayMs) * time.Millisecond
}

// ResolveDelay is how long a completed pair stays flipped before input unlocks.
func (c *GameConfig) ResolveDelay() time.Duration {
	if c == nil || c.ResolveDelayMs <= 0 {
		return DefaultResolveDelay
	}
	return time.Duration(c.ResolveDelayMs) * time.Millisecond
}

// ValidateGameConfig validates a rule set for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Every difficulty must be dealable from the palette
	if len(config.Palette) < MinPaletteSize || len(config.Palette) > MaxPaletteSize {
		return fmt.Errorf("config validation: palette must have between %d and %d icons, got %d",
			MinPaletteSize, MaxPaletteSize, len(config.Palette))
	}
	seen := make(map[string]int, len(config.Palette))
	for i, icon := range config.Palette {
		if strings.TrimSpace(icon) == "" {
			return fmt.Errorf("config validation: palette icon %d is empty", i+1)
		}
		if prev, dup := seen[icon]; dup {
			return fmt.Errorf("config validation: palette icon %q repeats at positions %d and %d", icon, prev+1, i+1)
		}
		seen[icon] = i
	}

	if config.DealDelayMs < 0 || config.DealDelayMs > MaxDelayMs {
		return fmt.Errorf("config validation: deal_delay_ms must be between 0 and %d, got %d", MaxDelayMs, config.DealDelayMs)
	}
	if config.ResolveDelayMs < 0 || config.ResolveDelayMs > MaxDelayMs {
		return fmt.Errorf("config validation: resolve_delay_ms must be between 0 and %d, got %d", MaxDelayMs, config.ResolveDelayMs)
	}

	if config.Messages.Menu == "" {
		return fmt.Errorf("config validation: messages.menu is required")
	}
	if config.Messages.Loading == "" {
		return fmt.Errorf("config validation: messages.loading is required")
	}
	if !formatsCleanly(config.Messages.Victory, 0) {
		return fmt.Errorf("config validation: messages.victory must contain %%d for the click count")
	}
	if config.Messages.Playing != "" && !formatsCleanly(config.Messages.Playing, 0, 0) {
		return fmt.Errorf("config validation: messages.playing must contain %%d twice for matches and clicks")
	}

	return nil
}

// formatsCleanly reports whether format consumes exactly args. fmt marks
// missing, extra or mistyped operands with "%!".
func formatsCleanly(format string, args ...any) bool {
	return !strings.Contains(fmt.Sprintf(format, args...), "%!")
}
