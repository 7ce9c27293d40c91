// Package config provides rule set management for the memory game.
//
// The config package handles:
//   - Loading rule sets from JSON and HCL files
//   - Validation through engine.ValidateGameConfig
//   - Default rule set selection
//   - Discovery and listing
//
// Rule Set Format:
//
// A rule set lives in the configs directory as <id>.json or <id>.hcl and
// defines:
//   - The icon palette (at least 12 distinct icons; the first pair-count are dealt)
//   - The deal delay and resolve delay in milliseconds (0 means the default)
//   - The menu, loading, playing and victory messages
//
// The built-in "classic" rule set is always available, even when the
// directory has no classic file.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal().Err(err).Msg("config directory")
//	}
//
//	space, err := manager.LoadConfig("space")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
package config
