package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/wricardo/mcp-training/memorygame/game/engine"
)

// hclRuleSet is the top-level structure of a .hcl rule set file:
//
//	name        = "Space"
//	description = "Rockets and planets"
//	palette     = ["🚀", "🪐", ...]
//	deal_delay_ms    = 1200
//	resolve_delay_ms = 700
//
//	messages {
//	  menu    = "Choose your difficulty level"
//	  loading = "Loading cards..."
//	  victory = "All matched! You did it in %d clicks!"
//	}
type hclRuleSet struct {
	Name           string       `hcl:"name"`
	Description    string       `hcl:"description"`
	Palette        []string     `hcl:"palette"`
	DealDelayMs    *int         `hcl:"deal_delay_ms,optional"`
	ResolveDelayMs *int         `hcl:"resolve_delay_ms,optional"`
	Messages       *hclMessages `hcl:"messages,block"`
}

type hclMessages struct {
	Menu    string  `hcl:"menu"`
	Loading string  `hcl:"loading"`
	Playing *string `hcl:"playing,optional"`
	Victory string  `hcl:"victory"`
}

// parseHCL decodes an HCL rule set. filename is only used in diagnostics.
func parseHCL(src []byte, filename string) (*engine.GameConfig, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var parsed hclRuleSet
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	config := &engine.GameConfig{
		Name:        parsed.Name,
		Description: parsed.Description,
		Palette:     parsed.Palette,
	}
	if parsed.DealDelayMs != nil {
		config.DealDelayMs = *parsed.DealDelayMs
	}
	if parsed.ResolveDelayMs != nil {
		config.ResolveDelayMs = *parsed.ResolveDelayMs
	}
	if m := parsed.Messages; m != nil {
		config.Messages = engine.Messages{Menu: m.Menu, Loading: m.Loading, Victory: m.Victory}
		if m.Playing != nil {
			config.Messages.Playing = *m.Playing
		}
	}
	return config, nil
}
