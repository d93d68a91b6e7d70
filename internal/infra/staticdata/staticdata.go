// Package staticdata bundles the fixed game tables the engine needs:
// the tier-requirement table, the item-mapping table and the cargo
// package-multiplier rules. These change only with game patches, so they
// ship with the binary rather than being fetched.
package staticdata

import (
	"github.com/claimplan/claimplan/internal/domain"
	"github.com/claimplan/claimplan/internal/engine"
)

// ─── Tier Requirements ──────────────────────────────────────────────────────

// TierRequirements maps a target claim tier to how many completions of
// which codex tier unlock it.
var TierRequirements = map[int]domain.TierRequirement{
	2:  {CodexTier: 1, Count: 10},
	3:  {CodexTier: 2, Count: 10},
	4:  {CodexTier: 3, Count: 10},
	5:  {CodexTier: 4, Count: 15},
	6:  {CodexTier: 5, Count: 15},
	7:  {CodexTier: 6, Count: 20},
	8:  {CodexTier: 7, Count: 20},
	9:  {CodexTier: 8, Count: 25},
	10: {CodexTier: 9, Count: 25},
}

// TierRequirement looks up the requirement for a target tier.
func TierRequirement(targetTier int) (domain.TierRequirement, bool) {
	req, ok := TierRequirements[targetTier]
	return req, ok
}

// ─── Package Rules ──────────────────────────────────────────────────────────

// PackageRules are the cargo-to-unit multipliers, checked in order.
// Anything not matched falls back to engine.DefaultPackageMultiplier.
var PackageRules = []engine.PackageRule{
	{Match: "flower", Multiplier: 500},
	{Match: "pebble", Multiplier: 500},
	{Match: "fiber", Multiplier: 1000},
}

// ─── Item Mappings ──────────────────────────────────────────────────────────

// ItemMappings maps normalized recipe item names to their inventory
// behavior. Items absent from the table default to trackable.
var ItemMappings = map[string]domain.ItemMapping{
	// Research goals are abstract — no inventory presence.
	"carpentry research":   {Trackable: false, Type: "research"},
	"masonry research":     {Trackable: false, Type: "research"},
	"tailoring research":   {Trackable: false, Type: "research"},
	"smithing research":    {Trackable: false, Type: "research"},
	"scholarship research": {Trackable: false, Type: "research"},
	"forestry research":    {Trackable: false, Type: "research"},
	"farming research":     {Trackable: false, Type: "research"},
	"fishing research":     {Trackable: false, Type: "research"},
	"hunting research":     {Trackable: false, Type: "research"},
	"mining research":      {Trackable: false, Type: "research"},

	// Codex artifacts are consumed on submission and never held.
	"codex fragment": {Trackable: false, Type: "research"},

	// Names that diverge between codex data and the inventory API.
	"polished plank": {Trackable: true, Type: "item", APIEquivalent: "Refined Plank"},
	"water":          {Trackable: true, Type: "cargo", APIEquivalent: "Water Bucket"},
	"crushed shells": {Trackable: true, Type: "item", APIEquivalent: "Crushed Ocean Shells"},
	"animal fat":     {Trackable: true, Type: "item", APIEquivalent: "Tallow"},
	"study journal":  {Trackable: true, Type: "item"},
}
