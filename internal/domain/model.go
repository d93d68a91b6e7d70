// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring of clean architecture — it depends on nothing.
package domain

import (
	"fmt"
	"strings"
)

// ─── Recipe Input Types ─────────────────────────────────────────────────────

// RecipeNode is one node of a raw codex/research tree as loaded from the
// codex document. Qty is the amount needed per single completion of the
// parent. The trees are finite, rooted and cycle-free by construction of
// the source data; the engine does not re-validate that.
type RecipeNode struct {
	Name     string       `json:"name"`
	Tier     int          `json:"tier"`
	Qty      int          `json:"qty"`
	Children []RecipeNode `json:"children,omitempty"`
}

// CodexDocument maps one codex tier to its research trees.
type CodexDocument struct {
	Name       string       `json:"name"`
	Tier       int          `json:"tier"`
	Researches []RecipeNode `json:"researches"`
}

// ─── Expansion Types ────────────────────────────────────────────────────────

// ExpandedNode is a RecipeNode with the ideal (zero-inventory) quantity
// resolved for a given batch count. Children inherit the batch count
// unchanged — they are never multiplied by the parent's resolved quantity.
type ExpandedNode struct {
	Name        string
	Tier        int
	RecipeQty   int
	IdealQty    int
	Trackable   bool
	MappingType string
	Children    []ExpandedNode
}

// Key returns the aggregation key for this node.
func (n *ExpandedNode) Key() ItemKey {
	return MakeKey(n.Name, n.Tier)
}

// ─── Item Keys ──────────────────────────────────────────────────────────────

// ItemKey identifies a distinct (name, tier) pair across the whole tree.
// The name component is normalized (lowercase, trimmed, single spaces).
type ItemKey string

// MakeKey builds the canonical "name:tier" key.
func MakeKey(name string, tier int) ItemKey {
	return ItemKey(fmt.Sprintf("%s:%d", NormalizeName(name), tier))
}

// NormalizeName lowercases, trims and collapses internal whitespace.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// ─── Inventory Types ────────────────────────────────────────────────────────

// InventoryLookup maps "name:tier" keys to on-hand quantities. Built once
// per calculation from the inventory snapshot; read-only afterward.
type InventoryLookup map[ItemKey]int

// InventorySlot is one slot of a building inventory as reported by the
// game-data API.
type InventorySlot struct {
	ItemID        int  `json:"item_id"`
	Quantity      int  `json:"quantity"`
	IsItemOrCargo bool `json:"is_item_or_cargo"` // true = item table, false = cargo table
}

// BuildingInventory is the slot list of a single claim building.
type BuildingInventory struct {
	BuildingID int             `json:"building_id"`
	Slots      []InventorySlot `json:"slots"`
}

// ItemMeta is the id → metadata record for items and cargos.
type ItemMeta struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Tier int    `json:"tier"`
	Tag  string `json:"tag"`
}

// InventorySnapshot is everything the Inventory Matcher needs: per-building
// slot lists plus flat item/cargo metadata arrays.
type InventorySnapshot struct {
	Buildings []BuildingInventory `json:"buildings"`
	Items     []ItemMeta          `json:"items"`
	Cargos    []ItemMeta          `json:"cargos"`
}

// ─── Mapping / Tier Tables ──────────────────────────────────────────────────

// ItemMapping describes how a recipe item name maps onto the inventory API.
// Trackable=false means the on-hand quantity cannot be meaningfully read
// (abstract research-only goals); APIEquivalent aliases the lookup name.
type ItemMapping struct {
	Trackable     bool   `json:"trackable"`
	Type          string `json:"type"`
	APIEquivalent string `json:"apiEquivalent,omitempty"`
}

// TierRequirement says how many completions of which codex tier are needed
// to reach a target claim tier.
type TierRequirement struct {
	CodexTier int `json:"codex_tier"`
	Count     int `json:"count"`
}

// ─── Processed Output Types ─────────────────────────────────────────────────

// Status classifies a processed node's completion state.
type Status string

const (
	StatusComplete Status = "complete"
	StatusPartial  Status = "partial"
	StatusMissing  Status = "missing"
)

// ProcessedNode is one node of the fully annotated requirement tree
// produced by the cascade. Required is the node's effective requirement
// after parent scaling and may differ from other occurrences of the same
// key elsewhere in the forest.
type ProcessedNode struct {
	Name              string          `json:"name"`
	Tier              int             `json:"tier"`
	Required          int             `json:"required"`
	Have              int             `json:"have"`
	Deficit           int             `json:"deficit"`
	Contribution      int             `json:"contribution"`
	PctComplete       int             `json:"pct_complete"`
	Status            Status          `json:"status"`
	Satisfied         bool            `json:"satisfied"`
	SatisfiedByParent bool            `json:"satisfied_by_parent"`
	Trackable         bool            `json:"trackable"`
	MappingType       string          `json:"mapping_type,omitempty"`
	Children          []ProcessedNode `json:"children,omitempty"`
}

// Key returns the aggregation key for this node.
func (n *ProcessedNode) Key() ItemKey {
	return MakeKey(n.Name, n.Tier)
}

// AggregatedItem is the cascade intermediate: one entry per distinct
// (name, tier) key across the whole expanded forest. Scale is the fraction
// of the global need still unmet, in [0,1], computed exactly once per key.
type AggregatedItem struct {
	Name      string
	Tier      int
	Required  int
	Have      int
	Deficit   int
	Satisfied bool
	Scale     float64
}

// ─── Report Types ───────────────────────────────────────────────────────────

// Activity is a gameplay-action grouping used to organize gathering tasks.
type Activity string

const (
	ActivityMining   Activity = "Mining"
	ActivityLogging  Activity = "Logging"
	ActivityFarming  Activity = "Farming"
	ActivityFishing  Activity = "Fishing"
	ActivityHunting  Activity = "Hunting"
	ActivityCrafting Activity = "Crafting"
)

// ActivityOrder is the fixed presentation order for activity groups.
var ActivityOrder = []Activity{
	ActivityMining, ActivityLogging, ActivityFarming,
	ActivityFishing, ActivityHunting, ActivityCrafting,
}

// PlanItem is the flattened, UI-consumable view of one gatherable item.
type PlanItem struct {
	Name       string   `json:"name"`
	Tier       int      `json:"tier"`
	Required   int      `json:"required"`
	Have       int      `json:"have"`
	Deficit    int      `json:"deficit"`
	Activity   Activity `json:"activity"`
	Actionable bool     `json:"actionable"` // deficit > 0
}

// ActivityGroup is the per-activity deficit list, items sorted by deficit
// descending.
type ActivityGroup struct {
	Activity     Activity   `json:"activity"`
	TotalDeficit int        `json:"total_deficit"`
	Percent      int        `json:"percent"`
	Items        []PlanItem `json:"items"`
}

// ResearchProgress is the percent-complete of a single research root.
type ResearchProgress struct {
	Name    string `json:"name"`
	Percent int    `json:"percent"`
}

// ProgressReport is the flat report the UI and exporters consume. Items is
// the first-trackable gather list driving the percent and the groups;
// TrackableItems is the wider set of every trackable node not covered by a
// satisfied parent, one CSV row each.
type ProgressReport struct {
	Percent        int                `json:"percent"`
	Researches     []ResearchProgress `json:"researches"`
	Groups         []ActivityGroup    `json:"groups"`
	Items          []PlanItem         `json:"items"`
	TrackableItems []PlanItem         `json:"trackable_items"`
}

// Plan is the full result of one requirement calculation.
type Plan struct {
	ID            string          `json:"id"`
	ClaimID       string          `json:"claim_id"`
	TargetTier    int             `json:"target_tier"`
	CodexTier     int             `json:"codex_tier"`
	BatchCount    int             `json:"batch_count"`
	Researches    []ProcessedNode `json:"researches"`
	StudyJournals *ProcessedNode  `json:"study_journals,omitempty"`
	Report        ProgressReport  `json:"report"`
}
