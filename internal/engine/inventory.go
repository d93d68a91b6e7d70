package engine

import (
	"strings"

	"github.com/claimplan/claimplan/internal/domain"
)

// ─── Package Expansion Rules ────────────────────────────────────────────────

// PackageRule overrides the unit multiplier for bundled cargo whose name or
// tag contains Match. Rules are checked in order; first hit wins.
type PackageRule struct {
	Match      string
	Multiplier int
}

// DefaultPackageMultiplier converts one package cargo into constituent
// units when no rule matches.
const DefaultPackageMultiplier = 100

// ─── Matcher ────────────────────────────────────────────────────────────────

// Matcher resolves on-hand quantities for (name, tier) requests. It owns a
// normalized lookup built once from an inventory snapshot and consults the
// item-mapping table on every resolution. Read-only after construction.
type Matcher struct {
	lookup   domain.InventoryLookup
	mappings map[string]domain.ItemMapping
	rules    []PackageRule
}

// NewMatcher builds the inventory lookup from a snapshot. Cargo slots whose
// metadata marks them as packages are expanded into unit-equivalent
// quantities and accumulated under the unpackaged base name.
func NewMatcher(snap *domain.InventorySnapshot, mappings map[string]domain.ItemMapping, rules []PackageRule) *Matcher {
	m := &Matcher{
		lookup:   make(domain.InventoryLookup),
		mappings: mappings,
		rules:    rules,
	}
	if snap == nil {
		return m
	}

	items := metaIndex(snap.Items)
	cargos := metaIndex(snap.Cargos)

	for _, b := range snap.Buildings {
		for _, slot := range b.Slots {
			if slot.Quantity <= 0 {
				continue
			}
			var meta domain.ItemMeta
			var ok bool
			if slot.IsItemOrCargo {
				meta, ok = items[slot.ItemID]
			} else {
				meta, ok = cargos[slot.ItemID]
			}
			if !ok {
				continue
			}

			name, qty := meta.Name, slot.Quantity
			if isPackage(meta) {
				qty *= m.packageMultiplier(meta)
				name = unpackName(meta.Name)
			}
			m.lookup[domain.MakeKey(name, meta.Tier)] += qty
		}
	}
	return m
}

// Lookup returns the raw lookup map. Exposed for report building; callers
// must not mutate it.
func (m *Matcher) Lookup() domain.InventoryLookup { return m.lookup }

// Resolve returns the on-hand quantity for a requested (name, tier).
//
// The item-mapping table is consulted first: non-trackable items resolve to
// zero regardless of inventory contents, and an apiEquivalent alias
// redirects the lookup name. Tier fallback order is exact tier, then -1
// (tierless items), then 0. An item absent from both inventory and mapping
// table resolves to zero — a deliberate default, not an error.
func (m *Matcher) Resolve(name string, tier int) int {
	norm := domain.NormalizeName(name)
	if mapping, ok := m.mappings[norm]; ok {
		if !mapping.Trackable {
			return 0
		}
		if mapping.APIEquivalent != "" {
			norm = domain.NormalizeName(mapping.APIEquivalent)
		}
	}

	for _, t := range []int{tier, -1, 0} {
		if qty, ok := m.lookup[domain.MakeKey(norm, t)]; ok {
			return qty
		}
	}
	return 0
}

// Mapping returns the mapping entry for a recipe item name. Items absent
// from the table default to trackable with no type.
func (m *Matcher) Mapping(name string) domain.ItemMapping {
	if mapping, ok := m.mappings[domain.NormalizeName(name)]; ok {
		return mapping
	}
	return domain.ItemMapping{Trackable: true}
}

// packageMultiplier picks the unit multiplier for a package cargo by
// ordered substring match on its name and tag.
func (m *Matcher) packageMultiplier(meta domain.ItemMeta) int {
	name := strings.ToLower(meta.Name)
	tag := strings.ToLower(meta.Tag)
	for _, rule := range m.rules {
		needle := strings.ToLower(rule.Match)
		if strings.Contains(name, needle) || strings.Contains(tag, needle) {
			return rule.Multiplier
		}
	}
	return DefaultPackageMultiplier
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func metaIndex(metas []domain.ItemMeta) map[int]domain.ItemMeta {
	idx := make(map[int]domain.ItemMeta, len(metas))
	for _, m := range metas {
		idx[m.ID] = m
	}
	return idx
}

// isPackage reports whether a cargo is a bundled package of some base item.
func isPackage(meta domain.ItemMeta) bool {
	if strings.Contains(strings.ToLower(meta.Tag), "package") {
		return true
	}
	lower := strings.ToLower(meta.Name)
	return strings.HasPrefix(lower, "package of ") || strings.HasSuffix(lower, " package")
}

// unpackName strips the "Package of X" / "X Package" wrapping so the
// quantity accumulates under the base item's name.
func unpackName(name string) string {
	trimmed := strings.TrimSpace(name)
	lower := strings.ToLower(trimmed)
	switch {
	case strings.HasPrefix(lower, "package of "):
		return trimmed[len("package of "):]
	case strings.HasSuffix(lower, " package"):
		return trimmed[:len(trimmed)-len(" package")]
	default:
		return trimmed
	}
}
