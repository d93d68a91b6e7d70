package engine

import "github.com/claimplan/claimplan/internal/domain"

// ─── Collection Helpers ─────────────────────────────────────────────────────
// Flat collections over the processed forest, consumed by the progress
// aggregator. All collectors dedupe by (name, tier) key: effective
// requirements and deficits are summed across occurrences, while Have is a
// global per-key quantity and is kept as-is.

// CollectTrackable gathers every trackable node that is not already covered
// by a satisfied parent, anywhere in the forest.
func CollectTrackable(roots []domain.ProcessedNode) []domain.PlanItem {
	c := newCollector()
	for i := range roots {
		c.walkAll(&roots[i])
	}
	return c.items()
}

// CollectFirstTrackable descends each branch until the first trackable node
// and stops there. A trackable root counts as its own first trackable node:
// the extracted journal cluster sits at root position and carries its whole
// deficit itself. The result is the canonical "things you must actually go
// gather" list — overall percent-complete is computed from it.
func CollectFirstTrackable(roots []domain.ProcessedNode) []domain.PlanItem {
	c := newCollector()
	for i := range roots {
		c.walkFirst(&roots[i])
	}
	return c.items()
}

// CollectSecondLevel gathers the direct children of the research roots
// only, for a coarser breakdown.
func CollectSecondLevel(roots []domain.ProcessedNode) []domain.PlanItem {
	c := newCollector()
	for i := range roots {
		for j := range roots[i].Children {
			c.add(&roots[i].Children[j])
		}
	}
	return c.items()
}

// ─── collector ──────────────────────────────────────────────────────────────

type collector struct {
	byKey map[domain.ItemKey]*domain.PlanItem
	order []domain.ItemKey
}

func newCollector() *collector {
	return &collector{byKey: make(map[domain.ItemKey]*domain.PlanItem)}
}

func (c *collector) add(n *domain.ProcessedNode) {
	key := n.Key()
	it, ok := c.byKey[key]
	if !ok {
		it = &domain.PlanItem{Name: n.Name, Tier: n.Tier, Have: n.Have}
		c.byKey[key] = it
		c.order = append(c.order, key)
	}
	it.Required += n.Required
	it.Deficit += n.Deficit
	it.Actionable = it.Deficit > 0
}

func (c *collector) walkAll(n *domain.ProcessedNode) {
	if n.Trackable && !n.SatisfiedByParent {
		c.add(n)
	}
	for i := range n.Children {
		c.walkAll(&n.Children[i])
	}
}

// walkFirst stops descending as soon as a trackable node is hit, the
// visited node itself included.
func (c *collector) walkFirst(n *domain.ProcessedNode) {
	if n.Trackable {
		c.add(n)
		return
	}
	for i := range n.Children {
		c.walkFirst(&n.Children[i])
	}
}

// items returns the deduped collection in first-seen order.
func (c *collector) items() []domain.PlanItem {
	out := make([]domain.PlanItem, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, *c.byKey[key])
	}
	return out
}
