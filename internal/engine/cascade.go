package engine

import (
	"math"
	"regexp"

	"github.com/claimplan/claimplan/internal/domain"
)

// ─── Pass 1: Global Aggregation ─────────────────────────────────────────────

// Aggregate accumulates every occurrence of the same (name, tier) key
// across the whole expanded forest into one global requirement, looks the
// key up in inventory exactly once, and derives the per-key satisfaction
// fraction.
//
// Invariant: scale = deficit/required ∈ [0,1] is computed once per key and
// shared by every tree position that uses that key.
func Aggregate(roots []domain.ExpandedNode, m *Matcher) map[domain.ItemKey]*domain.AggregatedItem {
	items := make(map[domain.ItemKey]*domain.AggregatedItem)
	for i := range roots {
		aggregateNode(&roots[i], items)
	}
	for _, it := range items {
		it.Have = m.Resolve(it.Name, it.Tier)
		it.Deficit = it.Required - it.Have
		if it.Deficit < 0 {
			it.Deficit = 0
		}
		it.Satisfied = it.Deficit == 0
		if it.Required > 0 {
			it.Scale = float64(it.Deficit) / float64(it.Required)
		}
	}
	return items
}

func aggregateNode(n *domain.ExpandedNode, items map[domain.ItemKey]*domain.AggregatedItem) {
	key := n.Key()
	it, ok := items[key]
	if !ok {
		it = &domain.AggregatedItem{Name: n.Name, Tier: n.Tier}
		items[key] = it
	}
	it.Required += n.IdealQty
	for i := range n.Children {
		aggregateNode(&n.Children[i], items)
	}
}

// ─── Pass 2: Tree Rebuild ───────────────────────────────────────────────────

// BuildForest rebuilds each research root with the global satisfaction
// fractions applied multiplicatively down every branch. Root calls use
// parentScale = 1.
func BuildForest(roots []domain.ExpandedNode, items map[domain.ItemKey]*domain.AggregatedItem) []domain.ProcessedNode {
	out := make([]domain.ProcessedNode, 0, len(roots))
	for i := range roots {
		out = append(out, buildNode(&roots[i], items, false, 1.0))
	}
	return out
}

// buildNode computes one node's effective requirement under the compounded
// unmet fraction of its ancestors. Compounding multiplies scales (each in
// [0,1]), never raw quantities, so the effective requirement only ever
// shrinks relative to idealQty.
func buildNode(n *domain.ExpandedNode, items map[domain.ItemKey]*domain.AggregatedItem, parentSatisfied bool, parentScale float64) domain.ProcessedNode {
	it := items[n.Key()]
	if it == nil {
		it = &domain.AggregatedItem{Name: n.Name, Tier: n.Tier}
	}

	satisfied := parentSatisfied || it.Satisfied
	required := int(math.Ceil(float64(n.IdealQty) * parentScale))

	deficit := 0
	if !satisfied {
		deficit = int(math.Ceil(float64(required) * it.Scale))
	}
	contribution := required - deficit

	pct := 100
	if required > 0 {
		pct = int(math.Round(100 * float64(contribution) / float64(required)))
	}

	status := domain.StatusComplete
	switch {
	case satisfied:
		status = domain.StatusComplete
	case contribution > 0:
		status = domain.StatusPartial
	default:
		status = domain.StatusMissing
	}

	childScale := 0.0
	if !satisfied {
		childScale = it.Scale * parentScale
	}

	node := domain.ProcessedNode{
		Name:              n.Name,
		Tier:              n.Tier,
		Required:          required,
		Have:              it.Have,
		Deficit:           deficit,
		Contribution:      contribution,
		PctComplete:       pct,
		Status:            status,
		Satisfied:         satisfied,
		SatisfiedByParent: parentSatisfied,
		Trackable:         n.Trackable,
		MappingType:       n.MappingType,
	}
	if len(n.Children) > 0 {
		node.Children = make([]domain.ProcessedNode, 0, len(n.Children))
		for i := range n.Children {
			node.Children = append(node.Children, buildNode(&n.Children[i], items, satisfied, childScale))
		}
	}
	return node
}

// ─── Pass 3: Study Journal Extraction ───────────────────────────────────────

// journalPattern matches the research prerequisite subtree that the codex
// data repeats identically under every research root.
var journalPattern = regexp.MustCompile(`(?i)study journal`)

// ExtractJournals removes the study-journal child from each research root
// and returns the pruned forest plus one aggregate journal pseudo-research
// scaled by the number of branches it was removed from. The per-branch
// subtrees are structurally identical by construction of the source data,
// so the first match serves as the template. Returns the input unchanged
// and a nil cluster when no root carries a journal child.
func ExtractJournals(roots []domain.ProcessedNode) ([]domain.ProcessedNode, *domain.ProcessedNode) {
	var matches []domain.ProcessedNode
	pruned := make([]domain.ProcessedNode, 0, len(roots))

	for _, root := range roots {
		kept := make([]domain.ProcessedNode, 0, len(root.Children))
		removed := false
		for _, child := range root.Children {
			if !removed && journalPattern.MatchString(child.Name) {
				matches = append(matches, child)
				removed = true
				continue
			}
			kept = append(kept, child)
		}
		root.Children = kept
		pruned = append(pruned, root)
	}

	if len(matches) == 0 {
		return roots, nil
	}

	cluster := multiplyNode(matches[0], len(matches))
	cluster.Status = aggregateStatus(&cluster)
	return pruned, &cluster
}

// multiplyNode scales a template subtree's quantities by the branch count
// it was extracted from. Percent-complete is recomputed from the scaled
// quantities (the ratio is unchanged, the recompute keeps the
// contribution+deficit=required invariant honest).
func multiplyNode(n domain.ProcessedNode, count int) domain.ProcessedNode {
	n.Required *= count
	n.Deficit *= count
	n.Contribution *= count
	if n.Required > 0 {
		n.PctComplete = int(math.Round(100 * float64(n.Contribution) / float64(n.Required)))
	} else {
		n.PctComplete = 100
	}
	children := make([]domain.ProcessedNode, 0, len(n.Children))
	for _, c := range n.Children {
		children = append(children, multiplyNode(c, count))
	}
	n.Children = children
	return n
}

// aggregateStatus recomputes a node's status bottom-up: missing dominates
// partial dominates complete.
func aggregateStatus(n *domain.ProcessedNode) domain.Status {
	worst := n.Status
	for i := range n.Children {
		worst = worstStatus(worst, aggregateStatus(&n.Children[i]))
	}
	return worst
}

func statusRank(s domain.Status) int {
	switch s {
	case domain.StatusMissing:
		return 2
	case domain.StatusPartial:
		return 1
	default:
		return 0
	}
}

func worstStatus(a, b domain.Status) domain.Status {
	if statusRank(b) > statusRank(a) {
		return b
	}
	return a
}
