package engine

import "github.com/claimplan/claimplan/internal/domain"

// ─── Recipe Expander ────────────────────────────────────────────────────────

// Expand maps a raw research forest into an isomorphic ExpandedNode forest
// for the given batch count, assuming zero inventory.
//
// Invariant: idealQty = recipeQty × batchCount at EVERY node, and children
// receive the same global batchCount — never the parent's resolved
// quantity. That is what prevents quantity explosion through multiplicative
// compounding down the tree.
func Expand(researches []domain.RecipeNode, batchCount int, m *Matcher) []domain.ExpandedNode {
	out := make([]domain.ExpandedNode, 0, len(researches))
	for _, r := range researches {
		out = append(out, expandNode(r, batchCount, m))
	}
	return out
}

func expandNode(n domain.RecipeNode, batchCount int, m *Matcher) domain.ExpandedNode {
	qty := n.Qty
	if qty <= 0 {
		qty = 1 // malformed input: missing qty treated as 1
	}
	mapping := m.Mapping(n.Name)

	node := domain.ExpandedNode{
		Name:        n.Name,
		Tier:        n.Tier,
		RecipeQty:   qty,
		IdealQty:    qty * batchCount,
		Trackable:   mapping.Trackable,
		MappingType: mapping.Type,
	}
	if len(n.Children) > 0 {
		node.Children = make([]domain.ExpandedNode, 0, len(n.Children))
		for _, c := range n.Children {
			node.Children = append(node.Children, expandNode(c, batchCount, m))
		}
	}
	return node
}
