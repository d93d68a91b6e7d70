package engine

import (
	"reflect"
	"testing"

	"github.com/claimplan/claimplan/internal/domain"
)

// ─── Fixtures ───────────────────────────────────────────────────────────────

// planksOnHand builds a matcher whose inventory holds qty tier-2 Planks.
func planksOnHand(t *testing.T, qty int) *Matcher {
	t.Helper()
	snap := snapshotOf(t,
		[]domain.ItemMeta{{ID: 1, Name: "Plank", Tier: 2}},
		[]domain.InventorySlot{{ItemID: 1, Quantity: qty, IsItemOrCargo: true}},
	)
	return testMatcher(t, snap, map[string]domain.ItemMapping{
		"carpentry research": {Trackable: false, Type: "research"},
	})
}

// carpentryTree is a single research with one Plank child (and optionally a
// Wood Log grandchild under the Plank).
func carpentryTree(withGrandchild bool) []domain.RecipeNode {
	plank := domain.RecipeNode{Name: "Plank", Tier: 2, Qty: 5}
	if withGrandchild {
		plank.Children = []domain.RecipeNode{{Name: "Wood Log", Tier: 1, Qty: 2}}
	}
	return []domain.RecipeNode{{
		Name: "Carpentry Research", Tier: 2, Qty: 1,
		Children: []domain.RecipeNode{plank},
	}}
}

func runCascade(t *testing.T, recipes []domain.RecipeNode, batch int, m *Matcher) []domain.ProcessedNode {
	t.Helper()
	expanded := Expand(recipes, batch, m)
	return BuildForest(expanded, Aggregate(expanded, m))
}

// ─── End-to-End Scenarios ───────────────────────────────────────────────────

func TestPartialDeficit(t *testing.T) {
	// batch 10, one Plank child qty 5, 30 Planks on hand.
	roots := runCascade(t, carpentryTree(false), 10, planksOnHand(t, 30))

	plank := roots[0].Children[0]
	if plank.Required != 50 {
		t.Errorf("required = %d, want 50", plank.Required)
	}
	if plank.Have != 30 {
		t.Errorf("have = %d, want 30", plank.Have)
	}
	if plank.Deficit != 20 {
		t.Errorf("deficit = %d, want 20", plank.Deficit)
	}
	if plank.Status != domain.StatusPartial {
		t.Errorf("status = %q, want %q", plank.Status, domain.StatusPartial)
	}
	if plank.PctComplete != 60 {
		t.Errorf("pctComplete = %d, want 60", plank.PctComplete)
	}
}

func TestSatisfactionPropagation(t *testing.T) {
	// Enough Planks: the subtree below Plank is economically inert.
	roots := runCascade(t, carpentryTree(true), 10, planksOnHand(t, 50))

	plank := roots[0].Children[0]
	if plank.Deficit != 0 {
		t.Errorf("plank deficit = %d, want 0", plank.Deficit)
	}
	if plank.Status != domain.StatusComplete {
		t.Errorf("plank status = %q, want %q", plank.Status, domain.StatusComplete)
	}

	log := plank.Children[0]
	if !log.SatisfiedByParent {
		t.Error("wood log should be satisfiedByParent")
	}
	if log.Deficit != 0 {
		t.Errorf("wood log deficit = %d, want 0", log.Deficit)
	}
	if log.Status != domain.StatusComplete {
		t.Errorf("wood log status = %q, want %q", log.Status, domain.StatusComplete)
	}
}

// ─── Invariants ─────────────────────────────────────────────────────────────

// invariantForest is a wider forest with a key shared across two branches.
func invariantForest() []domain.RecipeNode {
	return []domain.RecipeNode{
		{
			Name: "Forestry Research", Tier: 3, Qty: 1,
			Children: []domain.RecipeNode{
				{Name: "Plank", Tier: 2, Qty: 5, Children: []domain.RecipeNode{
					{Name: "Wood Log", Tier: 1, Qty: 4},
				}},
				{Name: "Wood Log", Tier: 1, Qty: 8},
			},
		},
		{
			Name: "Masonry Research", Tier: 3, Qty: 1,
			Children: []domain.RecipeNode{
				{Name: "Brick", Tier: 2, Qty: 3, Children: []domain.RecipeNode{
					{Name: "Wood Log", Tier: 1, Qty: 2},
				}},
			},
		},
	}
}

func TestScaleBounds(t *testing.T) {
	m := planksOnHand(t, 17)
	expanded := Expand(invariantForest(), 7, m)
	items := Aggregate(expanded, m)

	for key, it := range items {
		if it.Scale < 0 || it.Scale > 1 {
			t.Errorf("scale for %s = %f, out of [0,1]", key, it.Scale)
		}
		if it.Required > 0 && it.Satisfied != (it.Deficit == 0) {
			t.Errorf("satisfied flag inconsistent for %s", key)
		}
	}
}

func TestNodeInvariants(t *testing.T) {
	m := planksOnHand(t, 17)
	expanded := Expand(invariantForest(), 7, m)
	items := Aggregate(expanded, m)
	processed := BuildForest(expanded, items)

	var check func(e *domain.ExpandedNode, p *domain.ProcessedNode)
	check = func(e *domain.ExpandedNode, p *domain.ProcessedNode) {
		if p.Deficit < 0 {
			t.Errorf("%s: deficit = %d, want >= 0", p.Name, p.Deficit)
		}
		if p.Contribution < 0 {
			t.Errorf("%s: contribution = %d, want >= 0", p.Name, p.Contribution)
		}
		if p.Contribution+p.Deficit != p.Required {
			t.Errorf("%s: contribution %d + deficit %d != required %d", p.Name, p.Contribution, p.Deficit, p.Required)
		}
		// Scaling only ever shrinks the ideal quantity.
		if p.Required > e.IdealQty {
			t.Errorf("%s: required %d > idealQty %d", p.Name, p.Required, e.IdealQty)
		}
		if p.SatisfiedByParent && p.Deficit != 0 {
			t.Errorf("%s: satisfiedByParent with deficit %d", p.Name, p.Deficit)
		}
		for i := range p.Children {
			if p.SatisfiedByParent && !p.Children[i].SatisfiedByParent {
				t.Errorf("%s: child %s escaped parent satisfaction", p.Name, p.Children[i].Name)
			}
			check(&e.Children[i], &p.Children[i])
		}
	}
	for i := range processed {
		check(&expanded[i], &processed[i])
	}
}

func TestSharedKeyGlobalScale(t *testing.T) {
	// Wood Log appears in three positions; the aggregation must see one
	// global requirement: 7×(4 + 8 + 2) = 98.
	m := planksOnHand(t, 0)
	expanded := Expand(invariantForest(), 7, m)
	items := Aggregate(expanded, m)

	log := items[domain.MakeKey("Wood Log", 1)]
	if log == nil {
		t.Fatal("wood log missing from aggregation")
	}
	if log.Required != 98 {
		t.Errorf("global required = %d, want 98", log.Required)
	}
	if log.Scale != 1.0 {
		t.Errorf("scale = %f, want 1.0 with empty inventory", log.Scale)
	}
}

func TestEmptyForest(t *testing.T) {
	m := testMatcher(t, snapshotOf(t, nil, nil), nil)
	expanded := Expand(nil, 5, m)
	items := Aggregate(expanded, m)
	processed := BuildForest(expanded, items)

	if len(processed) != 0 {
		t.Errorf("processed = %d roots, want 0", len(processed))
	}
	pruned, journals := ExtractJournals(processed)
	if len(pruned) != 0 || journals != nil {
		t.Error("journal extraction of empty forest should be empty and nil")
	}
}

func TestIdempotence(t *testing.T) {
	run := func() []domain.ProcessedNode {
		m := planksOnHand(t, 17)
		expanded := Expand(invariantForest(), 7, m)
		return BuildForest(expanded, Aggregate(expanded, m))
	}
	first := run()
	second := run()
	if !reflect.DeepEqual(first, second) {
		t.Error("two runs with identical inputs diverged")
	}
}

// ─── Study Journal Extraction ───────────────────────────────────────────────

// journalForest repeats an identical study-journal child under every root.
func journalForest(rootCount int) []domain.RecipeNode {
	names := []string{"Carpentry", "Masonry", "Tailoring", "Smithing", "Scholarship"}
	roots := make([]domain.RecipeNode, 0, rootCount)
	for i := 0; i < rootCount; i++ {
		roots = append(roots, domain.RecipeNode{
			Name: names[i] + " Research", Tier: 3, Qty: 1,
			Children: []domain.RecipeNode{
				{Name: "Tier 3 Study Journal", Tier: 3, Qty: 35, Children: []domain.RecipeNode{
					{Name: "Paper", Tier: 2, Qty: 10},
				}},
				{Name: "Plank", Tier: 2, Qty: 5},
			},
		})
	}
	return roots
}

func TestJournalExtraction(t *testing.T) {
	snap := snapshotOf(t,
		[]domain.ItemMeta{{ID: 1, Name: "Tier 3 Study Journal", Tier: 3}},
		[]domain.InventorySlot{{ItemID: 1, Quantity: 1340, IsItemOrCargo: true}},
	)
	m := testMatcher(t, snap, nil)

	processed := runCascade(t, journalForest(5), 10, m)
	pruned, cluster := ExtractJournals(processed)

	if cluster == nil {
		t.Fatal("expected a journal cluster")
	}
	// Per-branch ideal is 350; the cluster multiplies by the 5 branches.
	if cluster.Required != 5*350 {
		t.Errorf("cluster required = %d, want %d", cluster.Required, 5*350)
	}
	if cluster.Contribution+cluster.Deficit != cluster.Required {
		t.Errorf("cluster contribution %d + deficit %d != required %d",
			cluster.Contribution, cluster.Deficit, cluster.Required)
	}

	for _, root := range pruned {
		for _, child := range root.Children {
			if journalPattern.MatchString(child.Name) {
				t.Errorf("root %s still carries journal child", root.Name)
			}
		}
	}
}

func TestJournalExtractionNoMatch(t *testing.T) {
	m := planksOnHand(t, 0)
	processed := runCascade(t, carpentryTree(true), 10, m)

	pruned, cluster := ExtractJournals(processed)
	if cluster != nil {
		t.Error("no journal child present, cluster should be nil")
	}
	if !reflect.DeepEqual(pruned, processed) {
		t.Error("forest without journals should pass through unchanged")
	}
}

func TestJournalStatusAggregation(t *testing.T) {
	// Journal itself satisfied, Paper child missing → cluster is missing.
	snap := snapshotOf(t,
		[]domain.ItemMeta{{ID: 1, Name: "Tier 3 Study Journal", Tier: 3}},
		[]domain.InventorySlot{{ItemID: 1, Quantity: 10_000, IsItemOrCargo: true}},
	)
	m := testMatcher(t, snap, nil)

	// Paper sits beside the journal, not under it, so parent satisfaction
	// does not cover it.
	forest := []domain.RecipeNode{{
		Name: "Scholarship Research", Tier: 3, Qty: 1,
		Children: []domain.RecipeNode{
			{Name: "Tier 3 Study Journal", Tier: 3, Qty: 35},
			{Name: "Paper", Tier: 2, Qty: 10},
		},
	}}
	processed := runCascade(t, forest, 10, m)
	_, cluster := ExtractJournals(processed)
	if cluster == nil {
		t.Fatal("expected a journal cluster")
	}
	if cluster.Status != domain.StatusComplete {
		t.Errorf("cluster status = %q, want %q (journal satisfied, no children)", cluster.Status, domain.StatusComplete)
	}
}

