// Package engine implements the requirement-cascade pipeline: raw codex
// trees plus a batch count plus an inventory snapshot in, a fully annotated
// requirement forest and activity-grouped progress report out.
//
// The pipeline is a one-shot pure transform — every calculation receives
// fresh input and returns fresh output, so concurrent invocations do not
// interfere. The only asynchronous boundary is loading the codex document
// and the inventory snapshot, two independent fetches that run concurrently
// before the expander starts.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/claimplan/claimplan/internal/domain"
)

// ─── Data Sources ───────────────────────────────────────────────────────────

// CodexSource loads the codex document for a codex tier.
type CodexSource interface {
	Codex(ctx context.Context, tier int) (*domain.CodexDocument, error)
}

// InventorySource loads the current inventory snapshot of a claim.
type InventorySource interface {
	ClaimInventory(ctx context.Context, claimID string) (*domain.InventorySnapshot, error)
}

// ─── Calculator ─────────────────────────────────────────────────────────────

// Options tweaks one calculation.
type Options struct {
	// BatchCount overrides the completion count from the tier table when
	// positive.
	BatchCount int
}

// Calculator wires the data sources and static tables into the pipeline.
// Safe for concurrent use; it holds no per-calculation state.
type Calculator struct {
	codex     CodexSource
	inventory InventorySource
	mappings  map[string]domain.ItemMapping
	tiers     map[int]domain.TierRequirement
	rules     []PackageRule
}

// NewCalculator builds a Calculator. The mapping and tier tables are
// typically the bundled staticdata tables.
func NewCalculator(codex CodexSource, inventory InventorySource, mappings map[string]domain.ItemMapping, tiers map[int]domain.TierRequirement, rules []PackageRule) *Calculator {
	return &Calculator{
		codex:     codex,
		inventory: inventory,
		mappings:  mappings,
		tiers:     tiers,
		rules:     rules,
	}
}

// CalculateRequirements runs the full pipeline for one claim and target
// tier. An unknown target tier fails fast; fetch errors propagate as-is.
// The calculation either has complete inputs or does not run.
func (c *Calculator) CalculateRequirements(ctx context.Context, claimID string, targetTier int, opts Options) (*domain.Plan, error) {
	req, ok := c.tiers[targetTier]
	if !ok {
		return nil, fmt.Errorf("%w: tier %d", domain.ErrUnknownTier, targetTier)
	}
	batch := req.Count
	if opts.BatchCount > 0 {
		batch = opts.BatchCount
	}
	if batch <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrBadBatch, batch)
	}

	doc, snap, err := c.load(ctx, claimID, req.CodexTier)
	if err != nil {
		return nil, err
	}

	matcher := NewMatcher(snap, c.mappings, c.rules)
	expanded := Expand(doc.Researches, batch, matcher)
	items := Aggregate(expanded, matcher)
	processed := BuildForest(expanded, items)
	researches, journals := ExtractJournals(processed)

	reportRoots := researches
	if journals != nil {
		reportRoots = append(append([]domain.ProcessedNode{}, researches...), *journals)
	}

	return &domain.Plan{
		ID:            uuid.NewString(),
		ClaimID:       claimID,
		TargetTier:    targetTier,
		CodexTier:     req.CodexTier,
		BatchCount:    batch,
		Researches:    researches,
		StudyJournals: journals,
		Report:        BuildReport(reportRoots),
	}, nil
}

// load fetches the codex document and inventory snapshot concurrently.
// Both must succeed; there is no partial recovery.
func (c *Calculator) load(ctx context.Context, claimID string, codexTier int) (*domain.CodexDocument, *domain.InventorySnapshot, error) {
	var (
		wg      sync.WaitGroup
		doc     *domain.CodexDocument
		snap    *domain.InventorySnapshot
		docErr  error
		snapErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		doc, docErr = c.codex.Codex(ctx, codexTier)
	}()
	go func() {
		defer wg.Done()
		snap, snapErr = c.inventory.ClaimInventory(ctx, claimID)
	}()
	wg.Wait()

	if docErr != nil {
		return nil, nil, fmt.Errorf("loading codex tier %d: %w", codexTier, docErr)
	}
	if snapErr != nil {
		return nil, nil, fmt.Errorf("loading inventory for claim %s: %w", claimID, snapErr)
	}
	return doc, snap, nil
}
