package engine

import (
	"math"
	"sort"
	"strings"

	"github.com/claimplan/claimplan/internal/domain"
)

// ─── Activity Classification ────────────────────────────────────────────────

// activityKeywords maps each activity to its ordered name substrings.
// Classification walks the activities in ActivityOrder and the keywords in
// slice order; the first match wins, and anything unmatched lands in
// Crafting.
var activityKeywords = map[domain.Activity][]string{
	domain.ActivityMining:  {"ore", "stone", "pebble", "clay", "sand", "gypsite", "salt", "coal", "gem"},
	domain.ActivityLogging: {"log", "wood", "plank", "bark", "stick", "sap", "resin"},
	domain.ActivityFarming: {"fiber", "flower", "grain", "berry", "seed", "straw", "wispweave", "crop", "mushroom"},
	domain.ActivityFishing: {"fish", "chum", "bait", "shell", "kelp"},
	domain.ActivityHunting: {"pelt", "hide", "meat", "bone", "carcass", "fur", "feather", "tallow"},
}

// ClassifyActivity assigns an item name to its gathering activity.
func ClassifyActivity(name string) domain.Activity {
	lower := strings.ToLower(name)
	for _, act := range domain.ActivityOrder {
		for _, kw := range activityKeywords[act] {
			if strings.Contains(lower, kw) {
				return act
			}
		}
	}
	return domain.ActivityCrafting
}

// ─── Progress ───────────────────────────────────────────────────────────────

// CalculateProgress computes overall percent-complete over a first-trackable
// item set: contribution is min(have, required) per item, and a zero total
// requirement clamps to 100.
func CalculateProgress(items []domain.PlanItem) int {
	var required, contribution int
	for _, it := range items {
		required += it.Required
		contribution += min(it.Have, it.Required)
	}
	if required == 0 {
		return 100
	}
	return int(math.Round(100 * float64(contribution) / float64(required)))
}

// CalculateProgressByResearch computes the same percentage scoped to each
// research root's subtree.
func CalculateProgressByResearch(roots []domain.ProcessedNode) []domain.ResearchProgress {
	out := make([]domain.ResearchProgress, 0, len(roots))
	for i := range roots {
		scoped := CollectFirstTrackable(roots[i : i+1])
		out = append(out, domain.ResearchProgress{
			Name:    roots[i].Name,
			Percent: CalculateProgress(scoped),
		})
	}
	return out
}

// ─── Activity Grouping ──────────────────────────────────────────────────────

// GroupByActivity classifies each item into an activity group, sums the
// group deficits and sorts items within a group by deficit descending.
// Empty groups are omitted; group order follows ActivityOrder.
func GroupByActivity(items []domain.PlanItem) []domain.ActivityGroup {
	buckets := make(map[domain.Activity][]domain.PlanItem)
	for _, it := range items {
		it.Activity = ClassifyActivity(it.Name)
		buckets[it.Activity] = append(buckets[it.Activity], it)
	}

	out := make([]domain.ActivityGroup, 0, len(buckets))
	for _, act := range domain.ActivityOrder {
		group, ok := buckets[act]
		if !ok {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Deficit > group[j].Deficit
		})
		total := 0
		for _, it := range group {
			total += it.Deficit
		}
		out = append(out, domain.ActivityGroup{
			Activity:     act,
			TotalDeficit: total,
			Percent:      CalculateProgress(group),
			Items:        group,
		})
	}
	return out
}

// BuildReport assembles the flat progress report from a processed forest.
func BuildReport(roots []domain.ProcessedNode) domain.ProgressReport {
	first := CollectFirstTrackable(roots)
	for i := range first {
		first[i].Activity = ClassifyActivity(first[i].Name)
	}
	all := CollectTrackable(roots)
	for i := range all {
		all[i].Activity = ClassifyActivity(all[i].Name)
	}
	return domain.ProgressReport{
		Percent:        CalculateProgress(first),
		Researches:     CalculateProgressByResearch(roots),
		Groups:         GroupByActivity(first),
		Items:          first,
		TrackableItems: all,
	}
}
