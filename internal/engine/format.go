package engine

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/claimplan/claimplan/internal/domain"
)

// ─── Number Formatting ──────────────────────────────────────────────────────

// FormatCompact renders a quantity for export text: literal with thousands
// separators below 10K, then one decimal with a K/M/B suffix.
func FormatCompact(n int) string {
	switch {
	case n < 10_000:
		return groupThousands(n)
	case n < 1_000_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	case n < 1_000_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	default:
		return fmt.Sprintf("%.1fB", float64(n)/1_000_000_000)
	}
}

// groupThousands inserts comma separators into a non-negative integer.
func groupThousands(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// ─── Exporters ──────────────────────────────────────────────────────────────

// ExportText renders the report as deterministic Markdown-ish text: one
// section per non-empty activity group in fixed order, one line per item
// with its compacted deficit.
func ExportText(report domain.ProgressReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Upgrade progress: %d%%\n", report.Percent)
	for _, group := range report.Groups {
		if len(group.Items) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s (%s needed)\n", group.Activity, FormatCompact(group.TotalDeficit))
		for _, it := range group.Items {
			fmt.Fprintf(&b, "- %s (T%d): %s\n", it.Name, it.Tier, FormatCompact(it.Deficit))
		}
	}
	return b.String()
}

// ExportCSV renders one row per trackable item with raw numeric fields, no
// compaction. The wider TrackableItems set is exported, not the
// first-trackable gather list.
func ExportCSV(report domain.ProgressReport) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write([]string{"name", "tier", "activity", "required", "have", "deficit"}); err != nil {
		return "", err
	}
	for _, it := range report.TrackableItems {
		row := []string{
			it.Name,
			strconv.Itoa(it.Tier),
			string(it.Activity),
			strconv.Itoa(it.Required),
			strconv.Itoa(it.Have),
			strconv.Itoa(it.Deficit),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return b.String(), nil
}
