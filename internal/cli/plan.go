package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/claimplan/claimplan/internal/domain"
	"github.com/claimplan/claimplan/internal/engine"
)

// ─── claimplan plan ─────────────────────────────────────────────────────────

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().StringP("claim", "c", "", "claim ID to plan for (required)")
	planCmd.Flags().IntP("tier", "t", 0, "target upgrade tier (required)")
	planCmd.Flags().IntP("batch", "b", 0, "override codex completion count")
	planCmd.Flags().StringP("output", "o", "summary", "output format: summary, text, csv or json")
	planCmd.MarkFlagRequired("claim")
	planCmd.MarkFlagRequired("tier")
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute the missing-materials plan for a claim",
	Long: `Compute what is still missing to reach the target tier: fetches the
claim's inventory and the codex trees, runs the requirement cascade, and
prints the activity-grouped gathering list.`,
	RunE: runPlan,
}

func runPlan(cmd *cobra.Command, args []string) error {
	claimID, _ := cmd.Flags().GetString("claim")
	tier, _ := cmd.Flags().GetInt("tier")
	batch, _ := cmd.Flags().GetInt("batch")
	output, _ := cmd.Flags().GetString("output")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := buildStack(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	plan, err := s.calc.CalculateRequirements(cmd.Context(), claimID, tier, engine.Options{BatchCount: batch})
	if err != nil {
		return err
	}

	switch output {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	case "csv":
		out, err := engine.ExportCSV(plan.Report)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	case "text":
		fmt.Print(engine.ExportText(plan.Report))
		return nil
	case "summary":
		printSummary(plan.ClaimID, plan.TargetTier, plan.BatchCount, plan.Report)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
}

func printSummary(claimID string, tier, batch int, report domain.ProgressReport) {
	fmt.Printf("Claim %s → tier %d (%d codex completions)\n", claimID, tier, batch)
	fmt.Printf("Overall: %d%% complete\n", report.Percent)

	for _, res := range report.Researches {
		fmt.Printf("  %-28s %3d%%\n", res.Name, res.Percent)
	}
	if len(report.Groups) > 0 {
		fmt.Println()
	}
	for _, group := range report.Groups {
		if group.TotalDeficit == 0 {
			continue
		}
		fmt.Printf("%s — %s still needed\n", group.Activity, engine.FormatCompact(group.TotalDeficit))
		for _, it := range group.Items {
			if it.Deficit == 0 {
				continue
			}
			fmt.Printf("  %-28s T%-2d %10s\n", it.Name, it.Tier, engine.FormatCompact(it.Deficit))
		}
	}
}
