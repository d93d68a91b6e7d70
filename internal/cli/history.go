package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// ─── claimplan history ──────────────────────────────────────────────────────

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 0, "maximum rows to show (default from config)")
	historyCmd.Flags().String("claim", "", "only show plans for this claim")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent plan calculations",
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	claimID, _ := cmd.Flags().GetString("claim")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := buildStack(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	if limit <= 0 {
		limit = cfg.Plan.HistoryLimit
	}
	records, err := s.store.PlanHistory(claimID, limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no plans recorded yet")
		return nil
	}

	fmt.Printf("%-20s %-36s %5s %6s %9s\n", "WHEN", "CLAIM", "TIER", "BATCH", "COMPLETE")
	for _, rec := range records {
		fmt.Printf("%-20s %-36s %5d %6d %8d%%\n",
			rec.CreatedAt.Format(time.DateTime), rec.ClaimID, rec.TargetTier, rec.BatchCount, rec.Percent)
	}
	return nil
}
