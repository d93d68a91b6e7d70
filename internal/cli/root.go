// Package cli implements the claimplan command tree.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/claimplan/claimplan/internal/daemon"
	"github.com/claimplan/claimplan/internal/engine"
	"github.com/claimplan/claimplan/internal/infra/gamedata"
	"github.com/claimplan/claimplan/internal/infra/staticdata"
	"github.com/claimplan/claimplan/internal/infra/store"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "claimplan",
	Short: "Settlement upgrade planner",
	Long: `claimplan tells you exactly what raw materials and intermediate items
your settlement is still missing to reach a target upgrade tier. It reads
your claim's live inventory, walks the codex research trees, and produces
an activity-grouped gathering list.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default ~/.claimplan/config.toml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file named by --config or the default path.
func loadConfig() (daemon.Config, error) {
	path := configPath
	if path == "" {
		path = filepath.Join(daemon.Home(), "config.toml")
	}
	return daemon.Load(path)
}

// stack is the wired service dependency set.
type stack struct {
	cfg    daemon.Config
	store  *store.Store
	client *gamedata.Client
	calc   *engine.Calculator
}

// buildStack wires the cache, the game-data client and the calculator.
func buildStack(cfg daemon.Config) (*stack, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Data.CachePath), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	st, err := store.Open(cfg.Data.CachePath)
	if err != nil {
		return nil, err
	}

	clientCfg := gamedata.DefaultConfig(cfg.Data.BaseURL)
	clientCfg.CodexTTL = daemon.ParseTTL(cfg.Data.CodexTTL, clientCfg.CodexTTL)
	clientCfg.InventoryTTL = daemon.ParseTTL(cfg.Data.InventoryTTL, clientCfg.InventoryTTL)
	client := gamedata.NewClient(clientCfg, st)

	calc := engine.NewCalculator(
		client, client,
		staticdata.ItemMappings,
		staticdata.TierRequirements,
		staticdata.PackageRules,
	)
	return &stack{cfg: cfg, store: st, client: client, calc: calc}, nil
}

func (s *stack) Close() {
	s.store.Close()
}
