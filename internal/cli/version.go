package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/claimplan/claimplan/internal/api"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the claimplan version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("claimplan %s\n", api.Version)
	},
}
