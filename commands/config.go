package commands

import (
	"github.com/spf13/cobra"

	cfg "github.com/maastricht-university/podcast-pipeline/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long:  `Print the configuration after defaults, file and PODCAST_* environment overrides. Secrets are masked.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cfg.Dump(cmd.OutOrStdout(), conf)
	},
}
