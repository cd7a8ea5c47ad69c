package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rbhatti-ai/exportguard-ai/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "exportguard",
	Short: "Canadian export invoice compliance assessor",
	Long:  "Assesses commercial export invoices against simplified Canadian export-reporting rules: resolves the invoice value, normalizes it to CAD, evaluates the CERS rule set, and reports a compliance score with cited findings.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
