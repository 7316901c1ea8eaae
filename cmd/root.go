package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/config"
)

var cfg *config.Config

var (
	workbookInput  string
	workbookOutput string
)

// workbookConfig applies the shared --input/--output overrides.
func workbookConfig() config.WorkbookConfig {
	wbCfg := cfg.Workbook
	if workbookInput != "" {
		wbCfg.InputPath = workbookInput
	}
	if workbookOutput != "" {
		wbCfg.OutputPath = workbookOutput
	}
	return wbCfg
}

var rootCmd = &cobra.Command{
	Use:   "prospect-cli",
	Short: "Prospect workbook enrichment pipeline",
	Long:  "Fills missing phone/address data for prospect spreadsheets via Google Places and the companies' own websites, deduplicates against the customer roster, and backfills last-purchase years from billing history.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Local development convenience; a missing .env is fine.
		_ = godotenv.Load()

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

func init() {
	rootCmd.PersistentFlags().StringVar(&workbookInput, "input", "", "input workbook path (default from config)")
	rootCmd.PersistentFlags().StringVar(&workbookOutput, "output", "", "output workbook path (default from config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
