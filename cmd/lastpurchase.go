package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/roster"
	"github.com/sells-group/prospect-cli/internal/workbook"
)

var lastPurchaseCmd = &cobra.Command{
	Use:   "lastpurchase",
	Short: "Backfill the roster's last-purchase year from the billing history sheet",
	RunE: func(cmd *cobra.Command, _ []string) error {
		wb, err := workbook.Open(workbookConfig())
		if err != nil {
			return err
		}

		grid := wb.HistoryGrid()
		if grid == nil {
			return eris.Errorf("history sheet %q not found", cfg.Workbook.HistorySheet)
		}
		h, err := roster.BuildHistory(grid, cfg.Match.LastPurchaseThreshold)
		if err != nil {
			return err
		}

		updated := wb.BackfillLastPurchase(h)

		out, err := wb.Save()
		if err != nil {
			return err
		}

		zap.L().Info("last purchase backfill complete",
			zap.String("output", out),
			zap.Int("customers_with_history", h.Size()),
			zap.Int("updated", updated),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lastPurchaseCmd)
}
