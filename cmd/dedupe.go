package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/roster"
	"github.com/sells-group/prospect-cli/internal/workbook"
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Move prospects already present in the customer roster to the holding sheet",
	RunE: func(cmd *cobra.Command, _ []string) error {
		wb, err := workbook.Open(workbookConfig())
		if err != nil {
			return err
		}

		deduper := roster.NewDeduper(roster.BuildNameSet(wb.RosterNames()), cfg.Match.DedupeThreshold)
		removed := wb.RemoveExisting(deduper)

		out, err := wb.Save()
		if err != nil {
			return err
		}

		zap.L().Info("dedupe complete",
			zap.String("output", out),
			zap.Int("roster_names", deduper.Size()),
			zap.Int("removed", removed),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dedupeCmd)
}
