package main

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/config"
	"github.com/sells-group/prospect-cli/internal/contact"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/resolve"
	"github.com/sells-group/prospect-cli/internal/roster"
	"github.com/sells-group/prospect-cli/internal/workbook"
	"github.com/sells-group/prospect-cli/pkg/places"
)

var (
	enrichMaxRows int
	enrichNoAPI   bool
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Run the full pipeline: backfill, dedupe and enrich the workbook",
	RunE: func(cmd *cobra.Command, _ []string) error {
		summary, err := runEnrich(cmd.Context())
		if err != nil {
			return err
		}

		zap.L().Info("enrichment complete",
			zap.String("run_id", summary.RunID),
			zap.String("output", summary.OutputPath),
			zap.Bool("places_enabled", summary.PlacesEnabled),
			zap.Int("last_purchase_updated", summary.LastPurchaseUpdated),
			zap.Int("removed_existing", summary.RemovedExisting),
			zap.Int("processed", summary.Processed),
		)
		return nil
	},
}

// runEnrich executes the whole pipeline against the configured workbook:
// purchase-year backfill, roster dedup, then one resolver pass per
// prospect row. Per-record transport failures are absorbed downstream;
// an error here means the workbook or the context is gone.
func runEnrich(ctx context.Context) (*model.RunSummary, error) {
	wbCfg := enrichWorkbookConfig()
	wb, err := workbook.Open(wbCfg)
	if err != nil {
		return nil, err
	}

	searchEnabled := cfg.Places.HasAPIKey() && !enrichNoAPI
	if !searchEnabled {
		zap.L().Warn("places search disabled, relying on company websites only")
	}

	updated := backfillLastPurchase(wb)

	deduper := roster.NewDeduper(roster.BuildNameSet(wb.RosterNames()), cfg.Match.DedupeThreshold)
	removed := wb.RemoveExisting(deduper)

	resolver := newResolver(searchEnabled)

	records := wb.Records()
	if limit := wbCfg.MaxRows; limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	for i := range records {
		rec := &records[i]
		if err := resolver.Resolve(ctx, rec, searchEnabled); err != nil {
			return nil, eris.Wrapf(err, "enrich: row %d", rec.Row)
		}
		wb.WriteRecord(rec)

		zap.L().Info("record processed",
			zap.Int("row", rec.Row),
			zap.String("name", rec.Name),
			zap.String("status", string(rec.Status)),
		)
	}

	out, err := wb.Save()
	if err != nil {
		return nil, err
	}

	return &model.RunSummary{
		RunID:               uuid.New().String(),
		OutputPath:          out,
		PlacesEnabled:       searchEnabled,
		LastPurchaseUpdated: updated,
		RemovedExisting:     removed,
		Processed:           len(records),
	}, nil
}

func enrichWorkbookConfig() config.WorkbookConfig {
	wbCfg := workbookConfig()
	if enrichMaxRows > 0 {
		wbCfg.MaxRows = enrichMaxRows
	}
	return wbCfg
}

func backfillLastPurchase(wb *workbook.Workbook) int {
	grid := wb.HistoryGrid()
	if grid == nil {
		return 0
	}
	h, err := roster.BuildHistory(grid, cfg.Match.LastPurchaseThreshold)
	if err != nil {
		// Backfill is best-effort; the enrichment itself proceeds.
		zap.L().Warn("purchase history unusable", zap.Error(err))
		return 0
	}
	return wb.BackfillLastPurchase(h)
}

func newResolver(searchEnabled bool) *resolve.Resolver {
	var client places.Client
	if searchEnabled {
		client = places.NewClient(cfg.Places.APIKey, places.WithBaseURL(cfg.Places.BaseURL))
	}
	return resolve.New(client, contact.NewScraper(cfg.Crawl), cfg)
}

func init() {
	enrichCmd.Flags().IntVar(&enrichMaxRows, "max-rows", 0, "process at most N prospect rows (0 = all)")
	enrichCmd.Flags().BoolVar(&enrichNoAPI, "no-api", false, "skip Places search even when an API key is set")
	rootCmd.AddCommand(enrichCmd)
}
