package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/prospect-cli/internal/contact"
)

var scrapeURL string

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Extract contact data from a single company website",
	RunE: func(cmd *cobra.Command, _ []string) error {
		scraper := contact.NewScraper(cfg.Crawl)

		finding, err := scraper.Scrape(cmd.Context(), scrapeURL)
		if err != nil {
			return eris.Wrap(err, "scrape")
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(finding)
	},
}

func init() {
	scrapeCmd.Flags().StringVar(&scrapeURL, "url", "", "website URL (required)")
	_ = scrapeCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(scrapeCmd)
}
