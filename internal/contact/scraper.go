package contact

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/prospect-cli/internal/config"
	"github.com/sells-group/prospect-cli/internal/model"
)

// Scraper walks a site's likely contact pages and extracts the best phone
// and address it can find.
type Scraper struct {
	fetcher  *Fetcher
	limiter  *rate.Limiter
	maxPages int
}

// NewScraper creates a Scraper from crawl configuration.
func NewScraper(cfg config.CrawlConfig) *Scraper {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 6
	}
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 12
	}
	return &Scraper{
		fetcher:  NewFetcher(cfg),
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
		maxPages: maxPages,
	}
}

// Scrape visits candidate contact pages in order and returns as soon as a
// single page yields both a phone and an address. Otherwise it returns the
// first phone and first address seen anywhere, with the page that supplied
// the first finding. Unreachable pages are skipped.
func (s *Scraper) Scrape(ctx context.Context, siteURL string) (model.ContactFinding, error) {
	siteURL = NormalizeURL(siteURL)
	if siteURL == "" {
		return model.ContactFinding{}, nil
	}

	pages := DiscoverPages(ctx, s.fetcher, siteURL, s.maxPages)
	if !containsURL(pages, siteURL) {
		pages = append(pages, siteURL)
	}

	var best model.ContactFinding

	for _, pageURL := range pages {
		if err := s.limiter.Wait(ctx); err != nil {
			return best, err
		}

		pageHTML, err := s.fetcher.FetchHTML(ctx, pageURL)
		if err != nil {
			zap.L().Debug("contact page unreachable",
				zap.String("url", pageURL),
				zap.Error(err),
			)
			continue
		}

		ldPhones, ldAddrs := ExtractStructured(pageHTML)
		txPhones, txAddrs := ExtractFreeText(VisibleText(pageHTML))

		phone := BestPhone(append(ldPhones, txPhones...))
		addr := BestAddress(append(ldAddrs, txAddrs...))

		// A page with both wins outright.
		if phone != "" && addr != "" {
			return model.ContactFinding{Phone: phone, Address: addr, SourceURL: pageURL}, nil
		}

		if phone != "" && best.Phone == "" {
			best.Phone = phone
			if best.SourceURL == "" {
				best.SourceURL = pageURL
			}
		}
		if addr != "" && best.Address == "" {
			best.Address = addr
			if best.SourceURL == "" {
				best.SourceURL = pageURL
			}
		}
	}

	return best, nil
}

func containsURL(urls []string, target string) bool {
	for _, u := range urls {
		if u == target {
			return true
		}
	}
	return false
}
