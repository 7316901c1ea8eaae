package resolve

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/prospect-cli/internal/config"
	"github.com/sells-group/prospect-cli/internal/contact"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/places"
)

// scored pairs a candidate with its confidence score and provenance.
type scored struct {
	score  float64
	place  places.Place
	id     string
	source string
}

// Resolver enriches one record at a time: Places search first when
// enabled, the record's own website as fallback.
type Resolver struct {
	places  places.Client
	scraper *contact.Scraper
	cfg     *config.Config
	limiter *rate.Limiter
}

// New creates a Resolver. The places client may be nil when search is
// disabled for the whole run.
func New(client places.Client, scraper *contact.Scraper, cfg *config.Config) *Resolver {
	rps := cfg.Places.RequestsPerSecond
	if rps <= 0 {
		rps = 4
	}
	return &Resolver{
		places:  client,
		scraper: scraper,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Resolve fills the record's missing phone/address and classifies the
// outcome. Existing values are never overwritten. Transport failures are
// absorbed per query/page; only context cancellation aborts.
func (r *Resolver) Resolve(ctx context.Context, rec *model.Record, searchEnabled bool) error {
	if rec.Complete() {
		rec.Status = model.StatusAlreadyFilled
		return nil
	}

	domain := contact.Domain(rec.Website)

	var best *scored
	if searchEnabled && r.places != nil {
		var err error
		best, err = r.searchBest(ctx, rec, domain)
		if err != nil {
			return err
		}
	}

	if best != nil {
		if rec.Phone == "" {
			rec.Phone = best.place.Phone()
		}
		if rec.Address == "" {
			rec.Address = best.place.FormattedAddress
		}
		rec.PlaceID = best.id
		rec.Score = math.Round(best.score*100) / 100
		rec.Source = best.source
	}

	if rec.Complete() {
		if searchEnabled {
			rec.Status = model.StatusPlaces
		} else {
			rec.Status = model.StatusSite
		}
		return nil
	}

	finding, err := r.scraper.Scrape(ctx, rec.Website)
	if err != nil {
		return err
	}

	if rec.Phone == "" && finding.Phone != "" {
		rec.Phone = finding.Phone
	}
	if rec.Address == "" && finding.Address != "" {
		rec.Address = finding.Address
	}

	source := finding.SourceURL
	if source == "" {
		source = contact.NormalizeURL(rec.Website)
	}

	switch {
	case rec.Complete():
		rec.Status = model.StatusSite
		rec.Source = source
	case rec.Phone != "" || rec.Address != "":
		rec.Status = model.StatusPartialSite
		rec.Source = source
	default:
		if searchEnabled {
			rec.Status = model.StatusNotFoundPlacesSite
		} else {
			rec.Status = model.StatusNotFoundSite
		}
		rec.Source = source
	}

	return nil
}

// searchBest runs the query ladder against Places, keeping the single
// best-scoring candidate. Ties keep the earliest candidate seen. The loop
// short-circuits once the best score clears the accept threshold, and
// falls back to a single Find Place lookup when the ladder yields nothing.
func (r *Resolver) searchBest(ctx context.Context, rec *model.Record, domain string) (*scored, error) {
	pageDelay := time.Duration(r.cfg.Places.PageTokenDelayMs) * time.Millisecond
	var best *scored

	for _, query := range BuildQueries(rec.Name, domain, r.cfg.Places) {
		results, err := places.SearchAll(ctx, r.places, query, r.cfg.Places.MaxPages, pageDelay)
		if err != nil {
			if ctx.Err() != nil {
				return best, ctx.Err()
			}
			// Recorded on the record, then on to the next query.
			rec.Status = model.Status("ERROR textsearch: " + err.Error())
			zap.L().Warn("text search failed",
				zap.String("name", rec.Name),
				zap.String("query", query),
				zap.Error(err),
			)
			continue
		}

		if limit := r.cfg.Places.MaxResultsPerQuery; limit > 0 && len(results) > limit {
			results = results[:limit]
		}

		for _, cand := range results {
			if cand.PlaceID == "" {
				continue
			}
			det, err := r.places.Details(ctx, cand.PlaceID)
			if err != nil {
				if ctx.Err() != nil {
					return best, ctx.Err()
				}
				continue
			}

			score := ScoreCandidate(rec.Name, domain, det.Result)
			if best == nil || score > best.score {
				best = &scored{score: score, place: det.Result, id: cand.PlaceID, source: model.SourceTextSearch}
			}
		}

		if best != nil && best.score >= r.cfg.Match.AcceptScore {
			break
		}

		if err := r.limiter.Wait(ctx); err != nil {
			return best, err
		}
	}

	if best != nil {
		return best, nil
	}

	// Broader single-shot lookup when the whole ladder came up empty.
	fp, err := r.places.FindPlace(ctx, rec.Name+" "+r.cfg.Places.Country)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		zap.L().Warn("find place failed", zap.String("name", rec.Name), zap.Error(err))
		return nil, nil
	}

	candidates := fp.Candidates
	if limit := r.cfg.Places.MaxFindPlaceResults; limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	for _, cand := range candidates {
		if cand.PlaceID == "" {
			continue
		}
		score := ScoreCandidate(rec.Name, domain, cand)
		if best == nil || score > best.score {
			best = &scored{score: score, place: cand, id: cand.PlaceID, source: model.SourceFindPlace}
		}
	}

	return best, nil
}
