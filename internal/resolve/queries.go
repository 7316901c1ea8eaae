package resolve

import (
	"strings"

	"github.com/sells-group/prospect-cli/internal/config"
	"github.com/sells-group/prospect-cli/internal/match"
)

// BuildQueries produces the ordered, deduplicated search queries for a
// business, most specific first. Domain-qualified queries lead because a
// domain hit is near-certain identity; broader industry and bare-name
// queries only run when earlier ones fail to clear the accept score.
func BuildQueries(name, domain string, cfg config.PlacesConfig) []string {
	name = strings.TrimSpace(name)
	alt := match.Canonical(name)

	var queries []string
	if domain != "" {
		queries = append(queries,
			name+" "+domain+" "+cfg.Country,
			alt+" "+domain+" "+cfg.Country,
		)
	}
	queries = append(queries,
		name+" "+cfg.IndustryKeyword+" "+cfg.Country,
		alt+" "+cfg.IndustryKeyword+" "+cfg.Country,
		name+" "+cfg.SecondaryKeyword+" "+cfg.Country,
		alt+" "+cfg.Country,
		name+" "+cfg.Country,
	)

	var uniq []string
	seen := make(map[string]struct{})
	for _, q := range queries {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		if _, dup := seen[q]; dup {
			continue
		}
		seen[q] = struct{}{}
		uniq = append(uniq, q)
	}
	return uniq
}
