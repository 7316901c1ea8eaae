package resolve

import (
	"strings"

	"github.com/sells-group/prospect-cli/internal/match"
	"github.com/sells-group/prospect-cli/pkg/places"
)

// Score weights. Domain match is the strongest independent identity signal;
// name similarity discriminates among the rest; the remaining signals are
// weak tie-breakers rewarding completeness and business continuity.
const (
	domainWeight     = 10.0
	nameWeight       = 5.0
	operationalBonus = 1.0
	phoneBonus       = 0.8
	addressBonus     = 0.8
)

// ScoreCandidate computes the confidence that a Places candidate is the
// target business. Scores are unbounded and only compared against each
// other and the accept threshold.
func ScoreCandidate(targetName, domain string, cand places.Place) float64 {
	web := strings.ReplaceAll(strings.ToLower(cand.Website), "www.", "")

	score := 0.0
	if domain != "" && strings.Contains(web, domain) {
		score += domainWeight
	}
	score += nameWeight * match.Similarity(targetName, cand.Name)
	if cand.BusinessStatus == "OPERATIONAL" {
		score += operationalBonus
	}
	if cand.Phone() != "" {
		score += phoneBonus
	}
	if cand.FormattedAddress != "" {
		score += addressBonus
	}
	return score
}
