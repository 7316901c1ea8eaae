package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/prospect-cli/pkg/places"
)

func TestScoreCandidate_DomainMatch(t *testing.T) {
	t.Parallel()
	cand := places.Place{Website: "https://www.acme.com.br/home"}

	with := ScoreCandidate("Acme", "acme.com.br", cand)
	without := ScoreCandidate("Acme", "other.com.br", cand)

	assert.InDelta(t, 10.0, with-without, 1e-9)
}

func TestScoreCandidate_NameSimilarity(t *testing.T) {
	t.Parallel()
	exact := ScoreCandidate("Acme Plasticos", "", places.Place{Name: "Acme Plasticos"})
	none := ScoreCandidate("Acme Plasticos", "", places.Place{Name: "Beta Quimica"})

	assert.InDelta(t, 5.0, exact, 1e-9)
	assert.Zero(t, none)
}

func TestScoreCandidate_WeakSignals(t *testing.T) {
	t.Parallel()
	base := places.Place{Name: "Acme"}

	assert.InDelta(t, 1.0,
		ScoreCandidate("x", "", withStatus(base, "OPERATIONAL"))-ScoreCandidate("x", "", base), 1e-9)

	withPhone := base
	withPhone.FormattedPhoneNumber = "(11) 1234-5678"
	assert.InDelta(t, 0.8, ScoreCandidate("x", "", withPhone)-ScoreCandidate("x", "", base), 1e-9)

	withAddr := base
	withAddr.FormattedAddress = "Rua A, 1"
	assert.InDelta(t, 0.8, ScoreCandidate("x", "", withAddr)-ScoreCandidate("x", "", base), 1e-9)
}

// Adding any single signal to an otherwise identical candidate never
// lowers its score.
func TestScoreCandidate_Monotonic(t *testing.T) {
	t.Parallel()
	base := places.Place{Name: "Acme Plasticos", Website: "https://acme.com.br"}
	baseScore := ScoreCandidate("Acme Plasticos", "acme.com.br", base)

	richer := []places.Place{
		withStatus(base, "OPERATIONAL"),
		withPhoneNumber(base, "(11) 1234-5678"),
		withAddress(base, "Rua das Flores, 100"),
	}
	for _, cand := range richer {
		assert.GreaterOrEqual(t, ScoreCandidate("Acme Plasticos", "acme.com.br", cand), baseScore)
	}
}

func TestScoreCandidate_FullHouse(t *testing.T) {
	t.Parallel()
	cand := places.Place{
		Name:                     "Acme Plasticos",
		Website:                  "https://acme.com.br",
		BusinessStatus:           "OPERATIONAL",
		InternationalPhoneNumber: "+55 11 1234-5678",
		FormattedAddress:         "Rua das Flores, 100",
	}

	score := ScoreCandidate("Acme Plasticos", "acme.com.br", cand)
	assert.InDelta(t, 10.0+5.0+1.0+0.8+0.8, score, 1e-9)
}

func withStatus(p places.Place, s string) places.Place {
	p.BusinessStatus = s
	return p
}

func withPhoneNumber(p places.Place, n string) places.Place {
	p.FormattedPhoneNumber = n
	return p
}

func withAddress(p places.Place, a string) places.Place {
	p.FormattedAddress = a
	return p
}
