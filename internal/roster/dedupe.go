package roster

import (
	"github.com/sells-group/prospect-cli/internal/match"
)

// RemovalReason annotates prospects moved to the holding sheet.
const RemovalReason = "Already in the customer roster (CRM)"

// NameSet is the canonical-name set built from the customer roster. Only
// membership is retained; duplicate canonical names collapse.
type NameSet map[string]struct{}

// BuildNameSet collects canonical names from roster rows. Each row may
// carry more than one name field (razão social, nome fantasia); empty
// cells and names that canonicalize to nothing are discarded.
func BuildNameSet(rows [][]string) NameSet {
	set := make(NameSet)
	for _, row := range rows {
		for _, name := range row {
			if name == "" {
				continue
			}
			if key := match.Canonical(name); key != "" {
				set[key] = struct{}{}
			}
		}
	}
	return set
}

// Deduper decides whether a prospect already exists in the roster.
type Deduper struct {
	set       NameSet
	threshold float64
}

// NewDeduper creates a Deduper over a canonical-name set with the given
// fuzzy threshold.
func NewDeduper(set NameSet, threshold float64) *Deduper {
	return &Deduper{set: set, threshold: threshold}
}

// Size returns the number of distinct canonical roster names.
func (d *Deduper) Size() int { return len(d.set) }

// Matches reports whether a prospect name collides with the roster:
// exact canonical membership first, then a fuzzy pass over the whole set.
// The fuzzy pass accepts the first name at or above the threshold; set
// iteration order is unspecified, which only matters when several roster
// names tie — any of them justifies removal equally.
func (d *Deduper) Matches(name string) bool {
	if name == "" {
		return false
	}
	key := match.Canonical(name)
	if key == "" {
		return false
	}
	if _, ok := d.set[key]; ok {
		return true
	}

	for rosterName := range d.set {
		if match.Similarity(name, rosterName) >= d.threshold {
			return true
		}
	}
	return false
}
