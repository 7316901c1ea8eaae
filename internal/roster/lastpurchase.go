package roster

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/match"
)

const (
	yearRowScanLimit = 20
	minYear          = 1900
	maxYear          = 2100
)

// YearColumn pairs a sheet column index with the year its header carries.
type YearColumn struct {
	Col  int
	Year int
}

// History maps canonical customer names to their latest purchase year.
type History struct {
	years     map[string]int
	threshold float64
}

// DetectYearColumns scans the first rows of a grid for the header row whose
// cells parse as plausible years. A row qualifies when at least two of its
// cells (past the name column) fall inside [1900, 2100].
func DetectYearColumns(grid [][]string) []YearColumn {
	limit := len(grid)
	if limit > yearRowScanLimit {
		limit = yearRowScanLimit
	}
	for r := 0; r < limit; r++ {
		var cols []YearColumn
		for c, cell := range grid[r] {
			if c == 0 {
				continue
			}
			y, err := strconv.Atoi(strings.TrimSpace(cell))
			if err != nil || y < minYear || y > maxYear {
				continue
			}
			cols = append(cols, YearColumn{Col: c, Year: y})
		}
		if len(cols) >= 2 {
			return cols
		}
	}
	return nil
}

// BuildHistory reads a purchase-history grid (customer names in the first
// column, one column per year) into a latest-year lookup. A year counts for
// a customer when its cell parses to a positive amount; duplicate names keep
// the greatest year seen. Returns an error when no year header row exists.
func BuildHistory(grid [][]string, threshold float64) (*History, error) {
	cols := DetectYearColumns(grid)
	if cols == nil {
		return nil, eris.New("roster: no year header row in purchase history")
	}

	h := &History{years: make(map[string]int), threshold: threshold}
	for _, row := range grid {
		if len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}

		latest := 0
		for _, yc := range cols {
			if yc.Col >= len(row) {
				continue
			}
			if ParseAmount(row[yc.Col]) > 0 && yc.Year > latest {
				latest = yc.Year
			}
		}
		if latest == 0 {
			continue
		}

		key := match.Canonical(name)
		if key == "" {
			continue
		}
		if latest > h.years[key] {
			h.years[key] = latest
		}
	}
	return h, nil
}

// Size returns the number of customers with at least one qualifying year.
func (h *History) Size() int { return len(h.years) }

// FindYear looks up the latest purchase year for any of the candidate
// names: exact canonical hits win, then a fuzzy pass over the history
// keeps the best-scoring entry at or above the threshold. Among equal
// similarity scores the entry with the greater year wins, which also
// pins down map iteration order.
func (h *History) FindYear(names ...string) (int, bool) {
	for _, name := range names {
		if name == "" {
			continue
		}
		if year, ok := h.years[match.Canonical(name)]; ok {
			return year, true
		}
	}

	bestScore := 0.0
	bestYear := 0
	for _, name := range names {
		if name == "" {
			continue
		}
		for histName, year := range h.years {
			score := match.Similarity(name, histName)
			if score < h.threshold {
				continue
			}
			if score > bestScore || (score == bestScore && year > bestYear) {
				bestScore = score
				bestYear = year
			}
		}
	}
	if bestYear == 0 {
		return 0, false
	}
	return bestYear, true
}

// ParseAmount parses a pt-BR formatted number ("1.234,56"): dots are
// thousands separators, the comma is the decimal mark. Unparseable or
// empty cells yield 0.
func ParseAmount(cell string) float64 {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
