package workbook

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/prospect-cli/internal/config"
	"github.com/sells-group/prospect-cli/internal/match"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/roster"
)

// Normalized header keys. The workbook is the data contract with the
// sales team, so the column titles stay in Portuguese.
const (
	colName        = "nome"
	colSite        = "site"
	colPhone       = "telefone"
	colAddress     = "endereco"
	colFactoryType = "tipo da fabrica"
	colRazao       = "cliente razao social"
	colFantasia    = "nome fantasia"
	colLastBuy     = "ultima compra"
)

// Column titles appended to the prospect sheet when absent.
var enrichmentColumns = []string{"Status", "PlaceId", "Score", "Fonte"}

// Headers of the holding sheet for removed prospects.
var removedColumns = []string{"Tipo da fábrica", "Nome", "Site", "Telefone", "Endereço", "Motivo"}

// Workbook wraps the prospect XLSX file. All mutation happens in memory;
// Save writes the enriched copy to the configured output path.
type Workbook struct {
	file *xlsx.File
	cfg  config.WorkbookConfig
}

// sheet pairs an xlsx sheet with its normalized header map.
type sheet struct {
	ws      *xlsx.Sheet
	headers map[string]int
}

// Open loads the workbook and validates the prospect sheet: the name,
// phone and address columns must exist. This is the only unrecoverable
// input condition; every other sheet degrades to a no-op when missing.
func Open(cfg config.WorkbookConfig) (*Workbook, error) {
	f, err := xlsx.OpenFile(cfg.InputPath)
	if err != nil {
		return nil, eris.Wrapf(err, "workbook: open %s", cfg.InputPath)
	}

	w := &Workbook{file: f, cfg: cfg}

	prospects, ok := w.sheet(cfg.ProspectSheet)
	if !ok {
		return nil, eris.Errorf("workbook: sheet %q not found", cfg.ProspectSheet)
	}
	for _, key := range []string{colName, colPhone, colAddress} {
		if _, ok := prospects.headers[key]; !ok {
			return nil, eris.Errorf("workbook: sheet %q is missing the %q column", cfg.ProspectSheet, key)
		}
	}

	return w, nil
}

// Save writes the workbook to the output path and returns that path.
func (w *Workbook) Save() (string, error) {
	if err := w.file.Save(w.cfg.OutputPath); err != nil {
		return "", eris.Wrapf(err, "workbook: save %s", w.cfg.OutputPath)
	}
	return w.cfg.OutputPath, nil
}

// Records reads the prospect rows. Rows without a name are skipped; the
// Row field keeps the sheet index so writes land on the right row even
// with gaps. The enrichment columns are appended to the header when
// missing so WriteRecord always has a destination.
func (w *Workbook) Records() []model.Record {
	s, ok := w.sheet(w.cfg.ProspectSheet)
	if !ok {
		return nil
	}
	for _, title := range enrichmentColumns {
		s.ensureColumn(title)
	}

	var records []model.Record
	for r := 1; r < len(s.ws.Rows); r++ {
		name := strings.TrimSpace(s.get(r, colName))
		if name == "" {
			continue
		}
		records = append(records, model.Record{
			Row:         r,
			FactoryType: strings.TrimSpace(s.get(r, colFactoryType)),
			Name:        name,
			Website:     strings.TrimSpace(s.get(r, colSite)),
			Phone:       strings.TrimSpace(s.get(r, colPhone)),
			Address:     strings.TrimSpace(s.get(r, colAddress)),
		})
	}
	return records
}

// WriteRecord writes the enriched fields back to the record's row.
func (w *Workbook) WriteRecord(rec *model.Record) {
	s, ok := w.sheet(w.cfg.ProspectSheet)
	if !ok {
		return
	}

	s.set(rec.Row, colPhone, rec.Phone)
	s.set(rec.Row, colAddress, rec.Address)
	s.ws.Cell(rec.Row, s.ensureColumn("Status")).SetString(string(rec.Status))
	if rec.PlaceID != "" {
		s.ws.Cell(rec.Row, s.ensureColumn("PlaceId")).SetString(rec.PlaceID)
		s.ws.Cell(rec.Row, s.ensureColumn("Score")).SetFloat(rec.Score)
	}
	if rec.Source != "" {
		s.ws.Cell(rec.Row, s.ensureColumn("Fonte")).SetString(rec.Source)
	}
}

// RosterNames returns the razão social / nome fantasia pairs of the
// customer roster, one slice per data row. Empty when the sheet or the
// razão social column is missing.
func (w *Workbook) RosterNames() [][]string {
	s, ok := w.sheet(w.cfg.RosterSheet)
	if !ok {
		return nil
	}
	if _, ok := s.headers[colRazao]; !ok {
		return nil
	}

	var rows [][]string
	for r := 1; r < len(s.ws.Rows); r++ {
		rows = append(rows, []string{
			strings.TrimSpace(s.get(r, colRazao)),
			strings.TrimSpace(s.get(r, colFantasia)),
		})
	}
	return rows
}

// HistoryGrid returns the purchase-history sheet as a raw string grid,
// or nil when the sheet is absent.
func (w *Workbook) HistoryGrid() [][]string {
	s, ok := w.sheet(w.cfg.HistorySheet)
	if !ok {
		return nil
	}

	grid := make([][]string, len(s.ws.Rows))
	for i, row := range s.ws.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		grid[i] = cells
	}
	return grid
}

// BackfillLastPurchase writes the latest purchase year into the roster's
// "Última compra" column for every customer the history resolves, and
// returns how many rows were updated. A roster without the target or the
// razão social column is left untouched.
func (w *Workbook) BackfillLastPurchase(h *roster.History) int {
	s, ok := w.sheet(w.cfg.RosterSheet)
	if !ok {
		return 0
	}
	ultima, haveUltima := s.headers[colLastBuy]
	if _, haveRazao := s.headers[colRazao]; !haveUltima || !haveRazao {
		return 0
	}

	updated := 0
	for r := 1; r < len(s.ws.Rows); r++ {
		names := []string{strings.TrimSpace(s.get(r, colRazao))}
		if fantasia := strings.TrimSpace(s.get(r, colFantasia)); fantasia != "" {
			names = append(names, fantasia)
		}
		if year, ok := h.FindYear(names...); ok {
			s.ws.Cell(r, ultima).SetString(strconv.Itoa(year))
			updated++
		}
	}
	return updated
}

// RemoveExisting moves every prospect matching the roster to the holding
// sheet and deletes its row, bottom-up so pending indexes stay valid.
// Returns the number of rows moved.
func (w *Workbook) RemoveExisting(d *roster.Deduper) int {
	s, ok := w.sheet(w.cfg.ProspectSheet)
	if !ok {
		return 0
	}

	var doomed []int
	for r := 1; r < len(s.ws.Rows); r++ {
		name := strings.TrimSpace(s.get(r, colName))
		if name != "" && d.Matches(name) {
			doomed = append(doomed, r)
		}
	}

	removed := w.removedSheet()
	if removed == nil {
		return 0
	}
	for i := len(doomed) - 1; i >= 0; i-- {
		r := doomed[i]
		removed.appendRemoved(model.RemovedRecord{
			FactoryType: s.get(r, colFactoryType),
			Name:        s.get(r, colName),
			Site:        s.get(r, colSite),
			Phone:       s.get(r, colPhone),
			Address:     s.get(r, colAddress),
			Reason:      roster.RemovalReason,
		})
		s.deleteRow(r)
	}
	return len(doomed)
}

// removedSheet returns the holding sheet, creating it and its headers on
// first use.
func (w *Workbook) removedSheet() *sheet {
	s, ok := w.sheet(w.cfg.RemovedSheet)
	if !ok {
		ws, err := w.file.AddSheet(w.cfg.RemovedSheet)
		if err != nil {
			// Only fails on a duplicate name, which the lookup above rules out.
			return nil
		}
		s = &sheet{ws: ws, headers: make(map[string]int)}
	}
	for _, title := range removedColumns {
		s.ensureColumn(title)
	}
	return s
}

func (w *Workbook) sheet(name string) (*sheet, bool) {
	ws, ok := w.file.Sheet[name]
	if !ok {
		return nil, false
	}
	return newSheet(ws), true
}

func newSheet(ws *xlsx.Sheet) *sheet {
	headers := make(map[string]int)
	if len(ws.Rows) > 0 {
		for c, cell := range ws.Rows[0].Cells {
			if key := match.NormalizeHeader(cell.String()); key != "" {
				headers[key] = c
			}
		}
	}
	return &sheet{ws: ws, headers: headers}
}

// ensureColumn returns the column index for title, appending a header
// cell when the column does not exist yet.
func (s *sheet) ensureColumn(title string) int {
	key := match.NormalizeHeader(title)
	if c, ok := s.headers[key]; ok {
		return c
	}
	c := s.width()
	s.ws.Cell(0, c).SetString(title)
	s.headers[key] = c
	return c
}

// width is the widest row seen, so appended headers never collide with
// data in ragged sheets.
func (s *sheet) width() int {
	widest := 0
	for _, row := range s.ws.Rows {
		if len(row.Cells) > widest {
			widest = len(row.Cells)
		}
	}
	return widest
}

func (s *sheet) get(r int, key string) string {
	c, ok := s.headers[key]
	if !ok || r >= len(s.ws.Rows) || c >= len(s.ws.Rows[r].Cells) {
		return ""
	}
	return s.ws.Rows[r].Cells[c].String()
}

// set writes v into the row's column, but only when the value is
// non-empty and the column exists. Existing cell content is replaced;
// callers guard against overwriting populated fields.
func (s *sheet) set(r int, key, v string) {
	c, ok := s.headers[key]
	if !ok || v == "" {
		return
	}
	s.ws.Cell(r, c).SetString(v)
}

func (s *sheet) deleteRow(r int) {
	if r < 0 || r >= len(s.ws.Rows) {
		return
	}
	s.ws.Rows = append(s.ws.Rows[:r], s.ws.Rows[r+1:]...)
	s.ws.MaxRow = len(s.ws.Rows)
}

// appendRemoved adds one row to the holding sheet in header order.
func (s *sheet) appendRemoved(rec model.RemovedRecord) {
	r := len(s.ws.Rows)
	values := []string{rec.FactoryType, rec.Name, rec.Site, rec.Phone, rec.Address, rec.Reason}
	for i, title := range removedColumns {
		if c, ok := s.headers[match.NormalizeHeader(title)]; ok {
			s.ws.Cell(r, c).SetString(values[i])
		}
	}
}
