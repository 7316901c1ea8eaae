package workbook

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/prospect-cli/internal/config"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/roster"
)

func testWorkbookConfig(t *testing.T) config.WorkbookConfig {
	t.Helper()
	dir := t.TempDir()
	return config.WorkbookConfig{
		InputPath:     filepath.Join(dir, "in.xlsx"),
		OutputPath:    filepath.Join(dir, "out.xlsx"),
		ProspectSheet: "Clientes",
		RemovedSheet:  "Removidos",
		RosterSheet:   "BASE REPRESENTANTES",
		HistorySheet:  "CURVA ABC",
	}
}

func addSheet(t *testing.T, f *xlsx.File, name string, rows [][]string) {
	t.Helper()
	sheet, err := f.AddSheet(name)
	require.NoError(t, err)
	for _, cells := range rows {
		row := sheet.AddRow()
		for _, v := range cells {
			row.AddCell().SetString(v)
		}
	}
}

func saveTestFile(t *testing.T, cfg config.WorkbookConfig, build func(f *xlsx.File)) {
	t.Helper()
	f := xlsx.NewFile()
	build(f)
	require.NoError(t, f.Save(cfg.InputPath))
}

func prospectRows() [][]string {
	return [][]string{
		{"Tipo da fábrica", "Nome", "Site", "Telefone", "Endereço"},
		{"Caixas", "Acme Plasticos", "acme.com.br", "", ""},
		{"", "", "", "", ""}, // no name, skipped
		{"Sacos", "Beta Quimica", "", "(41) 3333-4444", "Avenida Sete, 900"},
	}
}

func TestOpen_MissingSheet(t *testing.T) {
	cfg := testWorkbookConfig(t)
	saveTestFile(t, cfg, func(f *xlsx.File) {
		addSheet(t, f, "Outra", [][]string{{"Nome"}})
	})

	_, err := Open(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Clientes")
}

func TestOpen_MissingRequiredColumn(t *testing.T) {
	cfg := testWorkbookConfig(t)
	saveTestFile(t, cfg, func(f *xlsx.File) {
		addSheet(t, f, "Clientes", [][]string{{"Nome", "Site"}}) // no telefone/endereco
	})

	_, err := Open(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telefone")
}

func TestRecords(t *testing.T) {
	cfg := testWorkbookConfig(t)
	saveTestFile(t, cfg, func(f *xlsx.File) {
		addSheet(t, f, "Clientes", prospectRows())
	})

	w, err := Open(cfg)
	require.NoError(t, err)

	records := w.Records()
	require.Len(t, records, 2, "row without a name is skipped")

	assert.Equal(t, model.Record{
		Row:         1,
		FactoryType: "Caixas",
		Name:        "Acme Plasticos",
		Website:     "acme.com.br",
	}, records[0])
	assert.Equal(t, 3, records[1].Row, "sheet row index survives the gap")
	assert.Equal(t, "(41) 3333-4444", records[1].Phone)
}

func TestWriteRecord_RoundTrip(t *testing.T) {
	cfg := testWorkbookConfig(t)
	saveTestFile(t, cfg, func(f *xlsx.File) {
		addSheet(t, f, "Clientes", prospectRows())
	})

	w, err := Open(cfg)
	require.NoError(t, err)

	rec := w.Records()[0]
	rec.Phone = "(11) 91234-5678"
	rec.Address = "Rua das Flores, 100"
	rec.Status = model.StatusPlaces
	rec.PlaceID = "pid-1"
	rec.Score = 17.6
	rec.Source = model.SourceTextSearch
	w.WriteRecord(&rec)

	out, err := w.Save()
	require.NoError(t, err)
	assert.Equal(t, cfg.OutputPath, out)

	f, err := xlsx.OpenFile(out)
	require.NoError(t, err)
	sheet := f.Sheet["Clientes"]
	require.NotNil(t, sheet)

	header := sheet.Rows[0]
	titles := make([]string, len(header.Cells))
	for i, c := range header.Cells {
		titles[i] = c.String()
	}
	assert.Contains(t, titles, "Status")
	assert.Contains(t, titles, "PlaceId")
	assert.Contains(t, titles, "Score")
	assert.Contains(t, titles, "Fonte")

	row := sheet.Rows[1]
	assert.Equal(t, "(11) 91234-5678", row.Cells[3].String())
	assert.Equal(t, "Rua das Flores, 100", row.Cells[4].String())
	assert.Equal(t, string(model.StatusPlaces), row.Cells[5].String())
	assert.Equal(t, "pid-1", row.Cells[6].String())
	assert.NotEmpty(t, row.Cells[7].String())
	assert.Equal(t, model.SourceTextSearch, row.Cells[8].String())
}

func TestWriteRecord_NoPlaceColumnsWithoutHit(t *testing.T) {
	cfg := testWorkbookConfig(t)
	saveTestFile(t, cfg, func(f *xlsx.File) {
		addSheet(t, f, "Clientes", prospectRows())
	})

	w, err := Open(cfg)
	require.NoError(t, err)

	rec := w.Records()[0]
	rec.Status = model.StatusNotFoundSite
	w.WriteRecord(&rec)

	// Status lands, PlaceId/Score stay blank for a miss.
	s, ok := w.sheet(cfg.ProspectSheet)
	require.True(t, ok)
	assert.Equal(t, string(model.StatusNotFoundSite), s.ws.Cell(1, 5).String())
	assert.Empty(t, s.ws.Cell(1, 6).String())
}

func TestRosterNamesAndBackfill(t *testing.T) {
	cfg := testWorkbookConfig(t)
	saveTestFile(t, cfg, func(f *xlsx.File) {
		addSheet(t, f, "Clientes", prospectRows())
		addSheet(t, f, "BASE REPRESENTANTES", [][]string{
			{"Cliente Razão Social", "Nome Fantasia", "Última Compra"},
			{"Acme Plasticos Ltda", "Acme", ""},
			{"Companhia Sem Historico", "", ""},
		})
		addSheet(t, f, "CURVA ABC", [][]string{
			{"Cliente", "2021", "2023"},
			{"Acme Plasticos", "1.000,00", "500,00"},
		})
	})

	w, err := Open(cfg)
	require.NoError(t, err)

	names := w.RosterNames()
	require.Len(t, names, 2)
	assert.Equal(t, []string{"Acme Plasticos Ltda", "Acme"}, names[0])

	h, err := roster.BuildHistory(w.HistoryGrid(), 0.72)
	require.NoError(t, err)

	assert.Equal(t, 1, w.BackfillLastPurchase(h))

	s, ok := w.sheet(cfg.RosterSheet)
	require.True(t, ok)
	assert.Equal(t, "2023", s.ws.Cell(1, 2).String())
	assert.Empty(t, s.ws.Cell(2, 2).String())
}

func TestRemoveExisting(t *testing.T) {
	cfg := testWorkbookConfig(t)
	saveTestFile(t, cfg, func(f *xlsx.File) {
		addSheet(t, f, "Clientes", [][]string{
			{"Tipo da fábrica", "Nome", "Site", "Telefone", "Endereço"},
			{"Caixas", "Acme Plasticos", "acme.com.br", "", ""},
			{"Sacos", "Prospect Novo", "", "", ""},
			{"Filme", "Beta Quimica Ltda", "", "", ""},
		})
		addSheet(t, f, "BASE REPRESENTANTES", [][]string{
			{"Cliente Razão Social", "Nome Fantasia"},
			{"Acme Plasticos S.A.", ""},
			{"Beta Quimica", ""},
		})
	})

	w, err := Open(cfg)
	require.NoError(t, err)

	d := roster.NewDeduper(roster.BuildNameSet(w.RosterNames()), 0.78)
	assert.Equal(t, 2, w.RemoveExisting(d))

	records := w.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "Prospect Novo", records[0].Name)

	// The holding sheet was created with headers and both rows.
	removed, ok := w.sheet(cfg.RemovedSheet)
	require.True(t, ok)
	require.Len(t, removed.ws.Rows, 3)
	assert.Equal(t, "Tipo da fábrica", removed.ws.Rows[0].Cells[0].String())
	// Bottom-up removal appends the lowest sheet row last.
	assert.Equal(t, "Beta Quimica Ltda", removed.ws.Cell(1, 1).String())
	assert.Equal(t, "Acme Plasticos", removed.ws.Cell(2, 1).String())
	assert.Equal(t, roster.RemovalReason, removed.ws.Cell(1, 5).String())
}

func TestHistoryGrid_MissingSheet(t *testing.T) {
	cfg := testWorkbookConfig(t)
	saveTestFile(t, cfg, func(f *xlsx.File) {
		addSheet(t, f, "Clientes", prospectRows())
	})

	w, err := Open(cfg)
	require.NoError(t, err)
	assert.Nil(t, w.HistoryGrid())
	assert.Nil(t, w.RosterNames())
}
