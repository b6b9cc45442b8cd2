package ingest

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// exportRow builds a full export row keyed by column name.
func exportRow(columns []string, values map[string]string) []string {
	row := make([]string, len(columns))
	for i, c := range columns {
		row[i] = values[c]
	}
	return row
}

func exportColumns() []string {
	return append([]string{ColDispatched}, ReportingSchema().Names()...)
}

func TestFilter_Retention(t *testing.T) {
	columns := exportColumns()
	table := &Table{Columns: columns}
	for _, r := range []struct{ id, dispatched, status string }{
		{"1", "Yes", "Delivered"},
		{"2", "No", "Delivered"},
		{"3", " YES ", "RTO"},
		{"4", "Yes", "   "},
		{"5", "yes", "In-Transit"},
		{"6", "", "Delivered"},
	} {
		table.Rows = append(table.Rows, exportRow(columns, map[string]string{
			ColOrderID:     r.id,
			ColDispatched:  r.dispatched,
			ColFinalStatus: r.status,
		}))
	}

	out, stats, err := Filter(table, ReportingSchema())
	require.NoError(t, err)

	assert.Equal(t, FilterStats{Read: 6, Dispatched: 4, Kept: 3}, stats)
	assert.Equal(t, ReportingSchema().Names(), out.Columns)
	assert.NotContains(t, out.Columns, ColDispatched)

	idx := out.Index(ColOrderID)
	var ids []string
	for _, row := range out.Rows {
		ids = append(ids, row[idx])
	}
	assert.Equal(t, []string{"1", "3", "5"}, ids, "input order is preserved")
}

func TestFilter_MissingColumns(t *testing.T) {
	columns := slices.DeleteFunc(exportColumns(), func(c string) bool {
		return c == ColZone || c == ColFinalStatus || c == ColFacility
	})
	table := &Table{Columns: columns, Rows: [][]string{make([]string, len(columns))}}

	out, _, err := Filter(table, ReportingSchema())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Nil(t, out)
	for _, c := range []string{ColZone, ColFinalStatus, ColFacility} {
		assert.Contains(t, err.Error(), c)
	}
	assert.Equal(t, 1, strings.Count(err.Error(), ColFinalStatus))
}

func TestFilter_OptionalColumnsProjectBlank(t *testing.T) {
	optional := []string{ColAssignedDate, ColPickupDate, ColDeliveryDate, ColDispatchDate, ColIdealDispatchR, ColReshipped}
	columns := slices.DeleteFunc(exportColumns(), func(c string) bool {
		return slices.Contains(optional, c)
	})
	table := &Table{Columns: columns, Rows: [][]string{
		exportRow(columns, map[string]string{ColOrderID: "9", ColDispatched: "Yes", ColFinalStatus: "Delivered"}),
	}}

	out, _, err := Filter(table, ReportingSchema())
	require.NoError(t, err)
	require.Len(t, out.Rows, 1)
	for _, c := range optional {
		idx := out.Index(c)
		require.GreaterOrEqual(t, idx, 0, c)
		assert.Empty(t, out.Rows[0][idx], c)
	}
}

func TestDecode(t *testing.T) {
	schema := ReportingSchema()
	columns := append(schema.Names(), "Unrelated")
	row := exportRow(columns, map[string]string{
		ColOrderID:          "D-1",
		ColFacility:         "Dark Store",
		ColZone:             " NDD",
		ColPickupDate:       "45296",
		ColShippingProvider: "Shiprocket",
		ColReshipped:        "Yes",
		"Unrelated":         "ignored",
	})

	orders, err := Decode(&Table{Columns: columns, Rows: [][]string{row}}, schema)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	o := orders[0]
	assert.Equal(t, "D-1", o.ID)
	assert.Equal(t, "Dark Store", o.Facility)
	assert.Equal(t, " NDD", o.Zone, "cells are carried through untouched")
	assert.Equal(t, "45296", o.PickupDate)
	assert.Equal(t, "Shiprocket", o.ShippingProvider)
	assert.Equal(t, "Yes", o.Reshipped)
	assert.Empty(t, o.DeliveryDate)
}

func TestDecode_RaggedRow(t *testing.T) {
	_, err := Decode(&Table{Columns: []string{ColOrderID, ColZone}, Rows: [][]string{{"1"}}}, ReportingSchema())
	require.Error(t, err)
}

func TestReadCSV(t *testing.T) {
	input := "\ufeff Devx Order ID ,Zone,Final Status\n1,a,Delivered\n,,\n2,b\n"

	table, err := ReadCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{ColOrderID, ColZone, ColFinalStatus}, table.Columns)
	assert.Equal(t, [][]string{
		{"1", "a", "Delivered"},
		{"2", "b", ""},
	}, table.Rows)
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV(context.Background(), strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = ReadCSV(context.Background(), strings.NewReader(" , \n1,2\n"))
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestReadCSV_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReadCSV(ctx, strings.NewReader("a,b\n1,2\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func writeWorkbook(t *testing.T, sheets map[string][][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer func() { require.NoError(t, f.Close()) }()

	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}

	path := filepath.Join(t.TempDir(), "export.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadFile_Workbook(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"Orders": {
			{"Devx Order ID", "Pickup Date (Date)", "Final Status"},
			{"1", 45296, "Delivered"},
			{"2", nil, "RTO"},
		},
	})

	table, err := ReadFile(context.Background(), path, ReadOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{ColOrderID, ColPickupDate, ColFinalStatus}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"1", "45296", "Delivered"}, table.Rows[0])
	assert.Equal(t, []string{"2", "", "RTO"}, table.Rows[1])
}

func TestReadFile_SheetSelection(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"Orders": {{"Devx Order ID"}, {"1"}},
	})

	_, err := ReadFile(context.Background(), path, ReadOptions{Sheet: "Missing"})
	assert.ErrorIs(t, err, ErrSheetNotFound)

	table, err := ReadFile(context.Background(), path, ReadOptions{Sheet: "Orders"})
	require.NoError(t, err)
	assert.Len(t, table.Rows, 1)
}

func TestReadFile_Unsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))

	_, err := ReadFile(context.Background(), path, ReadOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoad_CSV(t *testing.T) {
	columns := exportColumns()
	var b strings.Builder
	b.WriteString(`"` + strings.Join(columns, `","`) + "\"\n")
	for _, r := range []map[string]string{
		{ColOrderID: "A", ColDispatched: "Yes", ColFinalStatus: "Delivered", ColZone: "a"},
		{ColOrderID: "B", ColDispatched: "No", ColFinalStatus: "Delivered", ColZone: "b"},
		{ColOrderID: "C", ColDispatched: "Yes", ColFinalStatus: "RTO", ColZone: "c"},
	} {
		b.WriteString(`"` + strings.Join(exportRow(columns, r), `","`) + "\"\n")
	}
	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))

	orders, stats, err := Load(context.Background(), path, ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Read)
	require.Len(t, orders, 2)
	assert.Equal(t, "A", orders[0].ID)
	assert.Equal(t, "C", orders[1].ID)
	assert.Equal(t, "c", orders[1].Zone)
}
