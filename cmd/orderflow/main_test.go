package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/orderflow/internal/analysis"
	"github.com/Veraticus/orderflow/internal/common"
	"github.com/Veraticus/orderflow/internal/ingest"
	"github.com/Veraticus/orderflow/internal/model"
	"github.com/Veraticus/orderflow/internal/report"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	previous := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(previous)
		viper.Reset()
	})
	viper.Reset()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func writeExport(t *testing.T, dir string, drop ...string) string {
	t.Helper()

	columns := []string{ingest.ColDispatched}
	for _, name := range ingest.ReportingSchema().Names() {
		if !contains(drop, name) {
			columns = append(columns, name)
		}
	}

	rows := []map[string]string{
		{
			ingest.ColOrderID: "W-1", ingest.ColUnicomOrderID: "U1", ingest.ColDispatched: "Yes",
			ingest.ColFacility: "Warehouse", ingest.ColZone: "A", ingest.ColFinalStatus: "Delivered",
			ingest.ColPlacedDate: "2024-01-03", ingest.ColIdealDispatch: "2024-01-05",
			ingest.ColAssignedDate: "2024-01-06", ingest.ColDeliveryDate: "2024-01-08",
			ingest.ColShippingProvider: "Shiprocket", ingest.ColShippingCourier: "Delhivery",
		},
		{
			ingest.ColOrderID: "D-2", ingest.ColUnicomOrderID: "U2", ingest.ColDispatched: "yes",
			ingest.ColFacility: "Dark Store", ingest.ColZone: "sdd", ingest.ColFinalStatus: "In-Transit",
			ingest.ColPlacedDate: "2024-02-27", ingest.ColIdealDispatch: "2024-02-27",
			ingest.ColShippingProvider: "Shadowfax", ingest.ColShippingCourier: "BlueDart",
		},
		{
			ingest.ColOrderID: "X-3", ingest.ColUnicomOrderID: "U3", ingest.ColDispatched: "No",
			ingest.ColFacility: "Warehouse", ingest.ColZone: "b", ingest.ColFinalStatus: "Delivered",
		},
		{
			ingest.ColOrderID: "H-4", ingest.ColUnicomOrderID: "U4", ingest.ColDispatched: "Yes",
			ingest.ColFacility: "Hub", ingest.ColZone: "z", ingest.ColFinalStatus: "RTO",
			ingest.ColPlacedDate: "2024-02-10", ingest.ColPickupDate: "2024-02-12",
		},
	}

	path := filepath.Join(dir, "export.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	w := csv.NewWriter(f)
	require.NoError(t, w.Write(columns))
	for _, values := range rows {
		row := make([]string, len(columns))
		for i, c := range columns {
			row[i] = values[c]
		}
		require.NoError(t, w.Write(row))
	}
	w.Flush()
	require.NoError(t, w.Error())
	require.NoError(t, f.Close())
	return path
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func deriveReport(t *testing.T, extra ...string) (string, string) {
	t.Helper()

	dir := t.TempDir()
	input := writeExport(t, dir)
	output := filepath.Join(dir, "Output_Report.csv")

	args := append([]string{"derive", input, "--today", "2024-03-01", "--no-progress", "-o", output}, extra...)
	out, err := runCommand(t, args...)
	require.NoError(t, err, out)
	return output, out
}

func TestDerive(t *testing.T) {
	output, out := deriveReport(t)

	assert.Contains(t, out, "3 of 4 rows kept (3 dispatched)")
	assert.Contains(t, out, "1 orders have an unmapped zone")
	assert.Contains(t, out, "1 orders have no ideal dispatch date")
	assert.Contains(t, out, "Open orders measured against 01-03-2024")
	assert.Contains(t, out, "Wrote 3 records")

	records, err := report.ReadFile(output)
	require.NoError(t, err)
	require.Len(t, records, 3)

	w := records[0]
	assert.Equal(t, "W-1", w.ID)
	assert.Equal(t, "a", w.Zone)
	assert.Equal(t, model.VerdictInTAT, w.DispatchStatus)
	assert.Equal(t, model.VerdictInTAT, w.PlacedStatus)
	assert.Equal(t, model.VerdictInTAT, w.PickupStatus)

	d := records[1]
	assert.Equal(t, "D-2", d.ID)
	assert.Equal(t, model.VerdictInTAT, d.DispatchStatus)
	assert.Equal(t, model.VerdictOutTAT, d.PlacedStatus)
	assert.Equal(t, model.VerdictOutTAT, d.PickupStatus)
	assert.Equal(t, "01-03-2024", model.FormatDate(d.EffectiveDelivery))

	h := records[2]
	assert.Equal(t, "H-4", h.ID)
	assert.Nil(t, h.DispatchDays)
	assert.Equal(t, model.VerdictInTAT, h.DispatchStatus)
	assert.Equal(t, model.VerdictUnknown, h.PickupStatus)
	assert.Equal(t, "12-02-2024", model.FormatDate(h.EffectivePickup))
}

func TestDerive_WorkersProduceIdenticalReport(t *testing.T) {
	sequential, _ := deriveReport(t)
	parallel, _ := deriveReport(t, "--workers", "4")

	a, err := os.ReadFile(sequential)
	require.NoError(t, err)
	b, err := os.ReadFile(parallel)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestDerive_ProgressOnStderr(t *testing.T) {
	dir := t.TempDir()
	input := writeExport(t, dir)

	out, err := runCommand(t, "derive", input, "--today", "2024-03-01", "-o", filepath.Join(dir, "out.csv"))
	require.NoError(t, err)
	assert.Contains(t, out, "Deriving TAT")
}

func TestDerive_DryRun(t *testing.T) {
	dir := t.TempDir()
	input := writeExport(t, dir)
	output := filepath.Join(dir, "out.csv")

	out, err := runCommand(t, "derive", input, "--today", "2024-03-01", "--no-progress", "--dry-run", "-o", output)
	require.NoError(t, err)
	assert.Contains(t, out, "Overall")
	assert.NoFileExists(t, output)
}

func TestDerive_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := runCommand(t, "derive", writeExport(t, dir, ingest.ColZone), "--today", "2024-03-01", "--no-progress",
		"-o", filepath.Join(dir, "out.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ingest.ErrMissingColumn)
	assert.Contains(t, err.Error(), "Zone")
	assert.NoFileExists(t, filepath.Join(dir, "out.csv"))

	_, err = runCommand(t, "derive", writeExport(t, dir), "--today", "03/01/2024")
	assert.ErrorIs(t, err, common.ErrInvalidDate)

	_, err = runCommand(t, "derive", writeExport(t, dir), "--workers", "0")
	assert.ErrorIs(t, err, common.ErrInvalidFlag)

	_, err = runCommand(t, "derive", filepath.Join(dir, "missing.csv"), "--no-progress")
	require.Error(t, err)
}

func TestDerive_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("rules:\n  dispatch_threshold_days: 0\n"), 0o600))
	output := filepath.Join(dir, "out.csv")

	_, err := runCommand(t, "derive", writeExport(t, dir), "--config", cfg, "--today", "2024-03-01", "--no-progress", "-o", output)
	require.NoError(t, err)

	records, err := report.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, model.VerdictOutTAT, records[0].DispatchStatus, "one day late is out of TAT with a zero threshold")
	assert.Equal(t, model.VerdictInTAT, records[1].DispatchStatus)
}

func TestSummary(t *testing.T) {
	output, _ := deriveReport(t)

	out, err := runCommand(t, "summary", output)
	require.NoError(t, err)
	for _, want := range []string{
		"Order Operations Summary", "Dispatch TAT by Facility", "Warehouse", "Dark Store", "Final Order Status",
		"Orders by Shipping Provider", "Courier Split by Provider", "BlueDart", "OutTAT",
	} {
		assert.Contains(t, out, want)
	}

	out, err = runCommand(t, "summary", output, "--zone", "SDD")
	require.NoError(t, err)
	assert.Contains(t, out, "1 records match the filter")

	_, err = runCommand(t, "summary", output, "--from", "2024-02-01", "--to", "2024-01-01")
	assert.ErrorIs(t, err, common.ErrInvalidDate)
}

func TestWithClass(t *testing.T) {
	records := []model.Record{
		{Order: model.Order{ID: "1"}, StatusClass: model.StatusDelivered},
		{Order: model.Order{ID: "2"}, StatusClass: model.StatusTransit},
		{Order: model.Order{ID: "3"}, StatusClass: model.StatusDelivered},
	}

	assert.Len(t, withClass(records, ""), 3)
	transit := withClass(records, model.StatusTransit)
	require.Len(t, transit, 1)
	assert.Equal(t, "2", transit[0].ID)
	assert.Len(t, withClass(records, model.StatusRTO), 0)
}

func TestColorVerdicts(t *testing.T) {
	sheet := colorVerdicts(report.Sheet{
		Header: []string{"Zone", report.ColPlacedStatus, "Count", "Share %"},
		Rows: [][]any{
			{"a", "InTAT", 2, 66.7},
			{"a", analysis.BlankKey, 1, 33.3},
		},
	})

	assert.Equal(t, "a", sheet.Rows[0][0])
	assert.Contains(t, sheet.Rows[0][1], "InTAT")
	assert.Contains(t, sheet.Rows[1][1], "-")
	assert.Equal(t, 2, sheet.Rows[0][2])
}

func TestPivot(t *testing.T) {
	output, _ := deriveReport(t)

	out, err := runCommand(t, "pivot", output, "--by", "Zone", "--tat", "pickup")
	require.NoError(t, err)
	for _, want := range []string{"pickup TAT Pivot | Zone", "Dispatch TAT | Facility", "Shiprocket", "sdd"} {
		assert.Contains(t, out, want)
	}

	_, err = runCommand(t, "pivot", output, "--by", "Nope")
	assert.ErrorIs(t, err, analysis.ErrUnknownColumn)

	_, err = runCommand(t, "pivot", output, "--tat", "dispatch")
	assert.ErrorIs(t, err, common.ErrInvalidFlag)
}

func TestPivot_Workbook(t *testing.T) {
	output, _ := deriveReport(t)
	xlsx := filepath.Join(t.TempDir(), "pivots.xlsx")

	out, err := runCommand(t, "pivot", output, "--xlsx", xlsx)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 3 pivots")

	f, err := excelize.OpenFile(xlsx)
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()
	assert.Equal(t, []string{analysis.SheetTATPivot, analysis.SheetDispatch, analysis.SheetZone}, f.GetSheetList())

	rows, err := f.GetRows(analysis.SheetDispatch)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Facility", rows[0][0])
}

func TestVersion(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "orderflow dev")
}
