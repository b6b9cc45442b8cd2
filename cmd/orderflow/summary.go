package main

import (
	"fmt"
	"slices"

	"github.com/Veraticus/orderflow/internal/analysis"
	"github.com/Veraticus/orderflow/internal/cli"
	"github.com/Veraticus/orderflow/internal/model"
	"github.com/Veraticus/orderflow/internal/report"
	"github.com/spf13/cobra"
)

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary <report.csv>",
		Short: "Show KPIs and SLA breakdowns of a report",
		Long: `Summarise a derived report: order totals, delivered and in-transit SLA
splits, dispatch TAT by facility, delivery TAT by zone, provider and
courier, and the provider and courier load.`,
		Args: cobra.ExactArgs(1),
		RunE: runSummary,
	}
	addFilterFlags(cmd)
	return cmd
}

// summaryBreakdowns are the grouped views printed under the KPIs, each
// over the records of one status class or over every record.
var summaryBreakdowns = []struct {
	title   string
	columns []string
	class   model.StatusClass
}{
	{"Final Order Status", []string{"Final Status"}, ""},
	{"Dispatch TAT by Facility", []string{"Facility", report.ColDispatchStatus}, ""},
	{"Placed to Delivery TAT by Zone", []string{"Zone", report.ColPlacedStatus}, model.StatusDelivered},
	{"Consumer to Delivery TAT by Zone", []string{"Zone", report.ColConsumerStatus}, model.StatusDelivered},
	{"Pickup to Delivery TAT (In-Transit)", []string{report.ColPickupStatus}, model.StatusTransit},
	{"Orders by Shipping Provider", []string{"Shipping provider"}, ""},
	{"Placed to Delivery TAT by Provider", []string{"Shipping provider", report.ColPlacedStatus}, ""},
	{"Courier Split by Provider", []string{"Shipping provider", "Shipping Courier"}, ""},
	{"Placed to Delivery TAT by Courier", []string{"Shipping Courier", report.ColPlacedStatus}, ""},
}

var verdictColumns = []string{
	report.ColDispatchStatus,
	report.ColPlacedStatus,
	report.ColConsumerStatus,
	report.ColPickupStatus,
}

func runSummary(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	records, filter, err := loadReport(cmd, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(out, cli.FormatTitle(cli.ChartIcon, "Order Operations Summary"))
	if !filter.IsZero() {
		fmt.Fprintln(out, cli.SubtitleStyle.Render(fmt.Sprintf("%d records match the filter", len(records))))
	}
	fmt.Fprintln(out, cli.RenderKPIs(analysis.Summarize(records)))

	for _, b := range summaryBreakdowns {
		rows, err := analysis.Breakdown(withClass(records, b.class), b.columns...)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, cli.BoldStyle.Render(b.title))
		fmt.Fprintln(out, cli.RenderSheet(colorVerdicts(analysis.BreakdownSheet(b.title, b.columns, rows))))
	}
	return nil
}

// withClass keeps the records of class; an empty class keeps everything.
func withClass(records []model.Record, class model.StatusClass) []model.Record {
	if class == "" {
		return records
	}
	out := make([]model.Record, 0, len(records))
	for _, r := range records {
		if r.StatusClass == class {
			out = append(out, r)
		}
	}
	return out
}

// colorVerdicts styles the verdict key cells of a breakdown sheet.
func colorVerdicts(s report.Sheet) report.Sheet {
	for i, name := range s.Header {
		if !slices.Contains(verdictColumns, name) {
			continue
		}
		for _, row := range s.Rows {
			if key, ok := row[i].(string); ok {
				row[i] = cli.FormatVerdict(model.Verdict(key))
			}
		}
	}
	return s
}
