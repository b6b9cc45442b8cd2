package main

import (
	"fmt"

	"github.com/Veraticus/orderflow/internal/analysis"
	"github.com/Veraticus/orderflow/internal/cli"
	"github.com/Veraticus/orderflow/internal/common"
	"github.com/Veraticus/orderflow/internal/config"
	"github.com/Veraticus/orderflow/internal/report"
	"github.com/spf13/cobra"
)

func pivotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pivot <report.csv>",
		Short: "Build TAT pivot tables from a report",
		Long: `Pivot a derived report by any of its columns and split delivered and
in-transit orders by a TAT verdict. Also prints the facility dispatch pivot
and the provider, courier and zone pivot.

With --xlsx the three pivots are written to a workbook instead.`,
		Args: cobra.ExactArgs(1),
		RunE: runPivot,
	}

	cmd.Flags().String("by", "Facility", "Report column to pivot on")
	cmd.Flags().String("tat", "placed", "TAT verdict to split by (placed, consumer, pickup)")
	cmd.Flags().String("xlsx", "", "Write the pivots to this workbook")
	addFilterFlags(cmd)

	return cmd
}

func runPivot(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	by, _ := cmd.Flags().GetString("by")
	tatStr, _ := cmd.Flags().GetString("tat")
	xlsxPath, _ := cmd.Flags().GetString("xlsx")

	kind, err := parseTATKind(tatStr)
	if err != nil {
		return err
	}

	records, _, err := loadReport(cmd, args[0])
	if err != nil {
		return err
	}

	tat, err := analysis.TATPivot(records, by, kind)
	if err != nil {
		return common.NewUserError(fmt.Sprintf("cannot pivot by %q", by), err)
	}

	sheets := []report.Sheet{
		analysis.TATPivotSheet(by, tat),
		analysis.DispatchSheet(analysis.DispatchPivot(records)),
		analysis.ZoneSheet(analysis.ZonePivot(records)),
	}

	if xlsxPath != "" {
		if err := report.WriteWorkbook(config.ExpandPath(xlsxPath), sheets); err != nil {
			return common.NewUserError("cannot write workbook "+xlsxPath, err)
		}
		fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Wrote %d pivots to %s", len(sheets), xlsxPath)))
		return nil
	}

	titles := []string{
		fmt.Sprintf("%s TAT Pivot | %s", kind, by),
		"Dispatch TAT | Facility",
		"Pickup to Delivery TAT | Provider, Courier, Zone",
	}
	for i, s := range sheets {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, cli.FormatTitle(cli.TruckIcon, titles[i]))
		fmt.Fprintln(out, cli.RenderSheet(s))
	}
	return nil
}
