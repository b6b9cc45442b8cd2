package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/orderflow/internal/analysis"
	"github.com/Veraticus/orderflow/internal/cli"
	"github.com/Veraticus/orderflow/internal/common"
	"github.com/Veraticus/orderflow/internal/config"
	"github.com/Veraticus/orderflow/internal/engine"
	"github.com/Veraticus/orderflow/internal/ingest"
	"github.com/Veraticus/orderflow/internal/model"
	"github.com/Veraticus/orderflow/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func deriveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "derive <export.xlsx|export.csv>",
		Short: "Derive TAT fields and write the report",
		Long: `Read the consolidated order export, keep dispatched orders with a final
status, derive effective pickup and delivery dates and the four TAT
verdicts, and write the report CSV.

Open orders are measured against --today (default: the current date).`,
		Args: cobra.ExactArgs(1),
		RunE: runDerive,
	}

	cmd.Flags().StringP("output", "o", "Output_Report.csv", "Report file to write")
	cmd.Flags().String("today", "", "Reference date for open orders (YYYY-MM-DD)")
	cmd.Flags().String("sheet", "", "Worksheet to read (default: first sheet)")
	cmd.Flags().Int("workers", 1, "Number of goroutines deriving records")
	cmd.Flags().Bool("no-progress", false, "Disable the progress bar")
	cmd.Flags().Bool("dry-run", false, "Derive and summarise without writing the report")

	_ = viper.BindPFlag(config.KeyInputSheet, cmd.Flags().Lookup("sheet"))
	_ = viper.BindPFlag(config.KeyDeriveWorkers, cmd.Flags().Lookup("workers"))

	return cmd
}

func runDerive(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	output, _ := cmd.Flags().GetString("output")
	todayStr, _ := cmd.Flags().GetString("today")
	noProgress, _ := cmd.Flags().GetBool("no-progress")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	workers := viper.GetInt(config.KeyDeriveWorkers)
	if workers < 1 {
		return common.NewUserError("--workers must be at least 1",
			fmt.Errorf("%w: %d", common.ErrInvalidFlag, workers))
	}

	today, err := parseDay("today", todayStr)
	if err != nil {
		return err
	}
	if today.IsZero() {
		today = time.Now()
	}

	rules, err := config.LoadRules(viper.GetViper())
	if err != nil {
		return common.NewUserError("invalid rules configuration", err)
	}

	input := config.ExpandPath(args[0])
	orders, filterStats, err := ingest.Load(ctx, input, ingest.ReadOptions{
		Sheet: viper.GetString(config.KeyInputSheet),
	})
	if err != nil {
		if errors.Is(err, ingest.ErrMissingColumn) {
			return common.NewUserError("export does not match the reporting schema", err)
		}
		return common.NewUserError("cannot read export "+args[0], err)
	}

	opts := []engine.Option{engine.WithWorkers(workers)}
	var progress *cli.Progress
	if !noProgress && len(orders) > 0 {
		progress = cli.NewProgress(cmd.ErrOrStderr(), len(orders), "Deriving TAT...")
		opts = append(opts, engine.WithProgress(progress.Tick))
	}

	eng, err := engine.New(rules, today, opts...)
	if err != nil {
		return common.NewUserError("invalid rules configuration", err)
	}

	records, stats, err := eng.DeriveAll(ctx, orders)
	if progress != nil {
		progress.Finish()
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("%d of %d rows kept (%d dispatched)",
		filterStats.Kept, filterStats.Read, filterStats.Dispatched)))
	fmt.Fprintln(out, cli.FormatInfo("Open orders measured against "+model.FormatDate(eng.Today())))
	printDeriveWarnings(cmd, stats)

	if dryRun {
		fmt.Fprintln(out, cli.RenderKPIs(analysis.Summarize(records)))
		common.LogInfo("dry run, report not written", common.Fields{"records": len(records)})
		return nil
	}

	path := config.ExpandPath(output)
	if err := report.WriteFile(path, records); err != nil {
		return common.NewUserError("cannot write report "+output, err)
	}
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Wrote %d records to %s", len(records), output)))
	return nil
}

func printDeriveWarnings(cmd *cobra.Command, stats engine.DeriveStats) {
	out := cmd.OutOrStdout()
	if stats.UnmappedZones > 0 {
		fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%d orders have an unmapped zone; their zone-based verdicts are blank", stats.UnmappedZones)))
	}
	if stats.MissingIdealDispatch > 0 {
		fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%d orders have no ideal dispatch date; dispatch and placed TAT days are blank", stats.MissingIdealDispatch)))
	}
}
