package main

import (
	"github.com/Veraticus/orderflow/internal/analysis"
	"github.com/Veraticus/orderflow/internal/common"
	"github.com/spf13/cobra"
)

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "Earliest order-placed date (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "Latest order-placed date (YYYY-MM-DD)")
	cmd.Flags().StringSlice("facility", nil, "Only these facilities")
	cmd.Flags().StringSlice("courier", nil, "Only these shipping couriers")
	cmd.Flags().StringSlice("zone", nil, "Only these zones")
	cmd.Flags().StringArray("status", nil, "Only this final status (repeatable)")
}

func filterFromFlags(cmd *cobra.Command) (analysis.Filter, error) {
	var f analysis.Filter

	fromStr, _ := cmd.Flags().GetString("from")
	toStr, _ := cmd.Flags().GetString("to")
	from, err := parseDay("from", fromStr)
	if err != nil {
		return f, err
	}
	to, err := parseDay("to", toStr)
	if err != nil {
		return f, err
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return f, common.NewUserError("--to is before --from", common.ErrInvalidDate)
	}

	f.From, f.To = from, to
	f.Facilities, _ = cmd.Flags().GetStringSlice("facility")
	f.Couriers, _ = cmd.Flags().GetStringSlice("courier")
	f.Zones, _ = cmd.Flags().GetStringSlice("zone")
	f.Statuses, _ = cmd.Flags().GetStringArray("status")
	return f, nil
}
