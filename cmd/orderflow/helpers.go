package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/orderflow/internal/analysis"
	"github.com/Veraticus/orderflow/internal/common"
	"github.com/Veraticus/orderflow/internal/config"
	"github.com/Veraticus/orderflow/internal/model"
	"github.com/Veraticus/orderflow/internal/report"
	"github.com/spf13/cobra"
)

const dayLayout = "2006-01-02"

// parseDay parses a YYYY-MM-DD flag value; empty yields the zero time.
func parseDay(flag, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dayLayout, value)
	if err != nil {
		return time.Time{}, common.NewUserError(
			fmt.Sprintf("--%s must be a date like 2024-03-01", flag),
			fmt.Errorf("%w: %q", common.ErrInvalidDate, value))
	}
	return t, nil
}

var tatKinds = map[string]model.TATKind{
	"placed":   model.TATPlaced,
	"consumer": model.TATConsumer,
	"pickup":   model.TATPickup,
}

func parseTATKind(value string) (model.TATKind, error) {
	kind, ok := tatKinds[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		return "", common.NewUserError(
			"--tat must be one of placed, consumer, pickup",
			fmt.Errorf("%w: %q", common.ErrInvalidFlag, value))
	}
	return kind, nil
}

// loadReport reads the report artifact and applies the command's filter flags.
func loadReport(cmd *cobra.Command, path string) ([]model.Record, analysis.Filter, error) {
	filter, err := filterFromFlags(cmd)
	if err != nil {
		return nil, filter, err
	}

	records, err := report.ReadFile(config.ExpandPath(path))
	if err != nil {
		return nil, filter, common.NewUserError("cannot read report "+path, err)
	}
	return filter.Apply(records), filter, nil
}
