package cli

import (
	"fmt"
	"strings"

	"github.com/Veraticus/orderflow/internal/analysis"
	"github.com/Veraticus/orderflow/internal/report"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// RenderSheet draws a sheet as a bordered terminal table. Numeric columns
// are right aligned.
func RenderSheet(sheet report.Sheet) string {
	rows := make([][]string, len(sheet.Rows))
	numeric := make([]bool, len(sheet.Header))
	for i := range numeric {
		numeric[i] = len(sheet.Rows) > 0
	}
	for i, row := range sheet.Rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = FormatCell(v)
			if j < len(numeric) && !isNumber(v) {
				numeric[j] = false
			}
		}
		rows[i] = cells
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(BorderColor)).
		Headers(sheet.Header...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			if col < len(numeric) && numeric[col] {
				return TableCellStyle.Align(lipgloss.Right)
			}
			return TableCellStyle
		})

	return t.Render()
}

// RenderKPIs draws the headline KPIs as a three column summary.
func RenderKPIs(k analysis.KPIs) string {
	line := func(label string, part, whole int) string {
		return fmt.Sprintf("%-18s %s %s", label,
			BoldStyle.Render(fmt.Sprintf("%6d", part)),
			SubtleStyle.Render(fmt.Sprintf("(%.1f%%)", analysis.Pct(part, whole, 1))))
	}

	overall := strings.Join([]string{
		BoldStyle.Render("Overall"),
		line("Total Orders", k.Orders, k.Orders),
		line("RTO", k.RTO, k.Orders),
		line("Reshipped", k.Reshipped, k.Orders),
	}, "\n")
	delivered := strings.Join([]string{
		BoldStyle.Render("Delivered"),
		line("Delivered", k.Delivered, k.Orders),
		SuccessStyle.Render(line("InTAT", k.DeliveredInTAT, k.Delivered)),
		ErrorStyle.Render(line("OutTAT", k.DeliveredOutTAT, k.Delivered)),
	}, "\n")
	transit := strings.Join([]string{
		BoldStyle.Render("In-Transit"),
		line("In-Transit", k.InTransit, k.Orders),
		SuccessStyle.Render(line("InTAT", k.TransitInTAT, k.InTransit)),
		ErrorStyle.Render(line("OutTAT", k.TransitOutTAT, k.InTransit)),
	}, "\n")

	column := lipgloss.NewStyle().PaddingRight(4)
	return RenderBox(BoxIcon+" Orders", lipgloss.JoinHorizontal(lipgloss.Top,
		column.Render(overall),
		column.Render(delivered),
		transit,
	))
}

// FormatCell renders a sheet cell for terminal output.
func FormatCell(v any) string {
	switch x := v.(type) {
	case float64:
		return fmt.Sprintf("%.2f", x)
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int64, float64:
		return true
	default:
		return false
	}
}
