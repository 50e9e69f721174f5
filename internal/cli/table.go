package cli

import (
	"strconv"

	"github.com/Veraticus/fintrack/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtleStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		})
}

// RenderCategories renders categories as a table.
func RenderCategories(cats []*model.Category) string {
	t := newTable("ID", "Name", "Description")
	for _, c := range cats {
		t.Row(formatID(c.ID), c.Name, deref(c.Description))
	}
	return t.Render()
}

// RenderEntries renders entries as a table. names maps category ids to
// display names; unknown ids are shown as numbers.
func RenderEntries(entries []*model.Entry, names map[int]string) string {
	t := newTable("ID", "Date", "Name", "Type", "Amount", "Paid", "Category")
	for _, e := range entries {
		category, ok := names[e.CategoryID]
		if !ok {
			category = strconv.Itoa(e.CategoryID)
		}
		t.Row(
			formatID(e.ID),
			e.Date.String(),
			e.Name,
			model.EntryTypes[e.Type],
			FormatAmount(*e),
			formatPaid(e.Paid),
			category,
		)
	}
	return t.Render()
}

// FormatAmount renders an entry amount with two decimals, colored by type.
func FormatAmount(e model.Entry) string {
	s := e.Amount.StringFixed(2)
	if e.Type == model.EntryTypeExpense {
		return lipgloss.NewStyle().Foreground(ExpenseColor).Render("-" + s)
	}
	return lipgloss.NewStyle().Foreground(RevenueColor).Render(s)
}

func formatID(id *int) string {
	if id == nil {
		return "-"
	}
	return strconv.Itoa(*id)
}

func formatPaid(paid bool) string {
	if paid {
		return SuccessIcon
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
