package cli

import (
	"strings"
	"testing"

	"github.com/Veraticus/fintrack/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRenderCategories(t *testing.T) {
	out := RenderCategories([]*model.Category{
		{ID: model.IntPtr(2), Name: "Housing", Description: model.StringPtr("Rent")},
		{ID: model.IntPtr(1), Name: "Food"},
	})

	assert.Contains(t, out, "Housing")
	assert.Contains(t, out, "Rent")
	assert.Contains(t, out, "Food")
	assert.Less(t, strings.Index(out, "Housing"), strings.Index(out, "Food"))
}

func TestRenderEntries(t *testing.T) {
	entries := []*model.Entry{
		{
			ID:         model.IntPtr(4),
			Name:       "Rent",
			Type:       model.EntryTypeExpense,
			Amount:     decimal.RequireFromString("1200.5"),
			Date:       model.NewDate(2024, 3, 1),
			Paid:       true,
			CategoryID: 1,
		},
		{
			ID:         model.IntPtr(3),
			Name:       "Paycheck",
			Type:       model.EntryTypeRevenue,
			Amount:     decimal.NewFromInt(4500),
			Date:       model.NewDate(2024, 3, 5),
			CategoryID: 9,
		},
	}

	out := RenderEntries(entries, map[int]string{1: "Housing"})
	assert.Contains(t, out, "2024-03-01")
	assert.Contains(t, out, "1200.50")
	assert.Contains(t, out, "4500.00")
	assert.Contains(t, out, "Housing")
	assert.Contains(t, out, "Expense")
}

func TestFormatAmount(t *testing.T) {
	expense := model.Entry{Type: model.EntryTypeExpense, Amount: decimal.RequireFromString("9.9")}
	revenue := model.Entry{Type: model.EntryTypeRevenue, Amount: decimal.RequireFromString("9.9")}

	assert.Contains(t, FormatAmount(expense), "-9.90")
	assert.NotContains(t, FormatAmount(revenue), "-")
	assert.Contains(t, FormatAmount(revenue), "9.90")
}
