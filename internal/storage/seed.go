package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Veraticus/fintrack/internal/model"
	"github.com/shopspring/decimal"
)

type seedEntry struct {
	name     string
	category string
	typ      model.EntryType
	amount   string
	date     string
	paid     bool
}

var seedCategories = []model.Category{
	{Name: "Housing", Description: model.StringPtr("Rent, utilities and repairs")},
	{Name: "Health", Description: model.StringPtr("Insurance and pharmacy")},
	{Name: "Leisure", Description: model.StringPtr("Movies, trips and dining out")},
	{Name: "Salary", Description: model.StringPtr("Monthly pay")},
	{Name: "Freelance"},
}

var seedEntries = []seedEntry{
	{name: "Rent", category: "Housing", typ: model.EntryTypeExpense, amount: "1200.00", date: "2024-03-01", paid: true},
	{name: "Electricity bill", category: "Housing", typ: model.EntryTypeExpense, amount: "87.35", date: "2024-03-10", paid: false},
	{name: "Gym", category: "Health", typ: model.EntryTypeExpense, amount: "45.00", date: "2024-03-05", paid: true},
	{name: "Cinema", category: "Leisure", typ: model.EntryTypeExpense, amount: "24.50", date: "2024-03-09", paid: true},
	{name: "Paycheck", category: "Salary", typ: model.EntryTypeRevenue, amount: "4500.00", date: "2024-03-05", paid: true},
	{name: "Website project", category: "Freelance", typ: model.EntryTypeRevenue, amount: "800.00", date: "2024-03-20", paid: false},
}

// Seed loads sample data into an empty database. It does nothing when any
// category already exists.
func (s *SQLiteStorage) Seed(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
			return fmt.Errorf("failed to count categories: %w", err)
		}
		if count > 0 {
			slog.Debug("database already has data, skipping seed", "categories", count)
			return nil
		}

		ids := make(map[string]int64, len(seedCategories))
		for _, cat := range seedCategories {
			result, err := tx.ExecContext(ctx,
				`INSERT INTO categories (name, description) VALUES (?, ?)`,
				cat.Name, nullString(cat.Description))
			if err != nil {
				return fmt.Errorf("failed to seed category %s: %w", cat.Name, err)
			}
			if ids[cat.Name], err = result.LastInsertId(); err != nil {
				return fmt.Errorf("failed to get category id: %w", err)
			}
		}

		for _, e := range seedEntries {
			amount, err := decimal.NewFromString(e.amount)
			if err != nil {
				return fmt.Errorf("invalid seed amount %q: %w", e.amount, err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO entries (name, type, amount, date, paid, category_id) VALUES (?, ?, ?, ?, ?, ?)`,
				e.name, string(e.typ), amount.String(), e.date, e.paid, ids[e.category]); err != nil {
				return fmt.Errorf("failed to seed entry %s: %w", e.name, err)
			}
		}

		slog.Info("seeded database", "categories", len(seedCategories), "entries", len(seedEntries))
		return nil
	})
}
