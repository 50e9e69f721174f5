package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/model"
)

// ListCategories returns every category ordered by id.
func (s *SQLiteStorage) ListCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, description FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// GetCategory returns one category or common.ErrNotFound.
func (s *SQLiteStorage) GetCategory(ctx context.Context, id int) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT id, name, description FROM categories WHERE id = ?`, id)
	cat, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// CreateCategory inserts a category and sets its id.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, cat *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(cat); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (name, description) VALUES (?, ?)`,
		cat.Name, nullString(cat.Description))
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get category id: %w", err)
	}

	cat.ID = model.IntPtr(int(id))
	slog.Info("created category", "id", id, "name", cat.Name)
	return nil
}

// UpdateCategory replaces the name and description of an existing category.
func (s *SQLiteStorage) UpdateCategory(ctx context.Context, cat *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(cat); err != nil {
		return err
	}
	id, ok := cat.RecordID()
	if !ok {
		return fmt.Errorf("%w: category has no id", ErrInvalidID)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, description = ? WHERE id = ?`,
		cat.Name, nullString(cat.Description), id)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return expectOneRow(result, "category", id)
}

// DeleteCategory removes a category. Categories that still have entries
// cannot be removed and yield common.ErrConflict.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, id int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries WHERE category_id = ?`, id).Scan(&count); err != nil {
			return fmt.Errorf("failed to count entries: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("category %d has %d entries: %w", id, count, common.ErrConflict)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return expectOneRow(result, "category", id)
	})
}

// CategoryExists reports whether a category with id exists.
func (s *SQLiteStorage) CategoryExists(ctx context.Context, id int) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check category: %w", err)
	}
	return exists, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCategory(row scanner) (model.Category, error) {
	var (
		cat         model.Category
		id          int
		description sql.NullString
	)
	if err := row.Scan(&id, &cat.Name, &description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return cat, err
		}
		return cat, fmt.Errorf("failed to scan category: %w", err)
	}
	cat.ID = model.IntPtr(id)
	if description.Valid {
		cat.Description = model.StringPtr(description.String)
	}
	return cat, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func expectOneRow(result sql.Result, what string, id int) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, common.ErrNotFound)
	}
	return nil
}
