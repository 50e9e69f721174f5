package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/shopspring/decimal"
)

const entryColumns = `id, name, description, type, amount, date, paid, category_id`

// ListEntries returns every entry ordered by id.
func (s *SQLiteStorage) ListEntries(ctx context.Context) ([]model.Entry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+entryColumns+` FROM entries ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	entries := []model.Entry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}

	slog.Debug("retrieved entries", "count", len(entries))
	return entries, nil
}

// GetEntry returns one entry or common.ErrNotFound.
func (s *SQLiteStorage) GetEntry(ctx context.Context, id int) (*model.Entry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("entry %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// CreateEntry inserts an entry and sets its id. The category must exist.
func (s *SQLiteStorage) CreateEntry(ctx context.Context, entry *model.Entry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateEntry(entry); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireCategory(ctx, tx, entry.CategoryID); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			`INSERT INTO entries (name, description, type, amount, date, paid, category_id)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			entry.Name, nullString(entry.Description), string(entry.Type),
			entry.Amount.String(), entry.Date.String(), entry.Paid, entry.CategoryID)
		if err != nil {
			return fmt.Errorf("failed to insert entry: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get entry id: %w", err)
		}

		entry.ID = model.IntPtr(int(id))
		slog.Info("created entry", "id", id, "name", entry.Name, "category_id", entry.CategoryID)
		return nil
	})
}

// UpdateEntry replaces every field of an existing entry.
func (s *SQLiteStorage) UpdateEntry(ctx context.Context, entry *model.Entry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateEntry(entry); err != nil {
		return err
	}
	id, ok := entry.RecordID()
	if !ok {
		return fmt.Errorf("%w: entry has no id", ErrInvalidID)
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireCategory(ctx, tx, entry.CategoryID); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			`UPDATE entries
			SET name = ?, description = ?, type = ?, amount = ?, date = ?, paid = ?, category_id = ?
			WHERE id = ?`,
			entry.Name, nullString(entry.Description), string(entry.Type),
			entry.Amount.String(), entry.Date.String(), entry.Paid, entry.CategoryID, id)
		if err != nil {
			return fmt.Errorf("failed to update entry: %w", err)
		}
		return expectOneRow(result, "entry", id)
	})
}

// DeleteEntry removes an entry.
func (s *SQLiteStorage) DeleteEntry(ctx context.Context, id int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return expectOneRow(result, "entry", id)
}

func requireCategory(ctx context.Context, tx *sql.Tx, id int) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE id = ?)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check category: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %d", ErrUnknownCategory, id)
	}
	return nil
}

func scanEntry(row scanner) (model.Entry, error) {
	var (
		entry       model.Entry
		id          int
		description sql.NullString
		entryType   string
		amount      string
		date        string
	)
	err := row.Scan(&id, &entry.Name, &description, &entryType, &amount, &date, &entry.Paid, &entry.CategoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entry, err
		}
		return entry, fmt.Errorf("failed to scan entry: %w", err)
	}

	entry.ID = model.IntPtr(id)
	entry.Type = model.EntryType(entryType)
	if description.Valid {
		entry.Description = model.StringPtr(description.String)
	}
	if entry.Amount, err = decimal.NewFromString(amount); err != nil {
		return entry, fmt.Errorf("entry %d has invalid amount %q: %w", id, amount, err)
	}
	if entry.Date, err = model.ParseDate(date); err != nil {
		return entry, fmt.Errorf("entry %d: %w", id, err)
	}
	return entry, nil
}
