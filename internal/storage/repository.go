package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"expensed/internal/core"

	_ "modernc.org/sqlite"
)

// StorageError reports a failed interaction with the database. The wrapped
// error carries the driver detail; Op names the failed step.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return "storage " + e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// SQLiteRepository is the storage gateway over a single expenses table.
// Every operation acquires its own transaction and releases it on all exit
// paths, so a failed call never leaves a partial row visible.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Insert persists a new expense and returns it with the assigned id.
func (r *SQLiteRepository) Insert(ctx context.Context, e core.Expense) (core.Expense, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Expense{}, storageErr("begin", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO expenses (category, amount, date) VALUES (?, ?, ?)`,
		e.Category, e.Amount, e.Date.String())
	if err != nil {
		return core.Expense{}, storageErr("insert expense", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Expense{}, storageErr("read insert id", err)
	}
	if err := tx.Commit(); err != nil {
		return core.Expense{}, storageErr("commit insert", err)
	}

	e.ID = id
	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"category", e.Category,
		"amount", e.Amount,
		"date", e.Date.String())
	return e, nil
}

// GetAll returns every stored expense in id order.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, category, amount, date FROM expenses ORDER BY id`)
	if err != nil {
		return nil, storageErr("list expenses", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, storageErr("scan expense", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate expenses", err)
	}
	return expenses, nil
}

// GetByID returns the expense with the given id, or core.ErrNotFound.
func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, category, amount, date FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, storageErr("get expense", err)
	}
	return e, nil
}

// Update merges the patch into the stored record, re-validates the merged
// record inside the transaction, and commits. Either all fields apply or
// none do.
func (r *SQLiteRepository) Update(ctx context.Context, id int64, patch core.ExpensePatch) (core.Expense, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Expense{}, storageErr("begin", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT id, category, amount, date FROM expenses WHERE id = ?`, id)
	existing, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, storageErr("get expense", err)
	}

	merged := patch.Apply(existing)
	if err := merged.Validate(); err != nil {
		return core.Expense{}, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE expenses SET category = ?, amount = ?, date = ? WHERE id = ?`,
		merged.Category, merged.Amount, merged.Date.String(), merged.ID); err != nil {
		return core.Expense{}, storageErr("update expense", err)
	}
	if err := tx.Commit(); err != nil {
		return core.Expense{}, storageErr("commit update", err)
	}

	slog.InfoContext(ctx, "Expense updated", "id", merged.ID)
	return merged, nil
}

// Delete removes the expense with the given id and returns the deleted
// record, or core.ErrNotFound.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) (core.Expense, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Expense{}, storageErr("begin", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT id, category, amount, date FROM expenses WHERE id = ?`, id)
	existing, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, storageErr("get expense", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id); err != nil {
		return core.Expense{}, storageErr("delete expense", err)
	}
	if err := tx.Commit(); err != nil {
		return core.Expense{}, storageErr("commit delete", err)
	}

	slog.InfoContext(ctx, "Expense deleted", "id", id)
	return existing, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e       core.Expense
		dateStr string
	)
	if err := row.Scan(&e.ID, &e.Category, &e.Amount, &dateStr); err != nil {
		return core.Expense{}, err
	}
	date, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Expense{}, fmt.Errorf("stored date %q: %w", dateStr, err)
	}
	e.Date = date
	return e, nil
}
