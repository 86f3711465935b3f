package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/blackwell-systems/disciplineos/internal/metrics"
	"github.com/blackwell-systems/disciplineos/internal/records"
)

// BookInput holds the editable fields of a book.
type BookInput struct {
	Title          string `validate:"required,max=300"`
	TotalPages     int    `validate:"gt=0,max=100000"`
	CurrentPage    int    `validate:"gte=0"`
	DailyGoalPages int    `validate:"gte=0"`
}

const bookColumns = "id, title, total_pages, current_page, daily_goal_pages, completed, created_at, updated_at"

// AddBook validates and inserts a book.
func (db *DB) AddBook(ctx context.Context, in BookInput) (*records.Book, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	b := &records.Book{
		ID:             uuid.NewString(),
		Title:          in.Title,
		TotalPages:     in.TotalPages,
		CurrentPage:    min(in.CurrentPage, in.TotalPages),
		DailyGoalPages: in.DailyGoalPages,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	b.Completed = b.CurrentPage >= b.TotalPages

	_, err := db.conn.ExecContext(ctx,
		"INSERT INTO books ("+bookColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		b.ID, b.Title, b.TotalPages, b.CurrentPage, b.DailyGoalPages, b.Completed,
		records.FormatTimestamp(b.CreatedAt), records.FormatTimestamp(b.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting book: %w", err)
	}
	return b, nil
}

// UpdateBook replaces a book's editable fields. Completion follows the
// page position.
func (db *DB) UpdateBook(ctx context.Context, id string, in BookInput) error {
	if err := validateStruct(in); err != nil {
		return err
	}
	current := min(in.CurrentPage, in.TotalPages)
	return affected(db.conn.ExecContext(ctx,
		`UPDATE books SET title = ?, total_pages = ?, current_page = ?, daily_goal_pages = ?,
		 completed = ?, updated_at = ? WHERE id = ?`,
		in.Title, in.TotalPages, current, in.DailyGoalPages, current >= in.TotalPages,
		records.FormatTimestamp(time.Now()), id,
	))
}

// LogPages advances a book by pagesRead, stopping at the last page, and
// marks it completed when the end is reached.
func (db *DB) LogPages(ctx context.Context, id string, pagesRead int) (*records.Book, error) {
	if pagesRead <= 0 {
		return nil, &ValidationError{Problems: []string{"pages must be greater than 0"}}
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	b, err := scanBook(tx.QueryRowContext(ctx, "SELECT "+bookColumns+" FROM books WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	b.CurrentPage, b.Completed = metrics.AdvancePages(*b, pagesRead)
	b.UpdatedAt = time.Now().UTC()
	if _, err := tx.ExecContext(ctx,
		"UPDATE books SET current_page = ?, completed = ?, updated_at = ? WHERE id = ?",
		b.CurrentPage, b.Completed, records.FormatTimestamp(b.UpdatedAt), id,
	); err != nil {
		return nil, fmt.Errorf("logging pages: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteBook removes a book.
func (db *DB) DeleteBook(ctx context.Context, id string) error {
	return affected(db.conn.ExecContext(ctx, "DELETE FROM books WHERE id = ?", id))
}

// ListBooks returns every book, newest first.
func (db *DB) ListBooks(ctx context.Context) ([]records.Book, error) {
	rows, err := db.conn.QueryContext(ctx, "SELECT "+bookColumns+" FROM books ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var books []records.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, *b)
	}
	return books, rows.Err()
}

func scanBook(s scanner) (*records.Book, error) {
	var b records.Book
	var created, updated string
	if err := s.Scan(&b.ID, &b.Title, &b.TotalPages, &b.CurrentPage, &b.DailyGoalPages,
		&b.Completed, &created, &updated); err != nil {
		return nil, err
	}
	b.CreatedAt = records.ParseTimestamp(created)
	b.UpdatedAt = records.ParseTimestamp(updated)
	return &b, nil
}
