package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/blackwell-systems/disciplineos/internal/records"
)

// TransactionInput describes a new income or expense entry.
type TransactionInput struct {
	Amount          float64 `validate:"gt=0"`
	TransactionType string  `validate:"required,oneof=income expense"`
	Category        string  `validate:"max=100"`
	Description     string  `validate:"max=500"`
	TransactionDate string  `validate:"omitempty,datetime=2006-01-02"`
}

// AddTransaction validates and inserts a transaction. An empty date means
// today in local time; an empty category is stored as "Other".
func (db *DB) AddTransaction(ctx context.Context, in TransactionInput) (*records.Transaction, error) {
	if in.TransactionDate == "" {
		in.TransactionDate = time.Now().Format(records.DateLayout)
	}
	if in.Category == "" {
		in.Category = "Other"
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	t := &records.Transaction{
		ID:              uuid.NewString(),
		Amount:          in.Amount,
		TransactionType: in.TransactionType,
		Category:        in.Category,
		Description:     in.Description,
		TransactionDate: in.TransactionDate,
		CreatedAt:       time.Now().UTC(),
	}
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO finances (id, amount, transaction_type, category, description, transaction_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Amount, t.TransactionType, nullString(t.Category), nullString(t.Description),
		t.TransactionDate, records.FormatTimestamp(t.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting transaction: %w", err)
	}
	return t, nil
}

// DeleteTransaction removes a transaction.
func (db *DB) DeleteTransaction(ctx context.Context, id string) error {
	return affected(db.conn.ExecContext(ctx, "DELETE FROM finances WHERE id = ?", id))
}

// ListTransactions returns every transaction, newest first.
func (db *DB) ListTransactions(ctx context.Context) ([]records.Transaction, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, amount, transaction_type, COALESCE(category, ''), COALESCE(description, ''),
			transaction_date, created_at
		 FROM finances ORDER BY transaction_date DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txs []records.Transaction
	for rows.Next() {
		var t records.Transaction
		var created string
		if err := rows.Scan(&t.ID, &t.Amount, &t.TransactionType, &t.Category, &t.Description,
			&t.TransactionDate, &created); err != nil {
			return nil, err
		}
		t.CreatedAt = records.ParseTimestamp(created)
		txs = append(txs, t)
	}
	return txs, rows.Err()
}
