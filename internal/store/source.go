package store

import (
	"context"
	"time"

	"github.com/blackwell-systems/disciplineos/internal/records"
	"github.com/blackwell-systems/disciplineos/internal/snapshot"
)

var _ snapshot.Source = (*DB)(nil)

// Tasks returns every task.
func (db *DB) Tasks(ctx context.Context) ([]records.Task, error) {
	return db.ListTasks(ctx, "")
}

func (db *DB) FocusSessions(ctx context.Context, since time.Time) ([]records.FocusSession, error) {
	return db.ListFocusSessions(ctx, since)
}

func (db *DB) DopamineLogs(ctx context.Context, since time.Time) ([]records.DopamineLog, error) {
	return db.ListDopamineLogs(ctx, since)
}

func (db *DB) HealthLogs(ctx context.Context, since time.Time) ([]records.HealthLog, error) {
	return db.ListHealthLogs(ctx, since)
}

func (db *DB) Books(ctx context.Context) ([]records.Book, error) {
	return db.ListBooks(ctx)
}

func (db *DB) Transactions(ctx context.Context) ([]records.Transaction, error) {
	return db.ListTransactions(ctx)
}
