package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrAmbiguousID is returned when an ID prefix matches more than one row.
var ErrAmbiguousID = errors.New("id prefix matches more than one record")

// Tables that ResolveID accepts.
const (
	TableTasks         = "tasks"
	TableFocusSessions = "focus_sessions"
	TableBooks         = "books"
	TableFinances      = "finances"
)

// ResolveID expands a unique ID prefix to the full ID, so the CLI can
// accept the short IDs it prints.
func (db *DB) ResolveID(ctx context.Context, table, prefix string) (string, error) {
	switch table {
	case TableTasks, TableFocusSessions, TableBooks, TableFinances:
	default:
		return "", fmt.Errorf("unknown table %q", table)
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", ErrNotFound
	}

	rows, err := db.conn.QueryContext(ctx,
		"SELECT id FROM "+table+" WHERE id LIKE ? ESCAPE '\\' LIMIT 2",
		escapeLike(prefix)+"%",
	)
	if err != nil {
		return "", err
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	switch len(ids) {
	case 0:
		return "", ErrNotFound
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrAmbiguousID, prefix)
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
