package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blackwell-systems/disciplineos/internal/records"
)

// Task priorities and categories accepted by the store.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	CategoryToday    = "today"
	CategoryUpcoming = "upcoming"
	CategoryLongTerm = "long-term"
)

// TaskInput holds the editable fields of a task.
type TaskInput struct {
	Title            string `validate:"required,max=200"`
	Description      string `validate:"max=2000"`
	Priority         string `validate:"omitempty,oneof=low medium high"`
	Category         string `validate:"omitempty,oneof=today upcoming long-term"`
	DueDate          string `validate:"omitempty,datetime=2006-01-02"`
	EstimatedMinutes int    `validate:"gte=0"`
}

func (in *TaskInput) applyDefaults() {
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	if in.Category == "" {
		in.Category = CategoryToday
	}
}

const taskColumns = `id, title, description, priority, category, due_date,
	estimated_minutes, completed, sort_order, created_at, updated_at`

// AddTask validates and inserts a new task.
func (db *DB) AddTask(ctx context.Context, in TaskInput) (*records.Task, error) {
	in.applyDefaults()
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	t := &records.Task{
		ID:               uuid.NewString(),
		Title:            in.Title,
		Description:      in.Description,
		Priority:         in.Priority,
		Category:         in.Category,
		DueDate:          in.DueDate,
		EstimatedMinutes: in.EstimatedMinutes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, nullString(t.Description), t.Priority, t.Category, nullString(t.DueDate),
		t.EstimatedMinutes, t.Completed, t.SortOrder,
		records.FormatTimestamp(t.CreatedAt), records.FormatTimestamp(t.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting task: %w", err)
	}
	db.log.Debug("task added", zap.String("id", t.ID), zap.String("category", t.Category))
	return t, nil
}

// UpdateTask replaces a task's editable fields and bumps updated_at.
func (db *DB) UpdateTask(ctx context.Context, id string, in TaskInput) error {
	in.applyDefaults()
	if err := validateStruct(in); err != nil {
		return err
	}
	return affected(db.conn.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, priority = ?, category = ?,
		 due_date = ?, estimated_minutes = ?, updated_at = ? WHERE id = ?`,
		in.Title, nullString(in.Description), in.Priority, in.Category,
		nullString(in.DueDate), in.EstimatedMinutes, records.FormatTimestamp(time.Now()), id,
	))
}

// SetTaskCompleted marks a task done or not done. The update timestamp is
// what completion analytics attribute the completion to.
func (db *DB) SetTaskCompleted(ctx context.Context, id string, completed bool) error {
	return affected(db.conn.ExecContext(ctx,
		"UPDATE tasks SET completed = ?, updated_at = ? WHERE id = ?",
		completed, records.FormatTimestamp(time.Now()), id,
	))
}

// DeleteTask removes a task.
func (db *DB) DeleteTask(ctx context.Context, id string) error {
	return affected(db.conn.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id))
}

// GetTask returns a task by ID.
func (db *DB) GetTask(ctx context.Context, id string) (*records.Task, error) {
	row := db.conn.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return t, err
}

// ListTasks returns tasks ordered by sort order then creation time. An
// empty category or "all" returns every task.
func (db *DB) ListTasks(ctx context.Context, category string) ([]records.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks"
	var args []any
	if category != "" && category != "all" {
		query += " WHERE category = ?"
		args = append(args, category)
	}
	query += " ORDER BY sort_order ASC, created_at DESC"

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []records.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*records.Task, error) {
	var t records.Task
	var desc, due sql.NullString
	var est sql.NullInt64
	var created, updated string
	if err := s.Scan(&t.ID, &t.Title, &desc, &t.Priority, &t.Category, &due,
		&est, &t.Completed, &t.SortOrder, &created, &updated); err != nil {
		return nil, err
	}
	t.Description = desc.String
	t.DueDate = due.String
	t.EstimatedMinutes = int(est.Int64)
	t.CreatedAt = records.ParseTimestamp(created)
	t.UpdatedAt = records.ParseTimestamp(updated)
	return &t, nil
}
