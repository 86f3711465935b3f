package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/blackwell-systems/disciplineos/internal/records"
)

// Focus session types.
const (
	SessionPomodoro = "pomodoro"
	SessionCustom   = "custom"
)

// FocusInput describes a focus session being started.
type FocusInput struct {
	DurationMinutes int    `validate:"gt=0,max=600"`
	SessionType     string `validate:"omitempty,oneof=pomodoro custom"`
}

// StartFocusSession records a new, not yet completed focus session.
func (db *DB) StartFocusSession(ctx context.Context, in FocusInput) (*records.FocusSession, error) {
	if in.SessionType == "" {
		in.SessionType = SessionPomodoro
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	s := &records.FocusSession{
		ID:              uuid.NewString(),
		DurationMinutes: in.DurationMinutes,
		SessionType:     in.SessionType,
		StartedAt:       time.Now().UTC(),
	}
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO focus_sessions (id, duration_minutes, session_type, completed, started_at)
		 VALUES (?, ?, ?, false, ?)`,
		s.ID, s.DurationMinutes, s.SessionType, records.FormatTimestamp(s.StartedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting focus session: %w", err)
	}
	return s, nil
}

// CompleteFocusSession marks a session completed now.
func (db *DB) CompleteFocusSession(ctx context.Context, id string) error {
	return affected(db.conn.ExecContext(ctx,
		"UPDATE focus_sessions SET completed = true, completed_at = ? WHERE id = ? AND completed = false",
		records.FormatTimestamp(time.Now()), id,
	))
}

// LatestOpenFocusSession returns the most recently started session that
// has not been completed.
func (db *DB) LatestOpenFocusSession(ctx context.Context) (*records.FocusSession, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, duration_minutes, session_type, completed, started_at, completed_at
		 FROM focus_sessions WHERE completed = false ORDER BY started_at DESC LIMIT 1`)
	s, err := scanFocusSession(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return s, err
}

// ListFocusSessions returns sessions started at or after since, newest
// first. A zero since returns every session.
func (db *DB) ListFocusSessions(ctx context.Context, since time.Time) ([]records.FocusSession, error) {
	query := `SELECT id, duration_minutes, session_type, completed, started_at, completed_at
		FROM focus_sessions`
	var args []any
	if !since.IsZero() {
		query += " WHERE started_at >= ?"
		args = append(args, records.FormatTimestamp(since))
	}
	query += " ORDER BY started_at DESC"

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing focus sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []records.FocusSession
	for rows.Next() {
		s, err := scanFocusSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

func scanFocusSession(s scanner) (*records.FocusSession, error) {
	var fs records.FocusSession
	var started string
	var completed sql.NullString
	if err := s.Scan(&fs.ID, &fs.DurationMinutes, &fs.SessionType, &fs.Completed, &started, &completed); err != nil {
		return nil, err
	}
	fs.StartedAt = records.ParseTimestamp(started)
	if completed.Valid {
		if t := records.ParseTimestamp(completed.String); !t.IsZero() {
			fs.CompletedAt = &t
		}
	}
	return &fs, nil
}
