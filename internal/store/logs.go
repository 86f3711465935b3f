package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blackwell-systems/disciplineos/internal/records"
)

// DopamineInput is one day's dopamine entry.
type DopamineInput struct {
	LogDate           string `validate:"required,datetime=2006-01-02"`
	TimeSpentMinutes  int    `validate:"gte=0,max=1440"`
	DailyLimitMinutes int    `validate:"gte=0,max=1440"`
	Notes             string `validate:"max=2000"`
}

// HealthInput is one day's health entry.
type HealthInput struct {
	LogDate           string `validate:"required,datetime=2006-01-02"`
	WaterGlasses      int    `validate:"gte=0,max=100"`
	StretchingMinutes int    `validate:"gte=0,max=1440"`
	ExerciseMinutes   int    `validate:"gte=0,max=1440"`
	ExerciseType      string `validate:"max=100"`
	Notes             string `validate:"max=2000"`
}

// UpsertDopamineLog creates the log for in.LogDate or updates it in place.
// There is never more than one row per date.
func (db *DB) UpsertDopamineLog(ctx context.Context, in DopamineInput) (*records.DopamineLog, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO dopamine_logs (id, log_date, time_spent_minutes, daily_limit_minutes, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(log_date) DO UPDATE SET
			time_spent_minutes = excluded.time_spent_minutes,
			daily_limit_minutes = excluded.daily_limit_minutes,
			notes = excluded.notes`,
		uuid.NewString(), in.LogDate, in.TimeSpentMinutes, in.DailyLimitMinutes,
		nullString(in.Notes), records.FormatTimestamp(time.Now()),
	)
	if err != nil {
		return nil, fmt.Errorf("upserting dopamine log %s: %w", in.LogDate, err)
	}
	db.log.Debug("dopamine log saved", zap.String("date", in.LogDate), zap.Int("minutes", in.TimeSpentMinutes))

	logs, err := db.queryDopamine(ctx, "WHERE log_date = ?", in.LogDate)
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, ErrNotFound
	}
	return &logs[0], nil
}

// ListDopamineLogs returns logs dated on or after since, newest first.
func (db *DB) ListDopamineLogs(ctx context.Context, since time.Time) ([]records.DopamineLog, error) {
	if since.IsZero() {
		return db.queryDopamine(ctx, "")
	}
	return db.queryDopamine(ctx, "WHERE log_date >= ?", since.Format(records.DateLayout))
}

func (db *DB) queryDopamine(ctx context.Context, where string, args ...any) ([]records.DopamineLog, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, log_date, time_spent_minutes, daily_limit_minutes, COALESCE(notes, ''), created_at
		 FROM dopamine_logs `+where+` ORDER BY log_date DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("listing dopamine logs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var logs []records.DopamineLog
	for rows.Next() {
		var l records.DopamineLog
		var created string
		if err := rows.Scan(&l.ID, &l.LogDate, &l.TimeSpentMinutes, &l.DailyLimitMinutes, &l.Notes, &created); err != nil {
			return nil, err
		}
		l.CreatedAt = records.ParseTimestamp(created)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// UpsertHealthLog creates the log for in.LogDate or updates it in place.
func (db *DB) UpsertHealthLog(ctx context.Context, in HealthInput) (*records.HealthLog, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	now := records.FormatTimestamp(time.Now())
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO health_logs (id, log_date, water_glasses, stretching_minutes, exercise_minutes,
			exercise_type, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(log_date) DO UPDATE SET
			water_glasses = excluded.water_glasses,
			stretching_minutes = excluded.stretching_minutes,
			exercise_minutes = excluded.exercise_minutes,
			exercise_type = excluded.exercise_type,
			notes = excluded.notes,
			updated_at = excluded.updated_at`,
		uuid.NewString(), in.LogDate, in.WaterGlasses, in.StretchingMinutes, in.ExerciseMinutes,
		nullString(in.ExerciseType), nullString(in.Notes), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("upserting health log %s: %w", in.LogDate, err)
	}
	db.log.Debug("health log saved", zap.String("date", in.LogDate))

	logs, err := db.queryHealth(ctx, "WHERE log_date = ?", in.LogDate)
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, ErrNotFound
	}
	return &logs[0], nil
}

// ListHealthLogs returns logs dated on or after since, newest first.
func (db *DB) ListHealthLogs(ctx context.Context, since time.Time) ([]records.HealthLog, error) {
	if since.IsZero() {
		return db.queryHealth(ctx, "")
	}
	return db.queryHealth(ctx, "WHERE log_date >= ?", since.Format(records.DateLayout))
}

func (db *DB) queryHealth(ctx context.Context, where string, args ...any) ([]records.HealthLog, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, log_date, water_glasses, stretching_minutes, exercise_minutes,
			COALESCE(exercise_type, ''), COALESCE(notes, ''), created_at, updated_at
		 FROM health_logs `+where+` ORDER BY log_date DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("listing health logs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var logs []records.HealthLog
	for rows.Next() {
		var l records.HealthLog
		var created, updated string
		if err := rows.Scan(&l.ID, &l.LogDate, &l.WaterGlasses, &l.StretchingMinutes, &l.ExerciseMinutes,
			&l.ExerciseType, &l.Notes, &created, &updated); err != nil {
			return nil, err
		}
		l.CreatedAt = records.ParseTimestamp(created)
		l.UpdatedAt = records.ParseTimestamp(updated)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
