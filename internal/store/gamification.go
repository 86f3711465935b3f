package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/blackwell-systems/disciplineos/internal/records"
)

// xpPerLevel matches the level progress formula: finishing level n takes
// n*500 XP.
const xpPerLevel = 500

// Gamification returns the persisted XP, level, and streak. A database
// that has never saved one reports the default state.
func (db *DB) Gamification(ctx context.Context) (records.GamificationState, error) {
	var g records.GamificationState
	var updated string
	err := db.conn.QueryRowContext(ctx,
		"SELECT xp, level, streak_days, updated_at FROM gamification WHERE id = 1",
	).Scan(&g.XP, &g.Level, &g.StreakDays, &updated)
	if err == sql.ErrNoRows {
		return records.DefaultGamification(), nil
	}
	if err != nil {
		return records.GamificationState{}, fmt.Errorf("reading gamification: %w", err)
	}
	g.UpdatedAt = records.ParseTimestamp(updated)
	return g, nil
}

// SaveStreak persists a computed activity streak.
func (db *DB) SaveStreak(ctx context.Context, streakDays int, activeDate string) error {
	if streakDays < 0 {
		streakDays = 0
	}
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO gamification (id, xp, level, streak_days, last_active_date, updated_at)
		 VALUES (1, 0, 1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			streak_days = excluded.streak_days,
			last_active_date = excluded.last_active_date,
			updated_at = excluded.updated_at`,
		streakDays, nullString(activeDate), records.FormatTimestamp(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("saving streak: %w", err)
	}
	db.log.Debug("streak saved", zap.Int("streak_days", streakDays))
	return nil
}

// AwardXP adds XP and carries overflow into new levels. It returns the
// updated state.
func (db *DB) AwardXP(ctx context.Context, amount int) (records.GamificationState, error) {
	if amount <= 0 {
		return db.Gamification(ctx)
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return records.GamificationState{}, err
	}
	defer func() { _ = tx.Rollback() }()

	g := records.DefaultGamification()
	err = tx.QueryRowContext(ctx, "SELECT xp, level, streak_days FROM gamification WHERE id = 1").
		Scan(&g.XP, &g.Level, &g.StreakDays)
	if err != nil && err != sql.ErrNoRows {
		return records.GamificationState{}, fmt.Errorf("reading gamification: %w", err)
	}

	g.XP, g.Level = addXP(g.XP, g.Level, amount)
	g.UpdatedAt = time.Now().UTC()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO gamification (id, xp, level, streak_days, updated_at)
		 VALUES (1, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			xp = excluded.xp, level = excluded.level, updated_at = excluded.updated_at`,
		g.XP, g.Level, g.StreakDays, records.FormatTimestamp(g.UpdatedAt),
	); err != nil {
		return records.GamificationState{}, fmt.Errorf("awarding xp: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return records.GamificationState{}, err
	}
	db.log.Debug("xp awarded", zap.Int("amount", amount), zap.Int("xp", g.XP), zap.Int("level", g.Level))
	return g, nil
}

func addXP(xp, level, amount int) (int, int) {
	if level < 1 {
		level = 1
	}
	xp += amount
	for xp >= level*xpPerLevel {
		xp -= level * xpPerLevel
		level++
	}
	return xp, level
}
