package snapshot

import (
	"time"

	"github.com/blackwell-systems/disciplineos/internal/metrics"
	"github.com/blackwell-systems/disciplineos/internal/records"
)

// DeriveOptions tunes the derived view.
type DeriveOptions struct {
	WindowDays          int
	DefaultLimitMinutes int
	HealthGoals         metrics.HealthGoals
	SpendingDays        int
	GrowthMonths        int
	MilestoneCount      int
}

// DefaultDeriveOptions mirrors the config defaults.
func DefaultDeriveOptions() DeriveOptions {
	return DeriveOptions{
		WindowDays:          metrics.DefaultWindowDays,
		DefaultLimitMinutes: 60,
		HealthGoals:         metrics.DefaultHealthGoals,
		SpendingDays:        7,
		GrowthMonths:        6,
		MilestoneCount:      3,
	}
}

func (o DeriveOptions) withDefaults() DeriveOptions {
	d := DefaultDeriveOptions()
	if o.WindowDays <= 0 {
		o.WindowDays = d.WindowDays
	}
	if o.DefaultLimitMinutes <= 0 {
		o.DefaultLimitMinutes = d.DefaultLimitMinutes
	}
	if o.HealthGoals == (metrics.HealthGoals{}) {
		o.HealthGoals = d.HealthGoals
	}
	if o.SpendingDays <= 0 {
		o.SpendingDays = d.SpendingDays
	}
	if o.GrowthMonths <= 0 {
		o.GrowthMonths = d.GrowthMonths
	}
	if o.MilestoneCount <= 0 {
		o.MilestoneCount = d.MilestoneCount
	}
	return o
}

// DopamineView is today's dopamine card.
type DopamineView struct {
	metrics.DopamineUsage
	Logged        bool `json:"logged"`
	Streak        int  `json:"streak"`
	CompliantDays int  `json:"compliant_days"`
}

// HealthView is today's health card.
type HealthView struct {
	Logged bool                `json:"logged"`
	Score  int                 `json:"score"`
	Today  records.HealthLog   `json:"today"`
	Goals  metrics.HealthGoals `json:"goals"`
}

// TaskView counts open and completed tasks.
type TaskView struct {
	Open      int `json:"open"`
	Completed int `json:"completed"`
}

// FinanceView groups the finance rollups.
type FinanceView struct {
	Month      metrics.MonthSummary        `json:"month"`
	Categories []metrics.CategoryTotal     `json:"categories"`
	Spending   []metrics.DayValue[float64] `json:"spending"`
	Growth     []metrics.MonthlyPoint      `json:"growth"`
}

// Analytics is the windowed analytics view.
type Analytics struct {
	WindowDays     int                       `json:"window_days"`
	Focus          []metrics.DailyFocusPoint `json:"focus"`
	Tasks          []metrics.DailyTaskPoint  `json:"tasks"`
	FocusMinutes   int                       `json:"focus_minutes"`
	TasksAdded     int                       `json:"tasks_added"`
	TasksCompleted int                       `json:"tasks_completed"`
	Reading        []metrics.BookProgress    `json:"reading"`
}

// Dashboard is the full derived view model.
type Dashboard struct {
	Date           string                `json:"date"`
	Dopamine       DopamineView          `json:"dopamine"`
	Health         HealthView            `json:"health"`
	Tasks          TaskView              `json:"tasks"`
	FocusToday     int                   `json:"focus_today_minutes"`
	ActiveBook     *metrics.BookProgress `json:"active_book,omitempty"`
	Level          metrics.LevelProgress `json:"level"`
	StoredStreak   int                   `json:"stored_streak"`
	ActivityStreak int                   `json:"activity_streak"`
	Counters       metrics.Counters      `json:"counters"`
	Achievements   []metrics.Achievement `json:"achievements"`
	UnlockedCount  int                   `json:"unlocked_count"`
	TotalCount     int                   `json:"total_count"`
	NextMilestones []metrics.Achievement `json:"next_milestones"`
	Analytics      Analytics             `json:"analytics"`
	Finance        FinanceView           `json:"finance"`
	Unavailable    []string              `json:"unavailable,omitempty"`
}

// StreakChanged reports whether the computed activity streak differs from
// the persisted one and should be written back.
func (d *Dashboard) StreakChanged() bool {
	return d.ActivityStreak != d.StoredStreak
}

// Derive computes the dashboard from a snapshot as of today. It reads the
// snapshot without modifying it and is deterministic for equal inputs.
func Derive(snap *Snapshot, today time.Time, opts DeriveOptions) *Dashboard {
	if snap == nil {
		snap = &Snapshot{Gamification: records.DefaultGamification()}
	}
	opts = opts.withDefaults()
	date := metrics.DayKey(today, today.Location())

	d := &Dashboard{
		Date:         date,
		StoredStreak: snap.Gamification.StreakDays,
		Unavailable:  snap.Unavailable,
	}

	todayLog := metrics.FindLog(snap.DopamineLogs, date)
	d.Dopamine = DopamineView{
		DopamineUsage: metrics.Usage(todayLog, opts.DefaultLimitMinutes),
		Logged:        todayLog != nil,
		Streak:        metrics.DopamineStreak(today, snap.DopamineLogs),
		CompliantDays: metrics.CompliantDays(snap.DopamineLogs),
	}

	d.Health = HealthView{Goals: opts.HealthGoals}
	if h := metrics.FindHealthLog(snap.HealthLogs, date); h != nil {
		d.Health.Logged = true
		d.Health.Today = *h
		d.Health.Score, _ = metrics.HealthScore(h, opts.HealthGoals)
	}

	for _, t := range snap.Tasks {
		if t.Completed {
			d.Tasks.Completed++
		} else {
			d.Tasks.Open++
		}
	}

	d.FocusToday = metrics.FocusToday(today, snap.FocusSessions)
	if b := metrics.ActiveBook(snap.Books); b != nil {
		p := metrics.ProjectBook(*b)
		d.ActiveBook = &p
	}

	d.Level = metrics.ComputeLevelProgress(snap.Gamification.XP, snap.Gamification.Level)
	d.ActivityStreak = metrics.ActivityStreak(today,
		metrics.ActiveDates(today, snap.Tasks, snap.FocusSessions, snap.HealthLogs, snap.DopamineLogs))

	d.Counters = metrics.BuildCounters(metrics.CounterInputs{
		Tasks:         snap.Tasks,
		FocusSessions: snap.FocusSessions,
		HealthLogs:    snap.HealthLogs,
		Books:         snap.Books,
		DopamineLogs:  snap.DopamineLogs,
		Transactions:  snap.Transactions,
		Gamification:  snap.Gamification,
	})
	d.Achievements = metrics.EvaluateAchievements(d.Counters)
	d.UnlockedCount = metrics.UnlockedCount(d.Achievements)
	d.TotalCount = len(d.Achievements)
	d.NextMilestones = metrics.NextMilestones(d.Achievements, d.Counters, opts.MilestoneCount)

	d.Analytics = DeriveAnalytics(snap, today, opts.WindowDays)

	d.Finance = FinanceView{
		Month:      metrics.SummarizeMonth(today, snap.Transactions),
		Categories: metrics.ExpensesByCategory(today, snap.Transactions),
		Spending:   metrics.DailySpending(today, snap.Transactions, opts.SpendingDays),
		Growth:     metrics.MonthlyGrowth(today, snap.Transactions, opts.GrowthMonths),
	}
	return d
}

// DeriveAnalytics computes only the windowed series and reading snapshot.
func DeriveAnalytics(snap *Snapshot, today time.Time, windowDays int) Analytics {
	if snap == nil {
		snap = &Snapshot{}
	}
	if windowDays <= 0 {
		windowDays = metrics.DefaultWindowDays
	}
	a := Analytics{
		WindowDays: windowDays,
		Focus:      metrics.AggregateFocusSeries(today, snap.FocusSessions, windowDays),
		Tasks:      metrics.AggregateTaskSeries(today, snap.Tasks, windowDays),
		Reading:    metrics.ReadingSnapshot(snap.Books),
	}
	a.FocusMinutes = metrics.TotalFocusMinutes(a.Focus)
	a.TasksAdded, a.TasksCompleted = metrics.TaskTotals(a.Tasks)
	return a
}
