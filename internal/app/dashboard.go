package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/disciplineos/internal/output"
	"github.com/blackwell-systems/disciplineos/internal/snapshot"
)

func runDashboard(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	d, err := s.dashboard(ctx)
	if err != nil {
		return err
	}
	s.syncStreak(ctx, d)

	if flagJSON {
		return s.printJSON(d)
	}
	renderDashboard(s, d)
	return nil
}

// syncStreak persists the computed activity streak when it differs from the
// stored one. Failures are logged; the dashboard is still shown.
func (s *session) syncStreak(ctx context.Context, d *snapshot.Dashboard) {
	if s.db == nil || !d.StreakChanged() || len(d.Unavailable) > 0 {
		return
	}
	if err := s.db.SaveStreak(ctx, d.ActivityStreak, d.Date); err != nil {
		s.log.Warn("saving streak failed", zap.Error(err))
		return
	}
	d.StoredStreak = d.ActivityStreak
}

func renderDashboard(s *session, d *snapshot.Dashboard) {
	s.printf(" %s %s\n", output.StyleBold.Render("disciplineos"), output.StyleMuted.Render(d.Date))

	s.println(output.Section("Dopamine"))
	dp := d.Dopamine
	s.println(output.KeyValue("Score", output.ScoreBar(dp.Score, 20)+"  "+dp.Label))
	usage := fmt.Sprintf("%s of %s", output.Minutes(dp.TimeSpentMinutes), output.Minutes(dp.DailyLimitMinutes))
	switch {
	case !dp.Logged:
		usage = output.StyleMuted.Render("not logged today")
	case dp.OverLimit:
		usage += "  " + output.StyleError.Render(fmt.Sprintf("%s over", output.Minutes(-dp.RemainingMinutes)))
	default:
		usage += "  " + output.StyleSuccess.Render(fmt.Sprintf("%s left", output.Minutes(dp.RemainingMinutes)))
	}
	s.println(output.KeyValue("Screen time", usage))
	s.println(output.KeyValue("Compliance streak", fmt.Sprintf("%d days", dp.Streak)))

	s.println(output.Section("Health"))
	if d.Health.Logged {
		h, g := d.Health.Today, d.Health.Goals
		s.println(output.KeyValue("Score", output.ScoreBar(d.Health.Score, 20)))
		s.println(output.KeyValue("Water", fmt.Sprintf("%d/%d glasses %s", h.WaterGlasses, g.WaterGlasses, output.Check(h.WaterGlasses >= g.WaterGlasses))))
		s.println(output.KeyValue("Stretching", fmt.Sprintf("%d/%d min %s", h.StretchingMinutes, g.StretchingMinutes, output.Check(h.StretchingMinutes >= g.StretchingMinutes))))
		s.println(output.KeyValue("Exercise", fmt.Sprintf("%d/%d min %s", h.ExerciseMinutes, g.ExerciseMinutes, output.Check(h.ExerciseMinutes >= g.ExerciseMinutes))))
	} else {
		s.println(" " + output.StyleMuted.Render("not logged today"))
	}

	s.println(output.Section("Work"))
	s.println(output.KeyValue("Tasks", fmt.Sprintf("%d open, %d done", d.Tasks.Open, d.Tasks.Completed)))
	s.println(output.KeyValue("Focus today", output.Minutes(d.FocusToday)))
	s.println(output.KeyValue(fmt.Sprintf("Focus (%dd)", d.Analytics.WindowDays), focusSpark(d.Analytics)))
	if b := d.ActiveBook; b != nil {
		line := fmt.Sprintf("%s  p.%d/%d", b.Title, b.CurrentPage, b.TotalPages)
		if b.DaysLeft > 0 {
			line += output.StyleMuted.Render(fmt.Sprintf("  ~%d days left", b.DaysLeft))
		}
		s.println(output.KeyValue("Reading", output.ProgressBar(float64(b.Percent), 10)+"  "+line))
	}

	s.println(output.Section("Progress"))
	lv := d.Level
	s.println(output.KeyValue("Level", output.StyleAccent.Render(fmt.Sprintf("%d", lv.Level))+
		output.StyleMuted.Render(fmt.Sprintf("  %d/%d XP", lv.XP, lv.XPForNextLevel))))
	s.println(output.KeyValue("XP", output.ProgressBar(lv.XPProgressPercent, 20)))
	s.println(output.KeyValue("Activity streak", fmt.Sprintf("%d days", d.ActivityStreak)))
	s.println(output.KeyValue("Achievements", fmt.Sprintf("%d/%d unlocked", d.UnlockedCount, d.TotalCount)))
	if len(d.NextMilestones) > 0 {
		names := make([]string, 0, len(d.NextMilestones))
		for _, a := range d.NextMilestones {
			names = append(names, fmt.Sprintf("%s %s (%d/%d)", a.Icon, a.Name, a.Progress, a.Requirement))
		}
		s.println(output.KeyValue("Next up", strings.Join(names, ", ")))
	}

	s.println(output.Section("Money (" + d.Finance.Month.Month + ")"))
	m := d.Finance.Month
	s.println(output.KeyValue("Income", output.StyleSuccess.Render(output.Money(m.Income))))
	s.println(output.KeyValue("Expenses", output.StyleError.Render(output.Money(m.Expenses))))
	s.println(output.KeyValue("Balance", fmt.Sprintf("%s  %d%% saved", output.Money(m.Balance), m.SavingsRate)))

	for _, name := range d.Unavailable {
		s.println(output.StyleWarning.Render(fmt.Sprintf(" warning: %s unavailable, shown as empty", name)))
	}
	s.println()
}

func focusSpark(a snapshot.Analytics) string {
	minutes := make([]int, len(a.Focus))
	for i, p := range a.Focus {
		minutes[i] = p.Minutes
	}
	return output.Sparkline(minutes) + output.StyleMuted.Render("  "+output.Minutes(a.FocusMinutes))
}
