package app

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/disciplineos/internal/output"
	"github.com/blackwell-systems/disciplineos/internal/snapshot"
)

var analyticsDays int

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show daily focus minutes and task counts over a window",
	Long: `Show per-day focus minutes and tasks added/completed over the last N
days (default from analytics_days), plus the reading list snapshot. Days
without activity are shown as zero.`,
	RunE: runAnalytics,
}

func init() {
	analyticsCmd.Flags().IntVar(&analyticsDays, "days", 0, "Window in days, 1-365 (default from config)")
	rootCmd.AddCommand(analyticsCmd)
}

func runAnalytics(cmd *cobra.Command, args []string) error {
	if analyticsDays < 0 || analyticsDays > 365 {
		return errors.New("--days must be between 1 and 365")
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	days := analyticsDays
	if days == 0 {
		days = s.cfg.DeriveOptions().WindowDays
	}
	snap, err := s.load(cmd.Context())
	if err != nil {
		return err
	}
	a := snapshot.DeriveAnalytics(snap, s.now(), days)
	if flagJSON {
		return s.printJSON(a)
	}

	focus := make([]int, len(a.Focus))
	done := make([]int, len(a.Tasks))
	for i := range a.Focus {
		focus[i] = a.Focus[i].Minutes
		done[i] = a.Tasks[i].Completed
	}
	s.println(output.Section(fmt.Sprintf("Last %d days", a.WindowDays)))
	s.println(output.KeyValue("Focus", output.Sparkline(focus)+"  "+output.Minutes(a.FocusMinutes)))
	s.println(output.KeyValue("Tasks completed", output.Sparkline(done)+
		fmt.Sprintf("  %d done, %d added", a.TasksCompleted, a.TasksAdded)))

	s.println()
	tbl := output.NewTable("Date", "Focus", "Added", "Done").AlignRight(1, 2, 3)
	for i := range a.Focus {
		tbl.AddRow(a.Focus[i].Date, output.Minutes(a.Focus[i].Minutes),
			fmt.Sprintf("%d", a.Tasks[i].Added), fmt.Sprintf("%d", a.Tasks[i].Completed))
	}
	tbl.Print(s.out)

	if len(a.Reading) > 0 {
		s.println(output.Section("Reading"))
		for _, b := range a.Reading {
			s.println(output.KeyValue(b.Title, output.ProgressBar(float64(b.Percent), 20)))
		}
	}
	for _, name := range snap.Unavailable {
		s.println(output.StyleWarning.Render(fmt.Sprintf(" warning: %s unavailable, shown as empty", name)))
	}
	s.println()
	return nil
}
