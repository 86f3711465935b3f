package app

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/disciplineos/internal/metrics"
	"github.com/blackwell-systems/disciplineos/internal/output"
	"github.com/blackwell-systems/disciplineos/internal/records"
	"github.com/blackwell-systems/disciplineos/internal/store"
)

var (
	logDate  string
	logNotes string
	logDays  int

	dopamineLimit int

	healthWater    int
	healthStretch  int
	healthExercise int
	healthType     string
	healthAdd      bool
)

var dopamineCmd = &cobra.Command{
	Use:   "dopamine",
	Short: "Log and review daily screen time against your limit",
}

var dopamineLogCmd = &cobra.Command{
	Use:   "log <minutes>",
	Short: "Record today's screen time (replaces the day's entry)",
	Long: `Record minutes spent on tracked distractions for a day. Logging the same
day again replaces its entry, so there is never more than one per date.

Examples:
  disciplineos dopamine log 45
  disciplineos dopamine log 90 --limit 60 --date 2026-10-12`,
	Args: cobra.ExactArgs(1),
	RunE: runDopamineLog,
}

var dopamineShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show today's score and recent history",
	RunE:  runDopamineShow,
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Log and review water, stretching, and exercise",
}

var healthLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Record the day's health numbers",
	Long: `Record water glasses, stretching minutes, and exercise minutes for a day.
Without --add the given values replace the day's entry; with --add they are
added to what is already logged.

Examples:
  disciplineos health log --water 3 --add
  disciplineos health log --exercise 30 --type Running`,
	RunE: runHealthLog,
}

var healthShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show today's health score and recent history",
	RunE:  runHealthShow,
}

func init() {
	for _, c := range []*cobra.Command{dopamineLogCmd, healthLogCmd} {
		c.Flags().StringVar(&logDate, "date", "", "Day to log (YYYY-MM-DD, default today)")
		c.Flags().StringVar(&logNotes, "notes", "", "Free-form notes")
	}
	for _, c := range []*cobra.Command{dopamineShowCmd, healthShowCmd} {
		c.Flags().IntVar(&logDays, "days", 0, "History window in days (default from config)")
	}
	dopamineLogCmd.Flags().IntVar(&dopamineLimit, "limit", 0, "Daily limit in minutes (default from config)")

	healthLogCmd.Flags().IntVar(&healthWater, "water", 0, "Glasses of water")
	healthLogCmd.Flags().IntVar(&healthStretch, "stretch", 0, "Minutes of stretching")
	healthLogCmd.Flags().IntVar(&healthExercise, "exercise", 0, "Minutes of exercise")
	healthLogCmd.Flags().StringVar(&healthType, "type", "", "Exercise type (e.g. Walking, Gym, Yoga)")
	healthLogCmd.Flags().BoolVar(&healthAdd, "add", false, "Add to the day's values instead of replacing them")

	dopamineCmd.AddCommand(dopamineLogCmd, dopamineShowCmd)
	healthCmd.AddCommand(healthLogCmd, healthShowCmd)
	rootCmd.AddCommand(dopamineCmd, healthCmd)
}

func runDopamineLog(cmd *cobra.Command, args []string) error {
	minutes, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid minutes %q", args[0])
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	db, err := s.writable()
	if err != nil {
		return err
	}

	limit := dopamineLimit
	if limit <= 0 {
		limit = s.cfg.Dopamine.DefaultLimitMinutes
	}
	date := logDate
	if date == "" {
		date = s.today()
	}

	l, err := db.UpsertDopamineLog(cmd.Context(), store.DopamineInput{
		LogDate:           date,
		TimeSpentMinutes:  minutes,
		DailyLimitMinutes: limit,
		Notes:             logNotes,
	})
	if err != nil {
		return err
	}
	if flagJSON {
		return s.printJSON(l)
	}
	score := metrics.DopamineScore(l)
	s.printf(" %s %s: %s of %s\n", output.Check(l.Compliant()), l.LogDate,
		output.Minutes(l.TimeSpentMinutes), output.Minutes(l.DailyLimitMinutes))
	s.println(output.KeyValue("Score", output.ScoreBar(score, 20)+"  "+metrics.ScoreLabel(score)))
	return nil
}

// dopamineShowResult is the JSON shape of 'dopamine show'.
type dopamineShowResult struct {
	Today   metrics.DopamineUsage `json:"today"`
	Logged  bool                  `json:"logged"`
	Streak  int                   `json:"streak"`
	History []dopamineDay         `json:"history"`
}

type dopamineDay struct {
	records.DopamineLog
	Score int `json:"score"`
}

func runDopamineShow(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	days := logDays
	if days <= 0 {
		days = s.cfg.Dopamine.LookbackDays
	}
	now := s.now()
	logs, err := s.src.DopamineLogs(cmd.Context(), now.AddDate(0, 0, -(days-1)))
	if err != nil {
		return err
	}

	today := metrics.FindLog(logs, s.today())
	res := dopamineShowResult{
		Today:   metrics.Usage(today, s.cfg.Dopamine.DefaultLimitMinutes),
		Logged:  today != nil,
		Streak:  metrics.DopamineStreak(now, logs),
		History: make([]dopamineDay, 0, len(logs)),
	}
	for _, l := range logs {
		res.History = append(res.History, dopamineDay{DopamineLog: l, Score: metrics.DopamineScore(&l)})
	}
	if flagJSON {
		return s.printJSON(res)
	}

	s.println(output.KeyValue("Today", output.ScoreBar(res.Today.Score, 20)+"  "+res.Today.Label))
	s.println(output.KeyValue("Compliance streak", fmt.Sprintf("%d days", res.Streak)))
	s.println(output.KeyValue("Compliant days", fmt.Sprintf("%d of %d logged", metrics.CompliantDays(logs), len(logs))))
	if len(res.History) == 0 {
		return nil
	}
	s.println()
	tbl := output.NewTable("Date", "Spent", "Limit", "Score", "").AlignRight(1, 2, 3)
	for _, d := range res.History {
		tbl.AddRow(d.LogDate, output.Minutes(d.TimeSpentMinutes), output.Minutes(d.DailyLimitMinutes),
			strconv.Itoa(d.Score), output.Check(d.Compliant()))
	}
	tbl.Print(s.out)
	return nil
}

func runHealthLog(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	db, err := s.writable()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	date := logDate
	if date == "" {
		date = s.today()
	}
	in := store.HealthInput{
		LogDate:           date,
		WaterGlasses:      healthWater,
		StretchingMinutes: healthStretch,
		ExerciseMinutes:   healthExercise,
		ExerciseType:      healthType,
		Notes:             logNotes,
	}
	if healthAdd {
		day, ok := records.ParseDate(date, s.cfg.Location())
		if !ok {
			return fmt.Errorf("invalid date %q", date)
		}
		existing, err := db.ListHealthLogs(ctx, day)
		if err != nil {
			return err
		}
		if prev := metrics.FindHealthLog(existing, date); prev != nil {
			in.WaterGlasses += prev.WaterGlasses
			in.StretchingMinutes += prev.StretchingMinutes
			in.ExerciseMinutes += prev.ExerciseMinutes
			if in.ExerciseType == "" {
				in.ExerciseType = prev.ExerciseType
			}
			if in.Notes == "" {
				in.Notes = prev.Notes
			}
		}
	}

	h, err := db.UpsertHealthLog(ctx, in)
	if err != nil {
		return err
	}
	if flagJSON {
		return s.printJSON(h)
	}
	renderHealthDay(s, h, s.cfg.HealthGoals())
	return nil
}

func renderHealthDay(s *session, h *records.HealthLog, g metrics.HealthGoals) {
	score, _ := metrics.HealthScore(h, g)
	s.println(output.KeyValue("Health "+h.LogDate, output.ScoreBar(score, 20)))
	s.println(output.KeyValue("Water", output.ProgressBar(metrics.GoalPercent(h.WaterGlasses, g.WaterGlasses), 10)+
		fmt.Sprintf("  %d/%d glasses", h.WaterGlasses, g.WaterGlasses)))
	s.println(output.KeyValue("Stretching", output.ProgressBar(metrics.GoalPercent(h.StretchingMinutes, g.StretchingMinutes), 10)+
		fmt.Sprintf("  %d/%d min", h.StretchingMinutes, g.StretchingMinutes)))
	exercise := fmt.Sprintf("  %d/%d min", h.ExerciseMinutes, g.ExerciseMinutes)
	if h.ExerciseType != "" {
		exercise += " " + output.StyleMuted.Render(h.ExerciseType)
	}
	s.println(output.KeyValue("Exercise", output.ProgressBar(metrics.GoalPercent(h.ExerciseMinutes, g.ExerciseMinutes), 10)+exercise))
}

// healthShowResult is the JSON shape of 'health show'.
type healthShowResult struct {
	Goals   metrics.HealthGoals `json:"goals"`
	History []healthDay         `json:"history"`
}

type healthDay struct {
	records.HealthLog
	Score int `json:"score"`
}

func runHealthShow(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	days := logDays
	if days <= 0 {
		days = s.cfg.Health.LookbackDays
	}
	now := s.now()
	logs, err := s.src.HealthLogs(cmd.Context(), now.AddDate(0, 0, -(days-1)))
	if err != nil {
		return err
	}

	goals := s.cfg.HealthGoals()
	res := healthShowResult{Goals: goals, History: make([]healthDay, 0, len(logs))}
	for _, l := range logs {
		score, _ := metrics.HealthScore(&l, goals)
		res.History = append(res.History, healthDay{HealthLog: l, Score: score})
	}
	if flagJSON {
		return s.printJSON(res)
	}

	if today := metrics.FindHealthLog(logs, s.today()); today != nil {
		renderHealthDay(s, today, goals)
	} else {
		s.println(" " + output.StyleMuted.Render("Nothing logged today."))
	}
	if len(res.History) == 0 {
		return nil
	}
	s.println()
	tbl := output.NewTable("Date", "Water", "Stretch", "Exercise", "Type", "Score").AlignRight(1, 2, 3, 5)
	for _, d := range res.History {
		tbl.AddRow(d.LogDate, strconv.Itoa(d.WaterGlasses), output.Minutes(d.StretchingMinutes),
			output.Minutes(d.ExerciseMinutes), d.ExerciseType, strconv.Itoa(d.Score))
	}
	tbl.Print(s.out)
	return nil
}
