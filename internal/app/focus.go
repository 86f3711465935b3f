package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/disciplineos/internal/metrics"
	"github.com/blackwell-systems/disciplineos/internal/output"
	"github.com/blackwell-systems/disciplineos/internal/records"
	"github.com/blackwell-systems/disciplineos/internal/reminder"
	"github.com/blackwell-systems/disciplineos/internal/store"
)

var (
	focusCustom bool
	focusWait   bool
)

// focusUnit is one minute of a timed session; shortened in tests.
var focusUnit = time.Minute

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Track timed focus sessions",
}

var focusStartCmd = &cobra.Command{
	Use:   "start [minutes]",
	Short: "Start a focus session (default 25 minute pomodoro)",
	Long: `Start a focus session. Without --wait the session stays open until
'disciplineos focus done'. With --wait the command runs the timer, sends a
desktop notification, and completes the session when time is up. Ctrl-C
leaves the session open.

Examples:
  disciplineos focus start
  disciplineos focus start 50 --custom --wait`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFocusStart,
}

var focusDoneCmd = &cobra.Command{
	Use:   "done [id]",
	Short: "Complete the open focus session (+XP)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFocusDone,
}

var focusTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's focus time and sessions",
	RunE:  runFocusToday,
}

func init() {
	focusStartCmd.Flags().BoolVar(&focusCustom, "custom", false, "Record as a custom session instead of a pomodoro")
	focusStartCmd.Flags().BoolVar(&focusWait, "wait", false, "Run the timer and complete the session when it ends")
	focusCmd.AddCommand(focusStartCmd, focusDoneCmd, focusTodayCmd)
	rootCmd.AddCommand(focusCmd)
}

func runFocusStart(cmd *cobra.Command, args []string) error {
	minutes := 25
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid minutes %q", args[0])
		}
		minutes = n
	}
	kind := store.SessionPomodoro
	if focusCustom {
		kind = store.SessionCustom
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

	ctx := cmd.Context()
	fs, err := db.StartFocusSession(ctx, store.FocusInput{DurationMinutes: minutes, SessionType: kind})
	if err != nil {
		return err
	}
	if flagJSON && !focusWait {
		return s.printJSON(fs)
	}
	s.printf(" Focus session %s started: %s %s\n", shortID(fs.ID), output.Minutes(minutes), kind)
	if !focusWait {
		return nil
	}

	waitCtx, stop := signal.NotifyContext(ctx, shutdownSignals...)
	defer stop()
	select {
	case <-waitCtx.Done():
		s.println("\n Stopped early; the session is still open.")
		return nil
	case <-time.After(time.Duration(minutes) * focusUnit):
	}

	if err := completeFocus(ctx, s, db, fs); err != nil {
		return err
	}
	_ = reminder.NewDesktop("disciplineos").Notify(reminder.Reminder{
		Title: "Focus session complete",
		Body:  fmt.Sprintf("%s of focus logged. Take a short break.", output.Minutes(minutes)),
		At:    s.now(),
	})
	return nil
}

func runFocusDone(cmd *cobra.Command, args []string) error {
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
	var fs *records.FocusSession
	if len(args) == 1 {
		id, err := s.resolve(ctx, store.TableFocusSessions, args[0])
		if err != nil {
			return err
		}
		fs = &records.FocusSession{ID: id}
		sessions, err := db.ListFocusSessions(ctx, time.Time{})
		if err != nil {
			return err
		}
		for i := range sessions {
			if sessions[i].ID == id {
				fs = &sessions[i]
			}
		}
	} else {
		fs, err = db.LatestOpenFocusSession(ctx)
		if errors.Is(err, store.ErrNotFound) {
			return errors.New("no open focus session")
		}
		if err != nil {
			return err
		}
	}
	return completeFocus(ctx, s, db, fs)
}

func completeFocus(ctx context.Context, s *session, db *store.DB, fs *records.FocusSession) error {
	if err := db.CompleteFocusSession(ctx, fs.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("focus session %s is already completed", shortID(fs.ID))
		}
		return err
	}
	s.printf(" %s Completed %s focus session %s\n", output.Check(true), output.Minutes(fs.DurationMinutes), shortID(fs.ID))
	s.award(ctx, db, focusXP(fs.DurationMinutes))
	return nil
}

// focusTodayResult is the JSON shape of 'focus today'.
type focusTodayResult struct {
	Date     string                 `json:"date"`
	Minutes  int                    `json:"minutes"`
	Sessions []records.FocusSession `json:"sessions"`
}

func runFocusToday(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	now := s.now()
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	sessions, err := s.src.FocusSessions(cmd.Context(), midnight)
	if err != nil {
		return err
	}

	res := focusTodayResult{
		Date:     s.today(),
		Minutes:  metrics.FocusToday(now, sessions),
		Sessions: []records.FocusSession{},
	}
	for _, fs := range sessions {
		if metrics.DayKey(fs.StartedAt, now.Location()) == res.Date {
			res.Sessions = append(res.Sessions, fs)
		}
	}
	if flagJSON {
		return s.printJSON(res)
	}

	s.println(output.KeyValue("Focus today", output.StyleBold.Render(output.Minutes(res.Minutes))))
	if len(res.Sessions) == 0 {
		return nil
	}
	tbl := output.NewTable("ID", "", "Started", "Length", "Type")
	for _, fs := range res.Sessions {
		tbl.AddRow(shortID(fs.ID), output.Check(fs.Completed), fs.StartedAt.In(now.Location()).Format("15:04"),
			output.Minutes(fs.DurationMinutes), fs.SessionType)
	}
	s.println()
	tbl.Print(s.out)
	return nil
}
