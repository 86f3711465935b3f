package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/disciplineos/internal/config"
	"github.com/blackwell-systems/disciplineos/internal/reminder"
)

var (
	remindDaemon bool
	remindStop   bool
	remindQuiet  bool
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Send recurring water, stretch, and exercise reminders",
	Long: `Run the reminder scheduler. Each reminder enabled under 'reminders' in the
config file fires on its own interval as a desktop notification. Editing the
config file while this runs applies the new schedule without a restart.

Examples:
  disciplineos remind                  # run in foreground (ctrl-c to stop)
  disciplineos remind --daemon         # run in background, write PID file
  disciplineos remind --stop           # stop the background daemon`,
	RunE: runRemind,
}

func init() {
	remindCmd.Flags().BoolVar(&remindDaemon, "daemon", false, "Run in background mode (write PID file, log to file)")
	remindCmd.Flags().BoolVar(&remindStop, "stop", false, "Stop a running background daemon")
	remindCmd.Flags().BoolVar(&remindQuiet, "quiet", false, "Suppress terminal output, only send notifications")
	rootCmd.AddCommand(remindCmd)
}

// logFilePath returns the path to the daemon log file.
func logFilePath() string {
	return strings.TrimSuffix(config.PIDPath(), ".pid") + ".log"
}

func runRemind(cmd *cobra.Command, args []string) error {
	if remindStop {
		return stopDaemon(cmd)
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if remindDaemon {
		return runDaemon(cmd, cfg)
	}
	return runForeground(cmd, cfg)
}

// runForeground runs the scheduler with live terminal output.
func runForeground(cmd *cobra.Command, cfg *config.Config) error {
	logger, err := newLogger(cfg.Log, flagVerbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	out := cmd.OutOrStdout()
	desktop := reminder.NewDesktop("disciplineos")
	notify := reminder.NotifierFunc(func(r reminder.Reminder) error {
		err := desktop.Notify(r)
		if !remindQuiet {
			_ = reminder.Print(out, r)
		}
		return err
	})

	return schedule(cmd.Context(), cfg, notify, logger, func(format string, args ...any) {
		if !remindQuiet {
			fmt.Fprintf(out, format+"\n", args...)
		}
	})
}

// runDaemon sets up PID and log files, then runs the scheduler. The actual
// backgrounding should be done by the caller (nohup, &, etc.) since Go
// cannot reliably fork.
func runDaemon(cmd *cobra.Command, cfg *config.Config) error {
	if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	// Check for existing daemon.
	if pid, err := readPID(); err == nil {
		if processExists(pid) {
			return fmt.Errorf("daemon already running (PID %d). Use --stop to stop it", pid)
		}
		// Stale PID file, remove it.
		_ = os.Remove(config.PIDPath())
	}

	pid := os.Getpid()
	if err := os.WriteFile(config.PIDPath(), []byte(strconv.Itoa(pid)), 0o644); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer func() { _ = os.Remove(config.PIDPath()) }()

	logCfg := cfg.Log
	logCfg.Format = config.LogJSON
	logger, err := newFileLogger(logCfg, logFilePath())
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("reminder daemon started", zap.Int("pid", pid))
	err = schedule(cmd.Context(), cfg, reminder.NewDesktop("disciplineos"), logger, func(format string, args ...any) {
		logger.Info(fmt.Sprintf(format, args...))
	})
	logger.Info("reminder daemon stopped")
	return err
}

// schedule runs the scheduler until a shutdown signal, reloading the
// schedule whenever the config file changes.
func schedule(ctx context.Context, cfg *config.Config, n reminder.Notifier, logger *zap.Logger, status func(string, ...any)) error {
	ctx, stop := signal.NotifyContext(ctx, shutdownSignals...)
	defer stop()

	sched := reminder.NewScheduler(cfg.ReminderConfig(), n, logger)
	if _, err := config.Watch(flagConfig, func(next *config.Config) {
		rc := next.ReminderConfig()
		if rc == sched.Config() {
			return
		}
		sched.Update(rc)
		status("[%s] schedule reloaded: %s", time.Now().Format("15:04:05"), describeSchedule(rc))
	}, func(err error) {
		logger.Warn("config reload failed, keeping current schedule", zap.Error(err))
	}); err != nil {
		return fmt.Errorf("watching config: %w", err)
	}

	if err := sched.Start(ctx); err != nil {
		return err
	}
	defer sched.Stop()

	status("disciplineos reminders running: %s", describeSchedule(sched.Config()))
	if !sched.Config().AnyActive() {
		status("no reminders enabled; edit reminders in %s", config.ConfigPath())
	}

	<-ctx.Done()
	status("\nStopped.")
	return nil
}

// describeSchedule summarizes the active reminders.
func describeSchedule(rc reminder.Config) string {
	var parts []string
	for _, k := range reminder.Kinds {
		if rc.Active(k) {
			parts = append(parts, fmt.Sprintf("%s every %s", k, time.Duration(rc.For(k).IntervalMinutes)*time.Minute))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

// stopDaemon signals the daemon named in the PID file, cleaning up a stale
// file when the process is gone.
func stopDaemon(cmd *cobra.Command) error {
	pid, err := readPID()
	if err != nil {
		return fmt.Errorf("no reminder daemon running (could not read PID file: %v)", err)
	}
	if !processExists(pid) {
		_ = os.Remove(config.PIDPath())
		return fmt.Errorf("no reminder daemon running (PID %d is not active, cleaned up stale PID file)", pid)
	}
	if err := terminate(pid); err != nil {
		return fmt.Errorf("failed to stop reminder daemon (PID %d): %w", pid, err)
	}
	_ = os.Remove(config.PIDPath())
	fmt.Fprintf(cmd.OutOrStdout(), "Stopped reminder daemon (PID %d)\n", pid)
	return nil
}

// readPID reads the daemon PID from the PID file.
func readPID() (int, error) {
	data, err := os.ReadFile(config.PIDPath())
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}
