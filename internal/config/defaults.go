// Package config provides configuration loading and defaults for disciplineos.
package config

// DefaultConfigDir is the default location for disciplineos configuration.
const DefaultConfigDir = "~/.config/disciplineos"

// DefaultDBName is the filename for the SQLite database.
const DefaultDBName = "disciplineos.db"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// DefaultPIDFile is the filename of the reminder daemon's PID file.
const DefaultPIDFile = "remind.pid"

// EnvPrefix prefixes every environment override, e.g. DISCIPLINEOS_SOURCE_KIND.
const EnvPrefix = "DISCIPLINEOS"

// Source kinds.
const (
	SourceSQLite   = "sqlite"
	SourceSupabase = "supabase"
)

// Log formats.
const (
	LogConsole = "console"
	LogJSON    = "json"
)

// Default returns the configuration used when no file or env override
// is present.
func Default() Config {
	return Config{
		AnalyticsDays: 14,
		Dopamine: Dopamine{
			LookbackDays:        30,
			DefaultLimitMinutes: 60,
		},
		Health: Health{
			WaterGoal:    8,
			StretchGoal:  15,
			ExerciseGoal: 30,
			LookbackDays: 14,
		},
		Reminders: Reminders{
			Water:    Reminder{IntervalMinutes: 30},
			Stretch:  Reminder{IntervalMinutes: 45},
			Exercise: Reminder{IntervalMinutes: 60},
		},
		Source: Source{Kind: SourceSQLite},
		Server: Server{Addr: "127.0.0.1:8787"},
		Output: Output{Color: true, Width: 80},
		Log:    Log{Level: "info", Format: LogConsole},
	}
}
