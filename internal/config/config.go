package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/blackwell-systems/disciplineos/internal/metrics"
	"github.com/blackwell-systems/disciplineos/internal/reminder"
	"github.com/blackwell-systems/disciplineos/internal/snapshot"
)

// Config is the top-level disciplineos configuration.
type Config struct {
	Timezone      string    `mapstructure:"timezone" yaml:"timezone"`
	AnalyticsDays int       `mapstructure:"analytics_days" yaml:"analytics_days"`
	Dopamine      Dopamine  `mapstructure:"dopamine" yaml:"dopamine"`
	Health        Health    `mapstructure:"health" yaml:"health"`
	Reminders     Reminders `mapstructure:"reminders" yaml:"reminders"`
	Store         Store     `mapstructure:"store" yaml:"store"`
	Source        Source    `mapstructure:"source" yaml:"source"`
	Server        Server    `mapstructure:"server" yaml:"server"`
	Output        Output    `mapstructure:"output" yaml:"output"`
	Log           Log       `mapstructure:"log" yaml:"log"`
}

// Dopamine holds screen-time preferences.
type Dopamine struct {
	LookbackDays        int `mapstructure:"lookback_days" yaml:"lookback_days"`
	DefaultLimitMinutes int `mapstructure:"default_limit_minutes" yaml:"default_limit_minutes"`
}

// Health holds the daily goals and history window.
type Health struct {
	WaterGoal    int `mapstructure:"water_goal" yaml:"water_goal"`
	StretchGoal  int `mapstructure:"stretch_goal" yaml:"stretch_goal"`
	ExerciseGoal int `mapstructure:"exercise_goal" yaml:"exercise_goal"`
	LookbackDays int `mapstructure:"lookback_days" yaml:"lookback_days"`
}

// Reminder is one recurring reminder's setting.
type Reminder struct {
	Enabled         bool `mapstructure:"enabled" yaml:"enabled"`
	IntervalMinutes int  `mapstructure:"interval_minutes" yaml:"interval_minutes"`
}

// Reminders holds the three reminder kinds.
type Reminders struct {
	Water    Reminder `mapstructure:"water" yaml:"water"`
	Stretch  Reminder `mapstructure:"stretch" yaml:"stretch"`
	Exercise Reminder `mapstructure:"exercise" yaml:"exercise"`
}

// Store locates the local database. An empty path means DBPath().
type Store struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// Source selects where records are read from.
type Source struct {
	Kind     string   `mapstructure:"kind" yaml:"kind"`
	Supabase Supabase `mapstructure:"supabase" yaml:"supabase"`
}

// Supabase holds the hosted backend credentials.
type Supabase struct {
	URL    string `mapstructure:"url" yaml:"url"`
	Key    string `mapstructure:"key" yaml:"key"`
	UserID string `mapstructure:"user_id" yaml:"user_id"`
}

// Server holds the HTTP API settings.
type Server struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color" yaml:"color"`
	Width int  `mapstructure:"width" yaml:"width"`
}

// Log defines logger settings.
type Log struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("timezone", d.Timezone)
	v.SetDefault("analytics_days", d.AnalyticsDays)
	v.SetDefault("dopamine.lookback_days", d.Dopamine.LookbackDays)
	v.SetDefault("dopamine.default_limit_minutes", d.Dopamine.DefaultLimitMinutes)
	v.SetDefault("health.water_goal", d.Health.WaterGoal)
	v.SetDefault("health.stretch_goal", d.Health.StretchGoal)
	v.SetDefault("health.exercise_goal", d.Health.ExerciseGoal)
	v.SetDefault("health.lookback_days", d.Health.LookbackDays)
	for name, r := range map[string]Reminder{
		"water":    d.Reminders.Water,
		"stretch":  d.Reminders.Stretch,
		"exercise": d.Reminders.Exercise,
	} {
		v.SetDefault("reminders."+name+".enabled", r.Enabled)
		v.SetDefault("reminders."+name+".interval_minutes", r.IntervalMinutes)
	}
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("source.kind", d.Source.Kind)
	v.SetDefault("source.supabase.url", d.Source.Supabase.URL)
	v.SetDefault("source.supabase.key", d.Source.Supabase.Key)
	v.SetDefault("source.supabase.user_id", d.Source.Supabase.UserID)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("output.color", d.Output.Color)
	v.SetDefault("output.width", d.Output.Width)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

func newViper(cfgFile string) *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.AddConfigPath(ConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	return v
}

// read loads the file if present; a missing file is not an error.
func read(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults and env overrides applied.
func Load(cfgFile string) (*Config, error) {
	return read(newViper(cfgFile))
}

// Watch loads the configuration and calls onChange with the reloaded value
// whenever the file changes on disk. Reload errors go to onError and the
// previous configuration stays in effect.
func Watch(cfgFile string, onChange func(*Config), onError func(error)) (*Config, error) {
	v := newViper(cfgFile)
	cfg, err := read(v)
	if err != nil {
		return nil, err
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		next, err := read(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(next)
	})
	v.WatchConfig()
	return cfg, nil
}

// Validate rejects values the rest of the program cannot work with.
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case SourceSQLite, SourceSupabase:
	default:
		return fmt.Errorf("config: source.kind must be %q or %q, got %q", SourceSQLite, SourceSupabase, c.Source.Kind)
	}
	switch c.Log.Format {
	case LogConsole, LogJSON:
	default:
		return fmt.Errorf("config: log.format must be %q or %q, got %q", LogConsole, LogJSON, c.Log.Format)
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("config: timezone: %w", err)
		}
	}
	return nil
}

// Location is the configured timezone, or the system local zone.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// HealthGoals converts the health section into metric goals.
func (c *Config) HealthGoals() metrics.HealthGoals {
	return metrics.HealthGoals{
		WaterGlasses:      c.Health.WaterGoal,
		StretchingMinutes: c.Health.StretchGoal,
		ExerciseMinutes:   c.Health.ExerciseGoal,
	}
}

// DeriveOptions converts the config into dashboard derivation options.
// Unset values fall back to the derivation defaults.
func (c *Config) DeriveOptions() snapshot.DeriveOptions {
	opts := snapshot.DefaultDeriveOptions()
	if c.AnalyticsDays > 0 {
		opts.WindowDays = c.AnalyticsDays
	}
	if c.Dopamine.DefaultLimitMinutes > 0 {
		opts.DefaultLimitMinutes = c.Dopamine.DefaultLimitMinutes
	}
	opts.HealthGoals = c.HealthGoals()
	return opts
}

// ReminderConfig converts the reminders section for the scheduler.
func (c *Config) ReminderConfig() reminder.Config {
	conv := func(r Reminder) reminder.Setting {
		return reminder.Setting{Enabled: r.Enabled, IntervalMinutes: r.IntervalMinutes}
	}
	return reminder.Config{
		Water:    conv(c.Reminders.Water),
		Stretch:  conv(c.Reminders.Stretch),
		Exercise: conv(c.Reminders.Exercise),
	}
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// WriteDefault writes the default configuration to path. It refuses to
// overwrite an existing file unless force is set.
func WriteDefault(path string, force bool) error {
	path = expandPath(path)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}
	}
	d := Default()
	data, err := d.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// DatabasePath is the configured store path, or DBPath() when unset.
func (c *Config) DatabasePath() string {
	if c.Store.Path != "" {
		return expandPath(c.Store.Path)
	}
	return DBPath()
}

// DBPath returns the full path to the SQLite database.
func DBPath() string {
	return filepath.Join(ConfigDir(), DefaultDBName)
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}

// ConfigPath returns the default config file path.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), DefaultConfigFile)
}

// PIDPath returns the reminder daemon's PID file path.
func PIDPath() string {
	return filepath.Join(ConfigDir(), DefaultPIDFile)
}
