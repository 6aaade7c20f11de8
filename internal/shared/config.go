package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database    DatabaseConfig    `toml:"database"`
	Audio       AudioConfig       `toml:"audio"`
	Timer       TimerConfig       `toml:"timer"`
	Preferences PreferencesConfig `toml:"preferences"`
	Logging     LoggingConfig     `toml:"logging"`
	Sounds      []SoundConfig     `toml:"sounds"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// AudioConfig selects the playback backend and the mixer defaults.
type AudioConfig struct {
	Player        string  `toml:"player"`
	PlayerPath    string  `toml:"player_path"`
	SoundDir      string  `toml:"sound_dir"`
	MasterVolume  float64 `toml:"master_volume"`
	DefaultVolume float64 `toml:"default_volume"`
	DefaultPan    float64 `toml:"default_pan"`
	ChimeSource   string  `toml:"chime_source"`
	ChimeVolume   float64 `toml:"chime_volume"`
}

// TimerConfig contains the default session durations (minutes) and scheduling cadence.
type TimerConfig struct {
	Focus                   int  `toml:"focus"`
	ShortBreak              int  `toml:"short_break"`
	LongBreak               int  `toml:"long_break"`
	SessionsBeforeLongBreak int  `toml:"sessions_before_long_break"`
	AutoStart               bool `toml:"auto_start"`
	TickIntervalMS          int  `toml:"tick_interval_ms"`
	SettleDelayMS           int  `toml:"settle_delay_ms"`
}

// PreferencesConfig throttles preference writes.
type PreferencesConfig struct {
	WriteIntervalMS int `toml:"write_interval_ms"`
	WriteBurst      int `toml:"write_burst"`
}

// LoggingConfig contains the log level and the log file used by the TUI.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// SoundConfig is one catalog entry. File is resolved against [AudioConfig.SoundDir] when relative.
type SoundConfig struct {
	Key   string `toml:"key"`
	Label string `toml:"label"`
	File  string `toml:"file"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Fields missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	sounds := config.Sounds
	config.Sounds = nil
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if len(config.Sounds) == 0 {
		config.Sounds = sounds
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate rejects catalogs with empty or duplicate keys.
func (c *Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Sounds))
	for i, s := range c.Sounds {
		if s.Key == "" {
			return fmt.Errorf("%w: sound #%d has no key", ErrInvalidConfig, i+1)
		}
		if _, dup := seen[s.Key]; dup {
			return fmt.Errorf("%w: duplicate sound key %q", ErrInvalidConfig, s.Key)
		}
		seen[s.Key] = struct{}{}
	}
	return nil
}

// SoundPath resolves a sound file against the configured sound directory.
func (a AudioConfig) SoundPath(file string) string {
	if file == "" || filepath.IsAbs(file) || a.SoundDir == "" {
		return file
	}
	return filepath.Join(a.SoundDir, file)
}

// TickInterval returns the countdown cadence, one second unless configured otherwise.
func (t TimerConfig) TickInterval() time.Duration {
	if t.TickIntervalMS <= 0 {
		return time.Second
	}
	return time.Duration(t.TickIntervalMS) * time.Millisecond
}

// SettleDelay returns the pause between a finished session and the auto-started next one.
func (t TimerConfig) SettleDelay() time.Duration {
	if t.SettleDelayMS < 0 {
		return 0
	}
	return time.Duration(t.SettleDelayMS) * time.Millisecond
}

// WriteInterval returns the minimum spacing between preference writes; zero disables throttling.
func (p PreferencesConfig) WriteInterval() time.Duration {
	if p.WriteIntervalMS <= 0 {
		return 0
	}
	return time.Duration(p.WriteIntervalMS) * time.Millisecond
}
