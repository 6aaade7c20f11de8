package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./cafecloud.db" {
			t.Errorf("expected database path ./cafecloud.db, got %s", config.Database.Path)
		}

		if config.Audio.MasterVolume != 0.8 {
			t.Errorf("expected master volume 0.8, got %v", config.Audio.MasterVolume)
		}

		if config.Audio.DefaultVolume != 0.7 {
			t.Errorf("expected default volume 0.7, got %v", config.Audio.DefaultVolume)
		}

		if config.Timer.Focus != 25 || config.Timer.ShortBreak != 5 || config.Timer.LongBreak != 15 {
			t.Errorf("unexpected timer durations: %+v", config.Timer)
		}

		if len(config.Sounds) != 9 {
			t.Errorf("expected 9 sounds, got %d", len(config.Sounds))
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"

[audio]
player = "silent"
master_volume = 0.5

[timer]
focus = 50
settle_delay_ms = 500

[[sounds]]
key = "rain"
label = "Rain"
file = "/abs/rain.wav"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Audio.Player != "silent" || config.Audio.MasterVolume != 0.5 {
			t.Errorf("unexpected audio config: %+v", config.Audio)
		}

		if config.Audio.DefaultVolume != 0.7 {
			t.Errorf("missing fields should keep defaults, got default volume %v", config.Audio.DefaultVolume)
		}

		if config.Timer.Focus != 50 || config.Timer.ShortBreak != 5 {
			t.Errorf("unexpected timer config: %+v", config.Timer)
		}

		if config.Timer.SettleDelay() != 500*time.Millisecond {
			t.Errorf("expected settle delay 500ms, got %v", config.Timer.SettleDelay())
		}

		if len(config.Sounds) != 1 || config.Sounds[0].Key != "rain" {
			t.Errorf("expected sound catalog override, got %+v", config.Sounds)
		}

		if got := config.Audio.SoundPath(config.Sounds[0].File); got != "/abs/rain.wav" {
			t.Errorf("absolute sound paths should be kept, got %s", got)
		}
	})

	t.Run("LoadConfig rejects duplicate sound keys", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		data := "[[sounds]]\nkey = \"a\"\n[[sounds]]\nkey = \"a\"\n"
		if err := os.WriteFile(configPath, []byte(data), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestConfigDurations(t *testing.T) {
	tc := []struct {
		name string
		got  time.Duration
		want time.Duration
	}{
		{"tick default", TimerConfig{}.TickInterval(), time.Second},
		{"tick configured", TimerConfig{TickIntervalMS: 10}.TickInterval(), 10 * time.Millisecond},
		{"settle zero", TimerConfig{}.SettleDelay(), 0},
		{"settle negative", TimerConfig{SettleDelayMS: -5}.SettleDelay(), 0},
		{"write interval disabled", PreferencesConfig{}.WriteInterval(), 0},
		{"write interval", PreferencesConfig{WriteIntervalMS: 250}.WriteInterval(), 250 * time.Millisecond},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestSoundPath(t *testing.T) {
	a := AudioConfig{SoundDir: "sounds"}
	if got := a.SoundPath("rain.wav"); got != filepath.Join("sounds", "rain.wav") {
		t.Errorf("SoundPath() = %s", got)
	}
	if got := (AudioConfig{}).SoundPath("rain.wav"); got != "rain.wav" {
		t.Errorf("SoundPath() without dir = %s", got)
	}
}
