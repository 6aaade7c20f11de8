package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cafecloud/internal/clock"
	"github.com/desertthunder/cafecloud/internal/engine"
	"github.com/desertthunder/cafecloud/internal/models"
	"github.com/desertthunder/cafecloud/internal/playback"
	"github.com/desertthunder/cafecloud/internal/preferences"
	"github.com/desertthunder/cafecloud/internal/repositories"
	"github.com/desertthunder/cafecloud/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
	player     playback.Player
	backend    preferences.Backend
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Player and Backend override the ones built from the config.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	Player     playback.Player
	Backend    preferences.Backend
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		player:     opts.Player,
		backend:    opts.Backend,
	}
}

// SetLogger replaces the runner's logger, e.g. to send output to a file while the TUI is drawing.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, tuiCommand, timerCommand, soundsCommand, prefsCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// catalog returns the configured sounds, or the built-in catalog when none are configured.
func (r *Runner) catalog() []models.Sound {
	if len(r.config.Sounds) == 0 {
		sounds := models.DefaultCatalog()
		for i := range sounds {
			sounds[i].Source = r.config.Audio.SoundPath(sounds[i].Source)
		}
		return sounds
	}

	sounds := make([]models.Sound, 0, len(r.config.Sounds))
	for _, s := range r.config.Sounds {
		label := s.Label
		if label == "" {
			label = s.Key
		}
		sounds = append(sounds, models.Sound{
			Key:    models.TrackKey(s.Key),
			Label:  label,
			Source: r.config.Audio.SoundPath(s.File),
		})
	}
	return sounds
}

func (r *Runner) newPlayer() (playback.Player, error) {
	if r.player != nil {
		return r.player, nil
	}

	switch r.config.Audio.Player {
	case "", "ffplay":
		return playback.NewExec(r.config.Audio.PlayerPath, shared.WithLogger(r.logger, "component", "playback")), nil
	case "silent":
		return playback.NewSilent(shared.WithLogger(r.logger, "component", "playback")), nil
	default:
		return nil, fmt.Errorf("%w: unknown player %q", shared.ErrInvalidConfig, r.config.Audio.Player)
	}
}

// openBackend opens the preference store. When the database cannot be opened preferences are kept
// in memory for the lifetime of the process.
func (r *Runner) openBackend() (preferences.Backend, func()) {
	if r.backend != nil {
		return r.backend, func() {}
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		r.logger.Warn("preferences database unavailable, keeping preferences in memory", "path", r.config.Database.Path, "error", err)
		return preferences.NewMemoryBackend(), func() {}
	}
	return repositories.NewPreferenceRepository(db), func() { closeDB(r.logger, db) }
}

func closeDB(logger *log.Logger, db *sql.DB) {
	if err := db.Close(); err != nil {
		logger.Warn("failed to close database", "error", err)
	}
}

// buildEngine wires an engine to clk. The returned release function closes the engine and its store.
func (r *Runner) buildEngine(clk clock.Clock, updates chan<- engine.Update) (*engine.Engine, func(), error) {
	if err := r.config.Validate(); err != nil {
		return nil, nil, err
	}

	shared.SetLogLevel(r.logger, shared.ParseLogLevel(r.config.Logging.Level))
	r.logger.Debug("building engine", "config", r.configPath, "player", r.config.Audio.Player)

	player, err := r.newPlayer()
	if err != nil {
		return nil, nil, err
	}

	backend, closeBackend := r.openBackend()

	audio := r.config.Audio
	opts := engine.DefaultOptions()
	opts.Catalog = r.catalog()
	opts.Player = player
	opts.Clock = clk
	opts.Backend = backend
	opts.MasterVolume = audio.MasterVolume
	opts.DefaultVolume = audio.DefaultVolume
	opts.DefaultPan = audio.DefaultPan
	opts.ChimeSource = audio.SoundPath(audio.ChimeSource)
	if audio.ChimeVolume > 0 {
		opts.ChimeVolume = audio.ChimeVolume
	}
	opts.Timer = models.TimerConfig{
		Focus:                   r.config.Timer.Focus,
		ShortBreak:              r.config.Timer.ShortBreak,
		LongBreak:               r.config.Timer.LongBreak,
		SessionsBeforeLongBreak: r.config.Timer.SessionsBeforeLongBreak,
		AutoStart:               r.config.Timer.AutoStart,
	}.Normalize()
	opts.TickInterval = r.config.Timer.TickInterval()
	opts.SettleDelay = r.config.Timer.SettleDelay()
	opts.WriteInterval = r.config.Preferences.WriteInterval()
	if r.config.Preferences.WriteBurst > 0 {
		opts.WriteBurst = r.config.Preferences.WriteBurst
	}
	opts.Updates = updates

	eng, err := engine.New(opts, r.logger)
	if err != nil {
		closeBackend()
		return nil, nil, fmt.Errorf("failed to build engine: %w", err)
	}

	release := func() {
		eng.Close()
		closeBackend()
	}
	return eng, release, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
