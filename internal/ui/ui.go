package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/cafecloud/internal/engine"
	"github.com/desertthunder/cafecloud/internal/formatter"
	"github.com/desertthunder/cafecloud/internal/models"
	"github.com/desertthunder/cafecloud/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	MixerView ViewState = iota
	TimerView
	SettingsView
)

func (v ViewState) String() string {
	switch v {
	case MixerView:
		return "Mixer"
	case TimerView:
		return "Timer"
	case SettingsView:
		return "Settings"
	default:
		return ""
	}
}

var views = []ViewState{MixerView, TimerView, SettingsView}

const (
	volumeStep = 0.05
	panStep    = 0.1
	barWidth   = 10
)

// Callbacks is the consumer side of the clock loop.
type Callbacks interface {
	Next(ctx context.Context) (func(), bool)
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	engine    *engine.Engine
	callbacks Callbacks
	updates   <-chan engine.Update
	cursor    int
	editing   bool
	input     textinput.Model
	progress  progress.Model
	status    string
	width     int
	height    int
	help      help.Model
	keys      keyMap
}

// NewModel creates a new TUI model driving eng. Clock callbacks are read from callbacks and
// engine updates from updates.
func NewModel(ctx context.Context, eng *engine.Engine, callbacks Callbacks, updates <-chan engine.Update) *Model {
	input := textinput.New()
	input.Placeholder = "minutes"
	input.CharLimit = 3
	input.Width = 6

	return &Model{
		ctx:       ctx,
		view:      MixerView,
		engine:    eng,
		callbacks: callbacks,
		updates:   updates,
		input:     input,
		progress:  progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init starts listening for clock callbacks and engine updates.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForCallback(), m.waitForUpdate())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-8, 10), 60)
		m.help.Width = msg.Width
		return m, nil

	case Msg:
		switch msg.kind {
		case MsgCallback:
			if fn, ok := msg.data.(func()); ok && fn != nil {
				fn()
			}
			return m, m.waitForCallback()
		case MsgEngineUpdate:
			if u, ok := msg.data.(engine.Update); ok && u.Message != "" {
				m.status = u.Message
			}
			return m, m.waitForUpdate()
		case MsgLoopClosed:
			return m, tea.Quit
		}

	case tea.KeyMsg:
		if m.editing {
			return m.handleEditKeys(msg)
		}

		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.tab):
			m.view = views[(int(m.view)+1)%len(views)]
			return m, nil
		}

		switch m.view {
		case MixerView:
			return m.handleMixerKeys(msg)
		case TimerView:
			return m.handleTimerKeys(msg)
		case SettingsView:
			return m.handleSettingsKeys(msg)
		}
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	snap := m.engine.Snapshot()

	var body string
	switch m.view {
	case MixerView:
		body = m.renderMixer(snap)
	case TimerView:
		body = m.renderTimer(snap)
	case SettingsView:
		body = m.renderSettings(snap)
	}

	footer := formatter.TimerLine(snap.Timer)
	if m.status != "" {
		footer = fmt.Sprintf("%s • %s", footer, m.status)
	}

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s\n%s",
		styles.title.Render("CaféCloud"),
		m.renderTabs(),
		body,
		styles.help.Render(footer),
		m.help.ShortHelpView(m.helpKeys(snap)),
	)
}

func (m *Model) handleMixerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.engine.Snapshot()
	tracks := snap.Mixer.Tracks
	if len(tracks) == 0 {
		return m, nil
	}
	m.cursor = min(max(m.cursor, 0), len(tracks)-1)
	current := tracks[m.cursor].Key

	var err error
	switch {
	case key.Matches(msg, m.keys.up):
		m.cursor = (m.cursor - 1 + len(tracks)) % len(tracks)
	case key.Matches(msg, m.keys.down):
		m.cursor = (m.cursor + 1) % len(tracks)
	case key.Matches(msg, m.keys.toggle):
		err = m.engine.TogglePlay(current)
	case key.Matches(msg, m.keys.louder):
		err = m.engine.AdjustTrackVolume(current, volumeStep)
	case key.Matches(msg, m.keys.quieter):
		err = m.engine.AdjustTrackVolume(current, -volumeStep)
	case key.Matches(msg, m.keys.panLeft) && snap.UI.ShowPan:
		err = m.engine.AdjustTrackPan(current, -panStep)
	case key.Matches(msg, m.keys.panRight) && snap.UI.ShowPan:
		err = m.engine.AdjustTrackPan(current, panStep)
	case key.Matches(msg, m.keys.masterUp):
		m.engine.AdjustMasterVolume(volumeStep)
	case key.Matches(msg, m.keys.masterDown):
		m.engine.AdjustMasterVolume(-volumeStep)
	case key.Matches(msg, m.keys.mute):
		m.engine.ToggleMute()
	}

	if err != nil {
		m.status = err.Error()
	}
	return m, nil
}

func (m *Model) handleTimerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cfg := m.engine.Snapshot().Timer.Config

	switch {
	case key.Matches(msg, m.keys.toggle):
		m.engine.ToggleTimer()
	case key.Matches(msg, m.keys.reset):
		m.engine.ResetTimer()
	case key.Matches(msg, m.keys.nextMode):
		m.engine.CycleMode()
	case key.Matches(msg, m.keys.louder):
		m.engine.AdjustDuration(1)
	case key.Matches(msg, m.keys.quieter):
		m.engine.AdjustDuration(-1)
	case key.Matches(msg, m.keys.autoStart):
		m.engine.SetAutoStart(!cfg.AutoStart)
	case key.Matches(msg, m.keys.sessions):
		m.engine.SetSessionsBeforeLongBreak(cfg.SessionsBeforeLongBreak%models.MaxSessionsBeforeLongBreak + 1)
	case key.Matches(msg, m.keys.edit):
		m.editing = true
		m.input.SetValue("")
		return m, m.input.Focus()
	}
	return m, nil
}

func (m *Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.enter):
		m.engine.SetDurationInput(m.engine.Snapshot().Timer.Mode, m.input.Value())
		m.editing = false
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.back):
		m.editing = false
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleSettingsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.engine.Snapshot()
	switch {
	case key.Matches(msg, m.keys.save):
		m.engine.SetPersistence(!snap.PersistenceEnabled)
	case key.Matches(msg, m.keys.showPan):
		m.engine.SetShowPan(!snap.UI.ShowPan)
	}
	return m, nil
}

// waitForCallback delivers the next clock callback as a message.
func (m *Model) waitForCallback() tea.Cmd {
	if m.callbacks == nil {
		return nil
	}
	return func() tea.Msg {
		fn, ok := m.callbacks.Next(m.ctx)
		if !ok {
			return loopClosedMsg()
		}
		return callbackMsg(fn)
	}
}

func (m *Model) waitForUpdate() tea.Cmd {
	if m.updates == nil {
		return nil
	}
	return func() tea.Msg {
		update, ok := <-m.updates
		if !ok {
			return nil
		}
		return engineUpdateMsg(update)
	}
}

func (m *Model) renderTabs() string {
	tabs := make([]string, len(views))
	for i, v := range views {
		if v == m.view {
			tabs[i] = styles.active.Render(v.String())
		} else {
			tabs[i] = styles.tab.Render(v.String())
		}
	}
	return strings.Join(tabs, " ")
}

func (m *Model) renderMixer(snap engine.Snapshot) string {
	var b strings.Builder

	master := fmt.Sprintf("Master  %s %s", bar(snap.Mixer.MasterVolume, barWidth), formatter.Percent(snap.Mixer.MasterVolume))
	if snap.Mixer.Muted {
		master += " " + styles.warn.Render("(muted)")
	}
	b.WriteString(master + "\n\n")

	for i, t := range snap.Mixer.Tracks {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		icon := "·"
		if t.Playing {
			icon = styles.ok.Render("▶")
		}

		line := fmt.Sprintf("%s%s %-24s %s %4s", cursor, icon, t.Label, bar(t.Volume, barWidth), formatter.Percent(t.Volume))
		if snap.UI.ShowPan {
			line += fmt.Sprintf("  pan %s", formatter.PanLabel(t.Pan))
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) renderTimer(snap engine.Snapshot) string {
	s := snap.Timer

	var b strings.Builder
	b.WriteString(styles.title.Render(s.Mode.Label()) + "\n")
	b.WriteString(styles.clock.Render(shared.FormatClock(s.RemainingSeconds)) + "\n")
	b.WriteString(m.progress.ViewAs(s.Progress()) + "\n\n")

	status := s.Status.String()
	if s.Finished {
		status = styles.ok.Render("Session complete!")
	}
	b.WriteString(fmt.Sprintf("Status: %s  Sessions: %d/%d\n\n", status, s.CompletedFocusSessions, s.Config.SessionsBeforeLongBreak))
	b.WriteString(formatter.ConfigToText(s.Config))

	if m.editing {
		b.WriteString(fmt.Sprintf("\n%s minutes: %s", s.Mode.Label(), m.input.View()))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) renderSettings(snap engine.Snapshot) string {
	check := func(on bool) string {
		if on {
			return "[x]"
		}
		return "[ ]"
	}

	return fmt.Sprintf("%s Save preferences\n%s Show pan controls\n\n%s",
		check(snap.PersistenceEnabled),
		check(snap.UI.ShowPan),
		styles.help.Render("Turning off saving erases stored preferences."),
	)
}

func (m *Model) helpKeys(snap engine.Snapshot) []key.Binding {
	if m.editing {
		return []key.Binding{m.keys.enter, m.keys.back}
	}

	switch m.view {
	case MixerView:
		keys := []key.Binding{m.keys.up, m.keys.down, m.keys.toggle, m.keys.louder, m.keys.quieter}
		if snap.UI.ShowPan {
			keys = append(keys, m.keys.panLeft, m.keys.panRight)
		}
		return append(keys, m.keys.masterUp, m.keys.masterDown, m.keys.mute, m.keys.tab, m.keys.quit)
	case TimerView:
		return []key.Binding{
			m.keys.toggle, m.keys.reset, m.keys.nextMode, m.keys.louder, m.keys.quieter,
			m.keys.edit, m.keys.autoStart, m.keys.sessions, m.keys.tab, m.keys.quit,
		}
	default:
		return []key.Binding{m.keys.save, m.keys.showPan, m.keys.tab, m.keys.quit}
	}
}
