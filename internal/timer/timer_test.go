package timer

import (
	"io"
	"testing"
	"time"

	"github.com/desertthunder/cafecloud/internal/models"
	"github.com/desertthunder/cafecloud/internal/shared"
	tu "github.com/desertthunder/cafecloud/internal/testing"
)

type countingNotifier struct{ calls int }

func (n *countingNotifier) Notify() { n.calls++ }

func newMachine(cfg models.TimerConfig, opts ...Option) (*Machine, *tu.ManualClock) {
	clk := tu.NewManualClock()
	return New(clk, cfg, shared.NewLogger(io.Discard), opts...), clk
}

func TestMachineLifecycle(t *testing.T) {
	t.Run("new machine is idle in focus", func(t *testing.T) {
		m, clk := newMachine(models.DefaultTimerConfig())
		s := m.State()
		if s.Mode != models.Focus || s.Status != models.Idle || s.RemainingSeconds != 25*60 {
			t.Errorf("State() = %+v", s)
		}
		if s.Running || s.Finished {
			t.Error("expected neither running nor finished")
		}
		if clk.Pending() != 0 {
			t.Errorf("Pending() = %d, want 0", clk.Pending())
		}
	})

	t.Run("full focus session", func(t *testing.T) {
		n := &countingNotifier{}
		m, clk := newMachine(models.DefaultTimerConfig(), WithNotifier(n))

		var sawZeroWhileRunning bool
		m.SetObserver(func(s models.TimerState) {
			if s.RemainingSeconds == 0 && s.Running {
				sawZeroWhileRunning = true
			}
		})

		m.Start()
		if m.State().SessionID == "" {
			t.Error("expected session id")
		}
		for range 25 * 60 {
			clk.Advance(time.Second)
		}

		s := m.State()
		if s.Status != models.Finished || s.RemainingSeconds != 0 || s.Running || !s.Finished {
			t.Errorf("State() = %+v", s)
		}
		if sawZeroWhileRunning {
			t.Error("observed remainingSeconds == 0 while running")
		}
		if n.calls != 1 {
			t.Errorf("notifier called %d times, want 1", n.calls)
		}
		if clk.Pending() != 0 {
			t.Errorf("Pending() = %d, want 0 without auto start", clk.Pending())
		}

		clk.Advance(time.Hour)
		if m.State().Status != models.Finished {
			t.Error("expected to stay finished")
		}
	})

	t.Run("start while finished does nothing", func(t *testing.T) {
		cfg := models.DefaultTimerConfig()
		cfg.Focus = 1
		m, clk := newMachine(cfg)
		m.Start()
		clk.Advance(time.Minute)

		m.Start()
		if s := m.State(); s.Status != models.Finished || clk.Pending() != 0 {
			t.Errorf("State() = %+v, pending %d", s, clk.Pending())
		}
	})

	t.Run("pause and resume", func(t *testing.T) {
		m, clk := newMachine(models.DefaultTimerConfig())
		m.Start()
		id := m.State().SessionID
		clk.Advance(10 * time.Second)

		m.Pause()
		clk.Advance(time.Minute)
		if s := m.State(); s.Status != models.Paused || s.RemainingSeconds != 25*60-10 {
			t.Errorf("State() = %+v", s)
		}

		m.Start()
		clk.Advance(5 * time.Second)
		s := m.State()
		if s.Status != models.Running || s.RemainingSeconds != 25*60-15 {
			t.Errorf("State() = %+v", s)
		}
		if s.SessionID != id {
			t.Error("resume should keep the session id")
		}
	})

	t.Run("pause and start are no-ops in other states", func(t *testing.T) {
		m, clk := newMachine(models.DefaultTimerConfig())
		m.Pause()
		if m.State().Status != models.Idle {
			t.Error("pause from idle changed state")
		}

		m.Start()
		m.Start()
		if clk.Pending() != 1 {
			t.Errorf("Pending() = %d, want 1 tick", clk.Pending())
		}
	})

	t.Run("reset while running", func(t *testing.T) {
		cfg := models.DefaultTimerConfig()
		cfg.Focus = 1
		cfg.ShortBreak = 1
		cfg.AutoStart = true
		m, clk := newMachine(cfg)

		m.Start()
		clk.Advance(62 * time.Second)
		if s := m.State(); s.Mode != models.ShortBreak || s.CompletedFocusSessions != 1 {
			t.Fatalf("State() = %+v", s)
		}
		clk.Advance(20 * time.Second)

		m.Reset()
		s := m.State()
		if s.Status != models.Idle || s.RemainingSeconds != 60 || s.CompletedFocusSessions != 0 {
			t.Errorf("State() = %+v", s)
		}
		if s.Mode != models.ShortBreak {
			t.Errorf("Mode = %v, want mode kept", s.Mode)
		}
		if clk.Pending() != 0 {
			t.Errorf("Pending() = %d, want 0", clk.Pending())
		}
	})
}

func TestMachineAutoChain(t *testing.T) {
	cfg := models.TimerConfig{Focus: 1, ShortBreak: 1, LongBreak: 1, SessionsBeforeLongBreak: 2, AutoStart: true}
	m, clk := newMachine(cfg)

	var entered []models.TimerState
	prev := models.Focus
	m.SetObserver(func(s models.TimerState) {
		if s.Mode != prev {
			entered = append(entered, s)
			prev = s.Mode
		}
	})

	m.Start()

	clk.Advance(time.Minute)
	if s := m.State(); s.Status != models.Finished || s.Mode != models.Focus {
		t.Fatalf("after first focus: %+v", s)
	}
	clk.Advance(time.Second)
	if s := m.State(); s.Status != models.Finished {
		t.Fatalf("chained before settle delay: %+v", s)
	}
	clk.Advance(time.Second)

	s := m.State()
	if s.Mode != models.ShortBreak || s.Status != models.Running || s.Finished {
		t.Fatalf("after session 1: %+v", s)
	}
	if s.CompletedFocusSessions != 1 || s.RemainingSeconds != 60 {
		t.Errorf("after session 1: %+v", s)
	}

	clk.Advance(62 * time.Second)
	if s := m.State(); s.Mode != models.Focus || s.CompletedFocusSessions != 1 {
		t.Fatalf("after short break: %+v", s)
	}

	clk.Advance(62 * time.Second)
	s = m.State()
	if s.Mode != models.LongBreak || s.Status != models.Running {
		t.Fatalf("after session 2: %+v", s)
	}
	if s.CompletedFocusSessions != 0 {
		t.Errorf("CompletedFocusSessions = %d, want 0", s.CompletedFocusSessions)
	}

	if len(entered) != 3 {
		t.Fatalf("observed %d mode changes, want 3", len(entered))
	}
	if lb := entered[2]; lb.Mode != models.LongBreak || lb.CompletedFocusSessions != 0 {
		t.Errorf("on entering long break: %+v", lb)
	}

	clk.Advance(62 * time.Second)
	if s := m.State(); s.Mode != models.Focus || s.CompletedFocusSessions != 0 {
		t.Errorf("after long break: %+v", s)
	}
}

func TestMachineStaleCallbacks(t *testing.T) {
	cfg := models.TimerConfig{Focus: 1, ShortBreak: 1, LongBreak: 1, SessionsBeforeLongBreak: 4, AutoStart: true}

	tests := []struct {
		name   string
		cancel func(*Machine)
		want   models.Status
	}{
		{name: "reset", cancel: (*Machine).Reset, want: models.Idle},
		{name: "pause", cancel: (*Machine).Pause, want: models.Paused},
	}

	for _, tt := range tests {
		t.Run("tick after "+tt.name, func(t *testing.T) {
			m, clk := newMachine(cfg)
			m.Start()
			tick := clk.Fire(clk.Tokens()[0])

			tt.cancel(m)
			before := m.State()
			tick()
			if after := m.State(); after.RemainingSeconds != before.RemainingSeconds || after.Status != tt.want {
				t.Errorf("stale tick mutated state: before %+v after %+v", before, after)
			}
		})
	}

	t.Run("chain after reset", func(t *testing.T) {
		m, clk := newMachine(cfg)
		m.Start()
		clk.Advance(time.Minute)

		chain := clk.Fire(clk.Tokens()[0])
		if chain == nil {
			t.Fatal("expected pending chain")
		}
		m.Reset()
		chain()

		if s := m.State(); s.Status != models.Idle || s.Mode != models.Focus {
			t.Errorf("stale chain mutated state: %+v", s)
		}
	})

	t.Run("chain after mode change", func(t *testing.T) {
		m, clk := newMachine(cfg)
		m.Start()
		clk.Advance(time.Minute)

		chain := clk.Fire(clk.Tokens()[0])
		m.SetMode(models.LongBreak)
		if clk.Pending() != 0 {
			t.Errorf("Pending() = %d, want 0", clk.Pending())
		}
		chain()

		if s := m.State(); s.Status != models.Idle || s.Mode != models.LongBreak || s.CompletedFocusSessions != 0 {
			t.Errorf("stale chain mutated state: %+v", s)
		}
	})

	t.Run("disabling auto start drops the chain", func(t *testing.T) {
		m, clk := newMachine(cfg)
		m.Start()
		clk.Advance(time.Minute)

		m.SetAutoStart(false)
		clk.Advance(time.Minute)
		if s := m.State(); s.Status != models.Finished {
			t.Errorf("State() = %+v", s)
		}
	})
}

func TestMachineSetMode(t *testing.T) {
	t.Run("idle switch loads duration", func(t *testing.T) {
		m, _ := newMachine(models.DefaultTimerConfig())
		m.SetMode(models.ShortBreak)
		if s := m.State(); s.Mode != models.ShortBreak || s.RemainingSeconds != 5*60 || s.Status != models.Idle {
			t.Errorf("State() = %+v", s)
		}
	})

	t.Run("paused switch goes idle", func(t *testing.T) {
		m, clk := newMachine(models.DefaultTimerConfig())
		m.Start()
		clk.Advance(3 * time.Second)
		m.Pause()

		m.SetMode(models.LongBreak)
		if s := m.State(); s.Status != models.Idle || s.RemainingSeconds != 15*60 {
			t.Errorf("State() = %+v", s)
		}
	})

	t.Run("running switch keeps counting", func(t *testing.T) {
		m, clk := newMachine(models.DefaultTimerConfig())
		m.Start()
		clk.Advance(3 * time.Second)

		m.SetMode(models.ShortBreak)
		clk.Advance(time.Second)
		if s := m.State(); s.Mode != models.ShortBreak || s.Status != models.Running || s.RemainingSeconds != 25*60-4 {
			t.Errorf("State() = %+v", s)
		}
	})

	t.Run("manual switch keeps the session count", func(t *testing.T) {
		cfg := models.TimerConfig{Focus: 1, ShortBreak: 1, LongBreak: 1, SessionsBeforeLongBreak: 4, AutoStart: true}
		m, clk := newMachine(cfg)
		m.Start()
		clk.Advance(62 * time.Second)

		m.SetMode(models.Focus)
		if s := m.State(); s.CompletedFocusSessions != 1 {
			t.Errorf("CompletedFocusSessions = %d, want 1", s.CompletedFocusSessions)
		}
	})

	t.Run("invalid mode ignored", func(t *testing.T) {
		m, _ := newMachine(models.DefaultTimerConfig())
		m.SetMode(models.Mode(9))
		if m.State().Mode != models.Focus {
			t.Error("invalid mode applied")
		}
	})

	t.Run("restore mode only while idle", func(t *testing.T) {
		m, _ := newMachine(models.DefaultTimerConfig())
		m.RestoreMode(models.LongBreak)
		if s := m.State(); s.Mode != models.LongBreak || s.RemainingSeconds != 15*60 {
			t.Errorf("State() = %+v", s)
		}

		m.Start()
		m.RestoreMode(models.Focus)
		if m.State().Mode != models.LongBreak {
			t.Error("restore applied while running")
		}
	})
}

func TestMachineDurations(t *testing.T) {
	tests := []struct {
		name    string
		mode    models.Mode
		minutes int
		want    int
	}{
		{"focus", models.Focus, 50, 50},
		{"focus upper bound", models.Focus, 500, 120},
		{"break upper bound", models.ShortBreak, 90, 60},
		{"lower bound", models.LongBreak, 0, 1},
		{"negative", models.Focus, -5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newMachine(models.DefaultTimerConfig())
			m.SetDuration(tt.mode, tt.minutes)
			if got := m.Config().Minutes(tt.mode); got != tt.want {
				t.Errorf("Minutes(%v) = %d, want %d", tt.mode, got, tt.want)
			}
		})
	}

	t.Run("current mode updates remaining", func(t *testing.T) {
		m, _ := newMachine(models.DefaultTimerConfig())
		m.SetDuration(models.Focus, 10)
		if got := m.State().RemainingSeconds; got != 600 {
			t.Errorf("RemainingSeconds = %d, want 600", got)
		}
	})

	t.Run("other mode leaves remaining", func(t *testing.T) {
		m, _ := newMachine(models.DefaultTimerConfig())
		m.SetDuration(models.LongBreak, 30)
		if got := m.State().RemainingSeconds; got != 25*60 {
			t.Errorf("RemainingSeconds = %d, want %d", got, 25*60)
		}
	})

	t.Run("running session is not rewound", func(t *testing.T) {
		m, clk := newMachine(models.DefaultTimerConfig())
		m.Start()
		clk.Advance(time.Second)
		m.SetDuration(models.Focus, 10)
		if s := m.State(); s.RemainingSeconds != 25*60-1 || s.Status != models.Running {
			t.Errorf("State() = %+v", s)
		}
	})

	t.Run("non-numeric input keeps previous", func(t *testing.T) {
		m, _ := newMachine(models.DefaultTimerConfig())
		m.SetDurationInput(models.Focus, "30")
		m.SetDurationInput(models.Focus, "abc")
		m.SetDurationInput(models.Focus, "")
		if got := m.Config().Focus; got != 30 {
			t.Errorf("Focus = %d, want 30", got)
		}

		m.SetDurationInput(models.Focus, "99999999999999999999")
		if got := m.Config().Focus; got != 120 {
			t.Errorf("Focus = %d after oversized input, want 120", got)
		}
	})

	t.Run("sessions before long break", func(t *testing.T) {
		m, _ := newMachine(models.DefaultTimerConfig())
		m.SetSessionsBeforeLongBreak(42)
		if got := m.Config().SessionsBeforeLongBreak; got != 10 {
			t.Errorf("SessionsBeforeLongBreak = %d, want 10", got)
		}
	})

	t.Run("apply config", func(t *testing.T) {
		m, _ := newMachine(models.DefaultTimerConfig())
		m.ApplyConfig(models.TimerConfig{Focus: 45, ShortBreak: 0, LongBreak: 20, SessionsBeforeLongBreak: 0, AutoStart: true})

		cfg := m.Config()
		if cfg.Focus != 45 || cfg.ShortBreak != 1 || cfg.SessionsBeforeLongBreak != 1 || !cfg.AutoStart {
			t.Errorf("Config() = %+v", cfg)
		}
		if m.State().RemainingSeconds != 45*60 {
			t.Errorf("RemainingSeconds = %d", m.State().RemainingSeconds)
		}
	})
}

func TestMachineOptions(t *testing.T) {
	cfg := models.TimerConfig{Focus: 1, ShortBreak: 1, LongBreak: 1, SessionsBeforeLongBreak: 4, AutoStart: true}
	m, clk := newMachine(cfg, WithTickInterval(100*time.Millisecond), WithSettleDelay(0), WithTickInterval(-1))

	m.Start()
	clk.Advance(6 * time.Second)
	if s := m.State(); s.Mode != models.ShortBreak || s.Status != models.Running {
		t.Errorf("State() = %+v", s)
	}

	m.Close()
	if clk.Pending() != 0 {
		t.Errorf("Pending() = %d after Close", clk.Pending())
	}
}
