package preferences

import (
	"io"
	"testing"
	"time"

	"github.com/desertthunder/cafecloud/internal/models"
	"github.com/desertthunder/cafecloud/internal/shared"
	tu "github.com/desertthunder/cafecloud/internal/testing"
)

func newGate(t *testing.T, backend Backend) *Gate {
	t.Helper()
	return NewGate(backend, shared.NewLogger(io.Discard))
}

func TestGate(t *testing.T) {
	t.Run("disabled by default", func(t *testing.T) {
		backend := tu.NewCountingBackend()
		g := newGate(t, backend)

		if g.Enabled() {
			t.Error("expected disabled gate")
		}
		if err := g.Write("mixer", "{}"); err != nil {
			t.Errorf("Write() error = %v", err)
		}
		if backend.Sets != 0 {
			t.Errorf("Sets = %d, want 0", backend.Sets)
		}
	})

	t.Run("flag is loaded", func(t *testing.T) {
		backend := tu.NewCountingBackend()
		backend.Data["cafecloud_save_preferences"] = "true"
		if g := newGate(t, backend); !g.Enabled() {
			t.Error("expected enabled gate")
		}

		backend.Data["cafecloud_save_preferences"] = "yes please"
		if g := newGate(t, backend); g.Enabled() {
			t.Error("malformed flag should leave the gate disabled")
		}
	})

	t.Run("enabling writes only the flag", func(t *testing.T) {
		backend := tu.NewCountingBackend()
		g := newGate(t, backend)

		g.SetEnabled(true)
		if backend.Sets != 1 || backend.Data["cafecloud_save_preferences"] != "true" {
			t.Errorf("backend = %+v", backend)
		}
	})

	t.Run("write overwrites", func(t *testing.T) {
		backend := tu.NewCountingBackend()
		g := newGate(t, backend)
		g.SetEnabled(true)

		_ = g.Write("timer", `{"focus":30}`)
		_ = g.Write("timer", `{"focus":40}`)
		if v, ok := g.Read("timer"); !ok || v != `{"focus":40}` {
			t.Errorf("Read() = %q, %v", v, ok)
		}
		if _, ok := g.Read("mixer"); ok {
			t.Error("expected absent record")
		}
	})

	t.Run("disabling erases records but keeps the flag", func(t *testing.T) {
		backend := tu.NewCountingBackend()
		backend.Data["unrelated"] = "keep"
		g := newGate(t, backend)
		g.SetEnabled(true)

		for _, name := range Names() {
			_ = g.Write(name, "1")
		}
		_ = g.Write("legacy_record", "1")

		g.SetEnabled(false)
		for _, name := range append(Names(), "legacy_record") {
			if _, ok := backend.Data[Prefix+name]; ok {
				t.Errorf("%s still stored", name)
			}
		}
		if backend.Data["cafecloud_save_preferences"] != "false" {
			t.Errorf("flag = %q, want false", backend.Data["cafecloud_save_preferences"])
		}
		if backend.Data["unrelated"] != "keep" {
			t.Error("erased a key outside the prefix")
		}

		g.SetEnabled(true)
		for _, name := range Names() {
			if _, ok := g.Read(name); ok {
				t.Errorf("%s readable after re-enable", name)
			}
		}
	})

	t.Run("disabled gate hides stale bytes", func(t *testing.T) {
		backend := tu.NewCountingBackend()
		backend.Data["cafecloud_mixer"] = `{"master_volume":1}`
		g := newGate(t, backend)

		if _, ok := g.Read("mixer"); ok {
			t.Error("disabled gate returned stored data")
		}
		if backend.Gets != 1 {
			t.Errorf("Gets = %d, want only the flag lookup", backend.Gets)
		}
	})

	t.Run("backend failures", func(t *testing.T) {
		backend := &tu.FailingBackend{}
		g := newGate(t, backend)
		if g.Enabled() {
			t.Fatal("failed flag lookup should leave the gate disabled")
		}

		g.SetEnabled(true)
		if !g.Enabled() {
			t.Error("flag change should survive a failed store")
		}
		if err := g.Write("mixer", "{}"); err == nil {
			t.Error("expected write error")
		}
		if _, ok := g.Read("mixer"); ok {
			t.Error("expected absent on failed read")
		}
		g.SetEnabled(false)
	})
}

func TestRecords(t *testing.T) {
	backend := NewMemoryBackend()
	g := newGate(t, backend)
	g.SetEnabled(true)

	cfg := models.TimerConfig{Focus: 50, ShortBreak: 10, LongBreak: 30, SessionsBeforeLongBreak: 3, AutoStart: true}
	if err := Write(g, TimerRecord, cfg); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, ok := Read(g, TimerRecord)
	if !ok || got != cfg {
		t.Errorf("Read() = %+v, %v", got, ok)
	}

	_ = Write(g, ModeRecord, models.LongBreak)
	if raw, _, _ := backend.Get("cafecloud_timer_mode"); raw != `"longBreak"` {
		t.Errorf("stored mode = %s", raw)
	}

	_ = backend.Set("cafecloud_timer_mode", `"pomodoro"`)
	if mode, ok := Read(g, ModeRecord); !ok || mode != models.Focus {
		t.Errorf("Read(ModeRecord) = %v, %v", mode, ok)
	}

	_ = backend.Set("cafecloud_mixer", `{"tracks":{"typing":{"volume":0.3,"pan":0.5}}}`)
	mixer, ok := Read(g, MixerRecord)
	if !ok || mixer.MasterVolume != nil || mixer.Tracks["typing"].Volume != 0.3 {
		t.Errorf("Read(MixerRecord) without master = %+v, %v", mixer, ok)
	}

	_ = backend.Set("cafecloud_mixer", `{"master_volume":0,"tracks":{}}`)
	if mixer, ok := Read(g, MixerRecord); !ok || mixer.MasterVolume == nil || *mixer.MasterVolume != 0 {
		t.Errorf("Read(MixerRecord) with zero master = %+v, %v", mixer, ok)
	}

	_ = backend.Set("cafecloud_mixer", "not json")
	if _, ok := Read(g, MixerRecord); ok {
		t.Error("malformed record should be absent")
	}
}

func TestBinding(t *testing.T) {
	logger := shared.NewLogger(io.Discard)

	t.Run("disabled binding never writes", func(t *testing.T) {
		backend := tu.NewCountingBackend()
		b := NewBinding(NewGate(backend, logger), logger, 0, 1)

		b.SaveMixer(models.MixerPreferences{MasterVolume: tu.Float(0.5)})
		b.SaveTimer(models.DefaultTimerConfig())
		b.SaveMode(models.ShortBreak)
		b.SaveUI(models.UIPreferences{ShowPan: true})
		b.Sync()

		if backend.Sets != 0 {
			t.Errorf("Sets = %d, want 0", backend.Sets)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		backend := tu.NewCountingBackend()
		b := NewBinding(NewGate(backend, logger), logger, 0, 1)
		b.SetEnabled(true)

		mixer := models.MixerPreferences{
			MasterVolume: tu.Float(0.6),
			Tracks:       map[models.TrackKey]models.TrackPreference{"rainy-day": {Volume: 0.4, Pan: 0.2}},
		}
		b.SaveMixer(mixer)
		b.SaveUI(models.UIPreferences{ShowPan: true})

		fresh := NewBinding(NewGate(backend, logger), logger, 0, 1)
		got, ok := fresh.LoadMixer()
		if !ok || got.MasterVolume == nil || *got.MasterVolume != 0.6 || got.Tracks["rainy-day"].Pan != 0.2 {
			t.Errorf("LoadMixer() = %+v, %v", got, ok)
		}
		if ui, ok := fresh.LoadUI(); !ok || !ui.ShowPan {
			t.Errorf("LoadUI() = %+v, %v", ui, ok)
		}
		if _, ok := fresh.LoadTimer(); ok {
			t.Error("expected no timer record")
		}
	})

	t.Run("throttled writes keep the latest value", func(t *testing.T) {
		backend := tu.NewCountingBackend()
		b := NewBinding(NewGate(backend, logger), logger, time.Hour, 1)
		b.SetEnabled(true)
		sets := backend.Sets

		b.SaveMode(models.ShortBreak)
		b.SaveMode(models.LongBreak)
		b.SaveMode(models.Focus)
		b.SaveTimer(models.DefaultTimerConfig())

		if backend.Sets != sets+1 {
			t.Errorf("Sets = %d, want %d", backend.Sets, sets+1)
		}
		if b.Pending() != 2 {
			t.Errorf("Pending() = %d, want 2", b.Pending())
		}

		b.Flush()
		if b.Pending() != 2 {
			t.Error("Flush should respect the limiter")
		}

		b.Sync()
		if b.Pending() != 0 {
			t.Errorf("Pending() = %d after Sync", b.Pending())
		}
		if backend.Data["cafecloud_timer_mode"] != `"focus"` {
			t.Errorf("stored mode = %s", backend.Data["cafecloud_timer_mode"])
		}
		if _, ok := backend.Data["cafecloud_timer"]; !ok {
			t.Error("timer record not flushed")
		}
	})

	t.Run("deferred writes are stored without another save", func(t *testing.T) {
		backend := tu.NewCountingBackend()
		clk := tu.NewManualClock()
		b := NewBinding(NewGate(backend, logger), logger, 50*time.Millisecond, 1, WithScheduler(clk))
		b.SetEnabled(true)

		b.SaveMode(models.ShortBreak)
		b.SaveMode(models.LongBreak)
		b.SaveMode(models.Focus)
		if b.Pending() != 1 || clk.Pending() != 1 {
			t.Fatalf("Pending() = %d, scheduled = %d, want 1 and 1", b.Pending(), clk.Pending())
		}

		clk.Advance(time.Minute)
		if b.Pending() != 0 {
			t.Errorf("Pending() = %d after the scheduled write", b.Pending())
		}
		if backend.Data["cafecloud_timer_mode"] != `"focus"` {
			t.Errorf("stored mode = %s", backend.Data["cafecloud_timer_mode"])
		}
		if clk.Pending() != 0 {
			t.Errorf("scheduled = %d, want 0", clk.Pending())
		}
	})

	t.Run("sync and disable cancel the scheduled write", func(t *testing.T) {
		backend := tu.NewCountingBackend()
		clk := tu.NewManualClock()
		b := NewBinding(NewGate(backend, logger), logger, time.Hour, 1, WithScheduler(clk))
		b.SetEnabled(true)

		b.SaveMode(models.ShortBreak)
		b.SaveMode(models.LongBreak)
		b.Sync()
		if clk.Pending() != 0 {
			t.Errorf("scheduled after Sync = %d", clk.Pending())
		}

		b.SaveMode(models.Focus)
		if clk.Pending() != 1 {
			t.Fatalf("scheduled = %d, want 1", clk.Pending())
		}
		b.SetEnabled(false)
		if clk.Pending() != 0 {
			t.Errorf("scheduled after disable = %d", clk.Pending())
		}
	})

	t.Run("disable drops pending writes", func(t *testing.T) {
		backend := tu.NewCountingBackend()
		b := NewBinding(NewGate(backend, logger), logger, time.Hour, 1)
		b.SetEnabled(true)

		b.SaveMode(models.ShortBreak)
		b.SaveMode(models.LongBreak)
		b.SetEnabled(false)
		b.Sync()

		if _, ok := backend.Data["cafecloud_timer_mode"]; ok {
			t.Error("record survived disable")
		}
		if b.Pending() != 0 {
			t.Errorf("Pending() = %d", b.Pending())
		}
	})

	t.Run("backend failures are swallowed", func(t *testing.T) {
		backend := &tu.FailingBackend{}
		b := NewBinding(NewGate(backend, logger), logger, 0, 1)
		b.SetEnabled(true)

		b.SaveTimer(models.DefaultTimerConfig())
		if _, ok := b.LoadTimer(); ok {
			t.Error("expected absent")
		}
		if b.Gate() == nil {
			t.Error("expected gate")
		}
	})
}
